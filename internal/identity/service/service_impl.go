package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/config"
	"github.com/personacoreio/personacore/internal/identity/domain"
	"github.com/personacoreio/personacore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	loginTokenBytes      = 32
	placeholderCredBytes = 32
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config
	Repo  domain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	baseURL  string
	tokenTTL time.Duration
}

func New(p Params) domain.Service {
	ttl := time.Duration(p.Cfg.MagicLinkTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("identity.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		baseURL:  p.Cfg.BaseURL,
		tokenTTL: ttl,
	}
}

func (s *Service) Resolve(ctx context.Context, email string, metadata map[string]any) (domain.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Identity{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	// The account is provisioned with a throwaway credential: sign-in always
	// happens through a one-time login link, never this password.
	hashed, err := placeholderCredential()
	if err != nil {
		return domain.Identity{}, err
	}

	now := time.Now().UTC()
	identity := domain.Identity{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		// The payment checkout collected and charged this email, which we
		// accept as proof of control.
		EmailConfirmed: true,
		Metadata:       datatypes.JSONMap(metadata),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if identity.Metadata == nil {
		identity.Metadata = datatypes.JSONMap{}
	}

	if err := s.repo.Insert(ctx, s.db, &identity); err != nil {
		// A concurrent workflow run for the same email may have won the
		// insert; re-resolve instead of failing.
		if db.IsDuplicateKeyErr(err) {
			existing, findErr := s.repo.FindByEmail(ctx, s.db, email)
			if findErr != nil {
				return domain.Identity{}, findErr
			}
			if existing != nil {
				return *existing, nil
			}
		}
		return domain.Identity{}, err
	}

	s.log.Info("identity created",
		zap.String("identity_id", identity.ID.String()),
		zap.String("email", email),
	)
	return identity, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (domain.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidEmail
	}

	identity, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Identity{}, err
	}
	if identity == nil {
		return domain.Identity{}, domain.ErrNotFound
	}
	return *identity, nil
}

func (s *Service) IssueLoginToken(ctx context.Context, email, redirectURL string) (string, error) {
	identity, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	raw, err := newLoginToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	token := domain.LoginToken{
		ID:          s.genID.Generate(),
		IdentityID:  identity.ID,
		TokenHash:   hashToken(raw),
		RedirectURL: strings.TrimSpace(redirectURL),
		ExpiresAt:   now.Add(s.tokenTTL),
		CreatedAt:   now,
	}
	if err := s.repo.InsertLoginToken(ctx, s.db, &token); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/api/auth/callback?token=%s", s.baseURL, url.QueryEscape(raw))
	return link, nil
}

func (s *Service) ConsumeLoginToken(ctx context.Context, rawToken string) (domain.Identity, string, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.Identity{}, "", domain.ErrInvalidToken
	}

	token, err := s.repo.FindLoginToken(ctx, s.db, hashToken(rawToken))
	if err != nil {
		return domain.Identity{}, "", err
	}
	if token == nil {
		return domain.Identity{}, "", domain.ErrInvalidToken
	}
	if token.ConsumedAt != nil {
		return domain.Identity{}, "", domain.ErrTokenConsumed
	}

	now := time.Now().UTC()
	if now.After(token.ExpiresAt) {
		return domain.Identity{}, "", domain.ErrTokenExpired
	}

	if err := s.repo.MarkTokenConsumed(ctx, s.db, token.ID, now); err != nil {
		return domain.Identity{}, "", err
	}

	identity, err := s.repo.FindByID(ctx, s.db, token.IdentityID)
	if err != nil {
		return domain.Identity{}, "", err
	}
	if identity == nil {
		return domain.Identity{}, "", domain.ErrInvalidToken
	}

	return *identity, token.RedirectURL, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newLoginToken() (string, error) {
	buf := make([]byte, loginTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func placeholderCredential() (string, error) {
	buf := make([]byte, placeholderCredBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	secret := base64.RawStdEncoding.EncodeToString(buf)

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, saltB64, hashB64), nil
}

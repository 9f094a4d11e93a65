package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/personacoreio/personacore/internal/fan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	suffixMin = 1000
	suffixMax = 9999

	maxAllocationAttempts = 8
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("fan.service"),
		repo: p.Repo,
	}
}

func (s *Service) AllocateUsername(ctx context.Context, email string) (string, error) {
	base := normalizeLocalPart(email)
	if base == "" {
		return "", domain.ErrInvalidEmail
	}

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s_%d", base, suffix)

		exists, err := s.repo.UsernameExists(ctx, s.db, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		s.log.Debug("username candidate taken",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt+1),
		)
	}

	return "", domain.ErrNameAllocation
}

func (s *Service) UpsertProfile(ctx context.Context, fan domain.Fan) error {
	if fan.ID == 0 || strings.TrimSpace(fan.Email) == "" || strings.TrimSpace(fan.Username) == "" {
		return domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	if fan.CreatedAt.IsZero() {
		fan.CreatedAt = now
	}
	fan.UpdatedAt = now
	return s.repo.Upsert(ctx, s.db, &fan)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.Fan, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Fan{}, domain.ErrInvalidEmail
	}

	fan, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Fan{}, err
	}
	if fan == nil {
		return domain.Fan{}, domain.ErrNotFound
	}
	return *fan, nil
}

// normalizeLocalPart lowercases the part of email before '@' and replaces
// every rune outside [a-z0-9_] with '_'.
func normalizeLocalPart(email string) string {
	local, _, found := strings.Cut(strings.TrimSpace(email), "@")
	if !found || local == "" {
		return ""
	}

	local = strings.ToLower(local)
	var b strings.Builder
	b.Grow(len(local))
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func randomSuffix() (int64, error) {
	span := big.NewInt(suffixMax - suffixMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return n.Int64() + suffixMin, nil
}

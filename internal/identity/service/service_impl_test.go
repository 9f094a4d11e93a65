package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/config"
	"github.com/personacoreio/personacore/internal/identity/domain"
	"github.com/personacoreio/personacore/internal/identity/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE identities (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE login_tokens (
			id INTEGER PRIMARY KEY,
			identity_id INTEGER NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			redirect_url TEXT,
			expires_at DATETIME NOT NULL,
			consumed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return New(Params{
		DB:    newTestDB(t),
		Log:   zap.NewNop(),
		GenID: node,
		Cfg: config.Config{
			BaseURL:             "https://personacore.test",
			MagicLinkTTLMinutes: 60,
		},
		Repo: repository.Provide(),
	}).(*Service)
}

func TestResolveCreatesIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	identity, err := svc.Resolve(ctx, "Fan@Example.COM", map[string]any{"provisioned_via": "stripe"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.ID == 0 {
		t.Fatal("expected identity id to be assigned")
	}
	if identity.Email != "fan@example.com" {
		t.Fatalf("expected normalized email, got %q", identity.Email)
	}
	if !identity.EmailConfirmed {
		t.Fatal("expected provisioned identity to be email confirmed")
	}
	if !strings.HasPrefix(identity.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id placeholder credential, got %q", identity.PasswordHash)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "fan@example.com", nil)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := svc.Resolve(ctx, "FAN@example.com", nil)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same identity, got %d and %d", first.ID, second.ID)
	}
}

func TestResolveRejectsInvalidEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Resolve(context.Background(), "not an email", nil); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestLoginTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	identity, err := svc.Resolve(ctx, "fan@example.com", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	link, err := svc.IssueLoginToken(ctx, "fan@example.com", "https://personacore.test/chat?creator=ava-sterling")
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse login link: %v", err)
	}
	if parsed.Path != "/api/auth/callback" {
		t.Fatalf("unexpected login link path %q", parsed.Path)
	}
	raw := parsed.Query().Get("token")
	if raw == "" {
		t.Fatal("login link is missing token parameter")
	}

	consumed, redirect, err := svc.ConsumeLoginToken(ctx, raw)
	if err != nil {
		t.Fatalf("ConsumeLoginToken: %v", err)
	}
	if consumed.ID != identity.ID {
		t.Fatalf("expected identity %d, got %d", identity.ID, consumed.ID)
	}
	if redirect != "https://personacore.test/chat?creator=ava-sterling" {
		t.Fatalf("unexpected redirect %q", redirect)
	}
}

func TestConsumeLoginTokenIsSingleUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "fan@example.com", nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	link, err := svc.IssueLoginToken(ctx, "fan@example.com", "/chat")
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}
	parsed, _ := url.Parse(link)
	raw := parsed.Query().Get("token")

	if _, _, err := svc.ConsumeLoginToken(ctx, raw); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, _, err := svc.ConsumeLoginToken(ctx, raw); !errors.Is(err, domain.ErrTokenConsumed) {
		t.Fatalf("expected ErrTokenConsumed on second use, got %v", err)
	}
}

func TestConsumeLoginTokenExpired(t *testing.T) {
	svc := newTestService(t)
	svc.tokenTTL = -time.Minute
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "fan@example.com", nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	link, err := svc.IssueLoginToken(ctx, "fan@example.com", "/chat")
	if err != nil {
		t.Fatalf("IssueLoginToken: %v", err)
	}
	parsed, _ := url.Parse(link)
	raw := parsed.Query().Get("token")

	if _, _, err := svc.ConsumeLoginToken(ctx, raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestConsumeLoginTokenUnknown(t *testing.T) {
	svc := newTestService(t)

	if _, _, err := svc.ConsumeLoginToken(context.Background(), "bogus-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, _, err := svc.ConsumeLoginToken(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for blank token, got %v", err)
	}
}

func TestIssueLoginTokenUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.IssueLoginToken(context.Background(), "nobody@example.com", "/chat"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/fan/domain"
	"github.com/personacoreio/personacore/internal/fan/repository"
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
		`CREATE TABLE fans (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	}).(*Service)
	return svc, db
}

func TestAllocateUsernamePattern(t *testing.T) {
	svc, _ := newTestService(t)

	username, err := svc.AllocateUsername(context.Background(), "a.b+1@example.com")
	if err != nil {
		t.Fatalf("AllocateUsername returned error: %v", err)
	}

	matched, err := regexp.MatchString(`^a_b_1_\d{4}$`, username)
	if err != nil {
		t.Fatalf("regexp: %v", err)
	}
	if !matched {
		t.Fatalf("username %q does not match expected pattern", username)
	}
}

func TestAllocateUsernameExhaustion(t *testing.T) {
	svc, db := newTestService(t)
	node, _ := snowflake.NewNode(1)

	// Occupy every candidate suffix so the bounded retry must give up.
	for suffix := 1000; suffix <= 9999; suffix++ {
		err := db.Exec(
			`INSERT INTO fans (id, email, username, name, status) VALUES (?, ?, ?, ?, ?)`,
			node.Generate(), "other@example.com", fmt.Sprintf("jo_%d", suffix), "jo", domain.StatusActive,
		).Error
		if err != nil {
			t.Fatalf("seed fan: %v", err)
		}
	}

	_, err := svc.AllocateUsername(context.Background(), "jo@example.com")
	if !errors.Is(err, domain.ErrNameAllocation) {
		t.Fatalf("expected ErrNameAllocation, got %v", err)
	}
}

func TestAllocateUsernameInvalidEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.AllocateUsername(context.Background(), "not-an-email"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUpsertProfileOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	node, _ := snowflake.NewNode(1)
	id := node.Generate()

	fan := domain.Fan{
		ID:        id,
		Email:     "fan@example.com",
		Username:  "fan_1234",
		Name:      "fan_1234",
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := svc.UpsertProfile(context.Background(), fan); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	fan.Name = "Fan Display"
	fan.UpdatedAt = time.Now().UTC()
	if err := svc.UpsertProfile(context.Background(), fan); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stored, err := svc.GetByEmail(context.Background(), "fan@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.ID != id {
		t.Fatalf("expected id %d, got %d", id, stored.ID)
	}
	if stored.Name != "Fan Display" {
		t.Fatalf("expected overwritten name, got %q", stored.Name)
	}
}

func TestGetByEmailNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNormalizeLocalPart(t *testing.T) {
	cases := map[string]string{
		"simple@example.com":    "simple",
		"A.B+1@example.com":     "a_b_1",
		"User-Name@example.com": "user_name",
		"already_ok@x.io":       "already_ok",
		"Ünïcode@x.io":          "_n_code",
	}
	for input, want := range cases {
		if got := normalizeLocalPart(input); got != want {
			t.Fatalf("normalizeLocalPart(%q) = %q, want %q", input, got, want)
		}
	}
}

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/identity/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, identity *domain.Identity) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO identities (id, email, password_hash, email_confirmed, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.EmailConfirmed,
		identity.Metadata,
		identity.CreatedAt,
		identity.UpdatedAt,
	).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Identity, error) {
	var identity domain.Identity
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, password_hash, email_confirmed, metadata, created_at, updated_at
		 FROM identities WHERE email = ?`,
		email,
	).Scan(&identity).Error
	if err != nil {
		return nil, err
	}
	if identity.ID == 0 {
		return nil, nil
	}
	return &identity, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Identity, error) {
	var identity domain.Identity
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, password_hash, email_confirmed, metadata, created_at, updated_at
		 FROM identities WHERE id = ?`,
		id,
	).Scan(&identity).Error
	if err != nil {
		return nil, err
	}
	if identity.ID == 0 {
		return nil, nil
	}
	return &identity, nil
}

func (r *repo) InsertLoginToken(ctx context.Context, db *gorm.DB, token *domain.LoginToken) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO login_tokens (id, identity_id, token_hash, redirect_url, expires_at, consumed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token.ID,
		token.IdentityID,
		token.TokenHash,
		token.RedirectURL,
		token.ExpiresAt,
		token.ConsumedAt,
		token.CreatedAt,
	).Error
}

func (r *repo) FindLoginToken(ctx context.Context, db *gorm.DB, tokenHash string) (*domain.LoginToken, error) {
	var token domain.LoginToken
	err := db.WithContext(ctx).Raw(
		`SELECT id, identity_id, token_hash, redirect_url, expires_at, consumed_at, created_at
		 FROM login_tokens WHERE token_hash = ?`,
		tokenHash,
	).Scan(&token).Error
	if err != nil {
		return nil, err
	}
	if token.ID == 0 {
		return nil, nil
	}
	return &token, nil
}

func (r *repo) MarkTokenConsumed(ctx context.Context, db *gorm.DB, id snowflake.ID, consumedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE login_tokens SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`,
		consumedAt,
		id,
	).Error
}

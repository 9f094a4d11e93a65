package repository

import (
	"context"

	"github.com/personacoreio/personacore/internal/fan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, fan *domain.Fan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO fans (id, email, username, name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			username = excluded.username,
			name = excluded.name,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		fan.ID,
		fan.Email,
		fan.Username,
		fan.Name,
		fan.Status,
		fan.CreatedAt,
		fan.UpdatedAt,
	).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Fan, error) {
	var fan domain.Fan
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, username, name, status, created_at, updated_at
		 FROM fans WHERE email = ?`,
		email,
	).Scan(&fan).Error
	if err != nil {
		return nil, err
	}
	if fan.ID == 0 {
		return nil, nil
	}
	return &fan, nil
}

func (r *repo) UsernameExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM fans WHERE username = ?`,
		username,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

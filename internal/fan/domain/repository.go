package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, fan *Fan) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Fan, error)
	UsernameExists(ctx context.Context, db *gorm.DB, username string) (bool, error)
}

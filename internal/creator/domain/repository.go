package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Creator, error)
	List(ctx context.Context, db *gorm.DB, status string) ([]*Creator, error)
	Insert(ctx context.Context, db *gorm.DB, creator *Creator) error
}

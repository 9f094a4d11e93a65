package repository

import (
	"context"

	"github.com/personacoreio/personacore/internal/creator/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Creator, error) {
	var creator domain.Creator
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, status, metadata, created_at, updated_at
		 FROM creators WHERE slug = ?`,
		slug,
	).Scan(&creator).Error
	if err != nil {
		return nil, err
	}
	if creator.ID == 0 {
		return nil, nil
	}
	return &creator, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status string) ([]*domain.Creator, error) {
	var creators []*domain.Creator
	stmt := db.WithContext(ctx).Model(&domain.Creator{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	err := stmt.Order("name asc").Find(&creators).Error
	if err != nil {
		return nil, err
	}
	return creators, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, creator *domain.Creator) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO creators (id, name, slug, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		creator.ID,
		creator.Name,
		creator.Slug,
		creator.Status,
		creator.Metadata,
		creator.CreatedAt,
		creator.UpdatedAt,
	).Error
}

package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetBySlug(ctx context.Context, slug string) (Creator, error)
	ListActive(ctx context.Context) ([]Creator, error)
	Summarize(ctx context.Context, slug string) (Summary, error)
}

var (
	ErrInvalidSlug = errors.New("invalid_slug")
	ErrNotFound    = errors.New("creator_not_found")
)

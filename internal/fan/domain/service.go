package domain

import (
	"context"
	"errors"
)

type Service interface {
	// AllocateUsername derives a unique handle from email: the lowercased
	// local part with non [a-z0-9_] runes replaced by '_', plus a random
	// 4-digit suffix. Uniqueness is re-checked per candidate.
	AllocateUsername(ctx context.Context, email string) (string, error)

	// UpsertProfile writes the fan row, overwriting profile fields when a row
	// for the same ID exists.
	UpsertProfile(ctx context.Context, fan Fan) error

	GetByEmail(ctx context.Context, email string) (Fan, error)
}

var (
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrNotFound          = errors.New("fan_not_found")
	ErrNameAllocation    = errors.New("name_allocation_exhausted")
	ErrUsernameCollision = errors.New("username_collision")
)

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert writes the subscription. Returns ErrAlreadyExists when a row
	// with the same provider subscription reference is already present.
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByProviderRef(ctx context.Context, db *gorm.DB, providerSubscriptionID string) (*Subscription, error)
	CountActiveByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, error)
	GrossRevenueByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, string, error)
}

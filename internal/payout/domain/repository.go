package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payout *Payout) error
	PendingTotalByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, error)
}

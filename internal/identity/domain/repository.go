package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, identity *Identity) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Identity, error)
	InsertLoginToken(ctx context.Context, db *gorm.DB, token *LoginToken) error
	FindLoginToken(ctx context.Context, db *gorm.DB, tokenHash string) (*LoginToken, error)
	MarkTokenConsumed(ctx context.Context, db *gorm.DB, id snowflake.ID, consumedAt time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Identity, error)
}

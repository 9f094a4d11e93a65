package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, conversation *Conversation) error
	FindByFanAndCreator(ctx context.Context, db *gorm.DB, fanID, creatorID snowflake.ID) (*Conversation, error)
}

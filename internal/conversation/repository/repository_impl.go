package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/conversation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, conversation *domain.Conversation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO conversations (id, fan_id, creator_id, subscription_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conversation.ID,
		conversation.FanID,
		conversation.CreatorID,
		conversation.SubscriptionID,
		conversation.Status,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	).Error
}

func (r *repo) FindByFanAndCreator(ctx context.Context, db *gorm.DB, fanID, creatorID snowflake.ID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := db.WithContext(ctx).Raw(
		`SELECT id, fan_id, creator_id, subscription_id, status, created_at, updated_at
		 FROM conversations WHERE fan_id = ? AND creator_id = ?`,
		fanID,
		creatorID,
	).Scan(&conversation).Error
	if err != nil {
		return nil, err
	}
	if conversation.ID == 0 {
		return nil, nil
	}
	return &conversation, nil
}

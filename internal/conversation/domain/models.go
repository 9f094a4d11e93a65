package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const StatusActive = "active"

// Conversation is the chat thread opened between a fan and a creator when a
// subscription is provisioned. SubscriptionID stays nil when the subscription
// step was skipped as a duplicate.
type Conversation struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	FanID          snowflake.ID  `gorm:"column:fan_id;not null;index" json:"fan_id"`
	CreatorID      snowflake.ID  `gorm:"column:creator_id;not null;index" json:"creator_id"`
	SubscriptionID *snowflake.ID `gorm:"column:subscription_id" json:"subscription_id,omitempty"`
	Status         string        `gorm:"type:text;not null" json:"status"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

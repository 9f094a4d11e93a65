package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const StatusActive = "active"

// Subscription links one fan to one creator. ProviderSubscriptionID is the
// payment processor's subscription reference and acts as the natural key that
// keeps duplicate webhook deliveries from inserting a second row.
type Subscription struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id"`
	FanID                  snowflake.ID `gorm:"column:fan_id;not null;index" json:"fan_id"`
	CreatorID              snowflake.ID `gorm:"column:creator_id;not null;index" json:"creator_id"`
	ProviderSubscriptionID string       `gorm:"column:provider_subscription_id;type:text;not null;uniqueIndex" json:"provider_subscription_id"`
	ProviderCustomerID     string       `gorm:"column:provider_customer_id;type:text" json:"provider_customer_id"`
	Amount                 int64        `gorm:"not null" json:"amount"`
	Currency               string       `gorm:"type:text;not null" json:"currency"`
	Status                 string       `gorm:"type:text;not null" json:"status"`
	CurrentPeriodStart     time.Time    `gorm:"column:current_period_start;not null" json:"current_period_start"`
	CurrentPeriodEnd       time.Time    `gorm:"column:current_period_end;not null" json:"current_period_end"`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

var (
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrAlreadyExists       = errors.New("subscription_already_exists")
)

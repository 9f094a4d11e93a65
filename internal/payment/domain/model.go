package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventRecord is the webhook event ledger row. The unique (provider,
// provider_event_id) index is what makes at-least-once delivery safe.
type EventRecord struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	Provider        string         `gorm:"type:text;not null" json:"provider"`
	ProviderEventID string         `gorm:"type:text;not null" json:"provider_event_id"`
	EventType       string         `gorm:"type:text;not null" json:"event_type"`
	Payload         datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	ReceivedAt      time.Time      `gorm:"not null" json:"received_at"`
	ProcessedAt     *time.Time     `gorm:"" json:"processed_at"`
}

func (EventRecord) TableName() string { return "webhook_events" }

const EventTypeCheckoutCompleted = "checkout_completed"

// CheckoutEvent is the canonical completed-checkout event parsed by adapters.
type CheckoutEvent struct {
	Provider         string
	ProviderEventID  string
	Type             string
	Email            string
	CreatorSlug      string
	SubscriptionRef  string
	CustomerRef      string
	PaymentIntentRef string
	AmountTotal      int64
	Currency         string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	OccurredAt       time.Time
	RawPayload       []byte
}

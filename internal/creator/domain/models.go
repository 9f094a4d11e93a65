package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusActive  = "active"
	StatusPending = "pending"
)

// Creator is a publishable creator profile. Creators are provisioned out of
// band; the provisioning workflow only reads them.
type Creator struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Status    string            `gorm:"type:text;not null" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Creator) TableName() string { return "creators" }

// Summary is the dashboard projection for one creator.
type Summary struct {
	CreatorID     snowflake.ID `json:"creator_id"`
	Subscribers   int64        `json:"subscribers"`
	GrossRevenue  int64        `json:"gross_revenue"`
	PendingPayout int64        `json:"pending_payout"`
	Currency      string       `json:"currency"`
}

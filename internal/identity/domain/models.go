// Package domain contains core types for the identity service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Identity is an authenticatable account keyed by a unique email. Accounts
// provisioned by the payment workflow carry a random placeholder credential;
// sign-in happens through one-time login links only.
type Identity struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	Email          string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string            `gorm:"type:text;not null"`
	EmailConfirmed bool              `gorm:"column:email_confirmed;not null"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Identity) TableName() string { return "identities" }

// LoginToken is a single-use sign-in credential. Only the sha256 of the raw
// token is stored.
type LoginToken struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	IdentityID  snowflake.ID `gorm:"column:identity_id;not null;index"`
	TokenHash   string       `gorm:"column:token_hash;type:text;not null;uniqueIndex"`
	RedirectURL string       `gorm:"column:redirect_url;type:text"`
	ExpiresAt   time.Time    `gorm:"column:expires_at;not null;index"`
	ConsumedAt  *time.Time   `gorm:"column:consumed_at"`
	CreatedAt   time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (LoginToken) TableName() string { return "login_tokens" }

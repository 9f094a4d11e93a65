package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const StatusActive = "active"

// Fan is the subscriber profile row. Its ID is the backing identity's ID, so
// repeated upserts for the same identity are safe.
type Fan struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"type:text;not null;index" json:"email"`
	Username  string       `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Fan) TableName() string { return "fans" }

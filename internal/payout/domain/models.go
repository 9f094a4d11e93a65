package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Payout records the creator's share of one gross subscription payment along
// with the platform commission retained.
type Payout struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	CreatorID          snowflake.ID `gorm:"column:creator_id;not null;index" json:"creator_id"`
	PayoutAmount       int64        `gorm:"column:payout_amount;not null" json:"payout_amount"`
	CommissionAmount   int64        `gorm:"column:commission_amount;not null" json:"commission_amount"`
	TotalRevenue       int64        `gorm:"column:total_revenue;not null" json:"total_revenue"`
	ProviderPaymentRef string       `gorm:"column:provider_payment_ref;type:text" json:"provider_payment_ref"`
	Currency           string       `gorm:"type:text;not null" json:"currency"`
	Status             string       `gorm:"type:text;not null" json:"status"`
	PeriodStart        time.Time    `gorm:"column:period_start;not null" json:"period_start"`
	PeriodEnd          time.Time    `gorm:"column:period_end;not null" json:"period_end"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payout) TableName() string { return "creator_payouts" }

// Split divides a gross amount in minor units between payout and commission.
// The commission is the remainder so the two always sum to gross exactly.
func Split(gross int64, creatorShare float64) (payout, commission int64) {
	payout = int64(float64(gross) * creatorShare)
	if payout < 0 {
		payout = 0
	}
	if payout > gross {
		payout = gross
	}
	commission = gross - payout
	return payout, commission
}

package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/payout/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payout *domain.Payout) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO creator_payouts (id, creator_id, payout_amount, commission_amount, total_revenue,
			provider_payment_ref, currency, status, period_start, period_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payout.ID,
		payout.CreatorID,
		payout.PayoutAmount,
		payout.CommissionAmount,
		payout.TotalRevenue,
		payout.ProviderPaymentRef,
		payout.Currency,
		payout.Status,
		payout.PeriodStart,
		payout.PeriodEnd,
		payout.CreatedAt,
	).Error
}

func (r *repo) PendingTotalByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(payout_amount), 0) FROM creator_payouts WHERE creator_id = ? AND status = ?`,
		creatorID,
		domain.StatusPending,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

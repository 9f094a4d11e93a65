package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/subscription/domain"
	"github.com/personacoreio/personacore/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, subscription *domain.Subscription) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, fan_id, creator_id, provider_subscription_id, provider_customer_id,
			amount, currency, status, current_period_start, current_period_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.FanID,
		subscription.CreatorID,
		subscription.ProviderSubscriptionID,
		subscription.ProviderCustomerID,
		subscription.Amount,
		subscription.Currency,
		subscription.Status,
		subscription.CurrentPeriodStart,
		subscription.CurrentPeriodEnd,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Error
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repo) FindByProviderRef(ctx context.Context, conn *gorm.DB, providerSubscriptionID string) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := conn.WithContext(ctx).Raw(
		`SELECT id, fan_id, creator_id, provider_subscription_id, provider_customer_id,
			amount, currency, status, current_period_start, current_period_end, created_at, updated_at
		 FROM subscriptions WHERE provider_subscription_id = ?`,
		providerSubscriptionID,
	).Scan(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) CountActiveByCreator(ctx context.Context, conn *gorm.DB, creatorID snowflake.ID) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM subscriptions WHERE creator_id = ? AND status = ?`,
		creatorID,
		domain.StatusActive,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) GrossRevenueByCreator(ctx context.Context, conn *gorm.DB, creatorID snowflake.ID) (int64, string, error) {
	var row struct {
		Total    int64
		Currency string
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) AS total, COALESCE(MAX(currency), '') AS currency
		 FROM subscriptions WHERE creator_id = ?`,
		creatorID,
	).Scan(&row).Error
	if err != nil {
		return 0, "", err
	}
	return row.Total, row.Currency, nil
}

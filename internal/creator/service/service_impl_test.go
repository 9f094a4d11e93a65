package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/creator/domain"
	"github.com/personacoreio/personacore/internal/creator/repository"
	payoutrepository "github.com/personacoreio/personacore/internal/payout/repository"
	subscriptionrepository "github.com/personacoreio/personacore/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE creators (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE subscriptions (
			id INTEGER PRIMARY KEY,
			fan_id INTEGER NOT NULL,
			creator_id INTEGER NOT NULL,
			provider_subscription_id TEXT NOT NULL UNIQUE,
			provider_customer_id TEXT,
			amount INTEGER NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			current_period_start DATETIME NOT NULL,
			current_period_end DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE creator_payouts (
			id INTEGER PRIMARY KEY,
			creator_id INTEGER NOT NULL,
			payout_amount INTEGER NOT NULL,
			commission_amount INTEGER NOT NULL,
			total_revenue INTEGER NOT NULL,
			provider_payment_ref TEXT,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			period_start DATETIME NOT NULL,
			period_end DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:               db,
		Log:              zap.NewNop(),
		Repo:             repository.Provide(),
		SubscriptionRepo: subscriptionrepository.Provide(),
		PayoutRepo:       payoutrepository.Provide(),
	})
	return svc, db, node
}

func seedCreator(t *testing.T, db *gorm.DB, node *snowflake.Node, name, creatorSlug, status string) snowflake.ID {
	t.Helper()
	id := node.Generate()
	require.NoError(t, db.Exec(
		`INSERT INTO creators (id, name, slug, status, metadata) VALUES (?, ?, ?, ?, '{}')`,
		id, name, creatorSlug, status,
	).Error)
	return id
}

func TestGetBySlug(t *testing.T) {
	svc, db, node := newTestService(t)
	seedCreator(t, db, node, "Ava Sterling", "ava-sterling", domain.StatusActive)

	creator, err := svc.GetBySlug(context.Background(), "AVA-Sterling")
	require.NoError(t, err)
	assert.Equal(t, "Ava Sterling", creator.Name)
	assert.Equal(t, "ava-sterling", creator.Slug)
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetBySlug(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetBySlugRejectsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetBySlug(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)
}

func TestListActiveFiltersStatus(t *testing.T) {
	svc, db, node := newTestService(t)
	seedCreator(t, db, node, "Ava Sterling", "ava-sterling", domain.StatusActive)
	seedCreator(t, db, node, "Luna Hart", "luna-hart", domain.StatusPending)

	creators, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, "ava-sterling", creators[0].Slug)
}

func TestSummarize(t *testing.T) {
	svc, db, node := newTestService(t)
	creatorID := seedCreator(t, db, node, "Ava Sterling", "ava-sterling", domain.StatusActive)

	now := time.Now().UTC()
	later := now.Add(30 * 24 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Exec(
			`INSERT INTO subscriptions (id, fan_id, creator_id, provider_subscription_id, amount, currency, status, current_period_start, current_period_end)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			node.Generate(), node.Generate(), creatorID, fmt.Sprintf("sub_%d", i), 500, "GBP", "active", now, later,
		).Error)
	}
	require.NoError(t, db.Exec(
		`INSERT INTO creator_payouts (id, creator_id, payout_amount, commission_amount, total_revenue, currency, status, period_start, period_end)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), creatorID, 350, 150, 500, "GBP", "pending", now, later,
	).Error)

	summary, err := svc.Summarize(context.Background(), "ava-sterling")
	require.NoError(t, err)
	assert.Equal(t, creatorID, summary.CreatorID)
	assert.Equal(t, int64(3), summary.Subscribers)
	assert.Equal(t, int64(1500), summary.GrossRevenue)
	assert.Equal(t, int64(350), summary.PendingPayout)
	assert.Equal(t, "GBP", summary.Currency)
}

package service

import (
	"context"
	"strings"

	"github.com/personacoreio/personacore/internal/creator/domain"
	payoutdomain "github.com/personacoreio/personacore/internal/payout/domain"
	subscriptiondomain "github.com/personacoreio/personacore/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	Repo             domain.Repository
	SubscriptionRepo subscriptiondomain.Repository
	PayoutRepo       payoutdomain.Repository
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	repo             domain.Repository
	subscriptionRepo subscriptiondomain.Repository
	payoutRepo       payoutdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("creator.service"),
		repo:             p.Repo,
		subscriptionRepo: p.SubscriptionRepo,
		payoutRepo:       p.PayoutRepo,
	}
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Creator, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Creator{}, domain.ErrInvalidSlug
	}

	creator, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return domain.Creator{}, err
	}
	if creator == nil {
		return domain.Creator{}, domain.ErrNotFound
	}
	return *creator, nil
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Creator, error) {
	items, err := s.repo.List(ctx, s.db, domain.StatusActive)
	if err != nil {
		return nil, err
	}

	creators := make([]domain.Creator, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		creators = append(creators, *item)
	}
	return creators, nil
}

func (s *Service) Summarize(ctx context.Context, slug string) (domain.Summary, error) {
	creator, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Summary{}, err
	}

	subscribers, err := s.subscriptionRepo.CountActiveByCreator(ctx, s.db, creator.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	gross, currency, err := s.subscriptionRepo.GrossRevenueByCreator(ctx, s.db, creator.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	pending, err := s.payoutRepo.PendingTotalByCreator(ctx, s.db, creator.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summary{
		CreatorID:     creator.ID,
		Subscribers:   subscribers,
		GrossRevenue:  gross,
		PendingPayout: pending,
		Currency:      currency,
	}, nil
}

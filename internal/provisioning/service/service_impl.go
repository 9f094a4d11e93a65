// Package service runs the post-checkout provisioning workflow: webhook in,
// chat-ready subscriber out.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/personacoreio/personacore/internal/config"
	conversationdomain "github.com/personacoreio/personacore/internal/conversation/domain"
	creatordomain "github.com/personacoreio/personacore/internal/creator/domain"
	fandomain "github.com/personacoreio/personacore/internal/fan/domain"
	identitydomain "github.com/personacoreio/personacore/internal/identity/domain"
	"github.com/personacoreio/personacore/internal/notifier"
	"github.com/personacoreio/personacore/internal/payment/adapters"
	paymentdomain "github.com/personacoreio/personacore/internal/payment/domain"
	payoutdomain "github.com/personacoreio/personacore/internal/payout/domain"
	"github.com/personacoreio/personacore/internal/provisioning/domain"
	subscriptiondomain "github.com/personacoreio/personacore/internal/subscription/domain"
	"github.com/personacoreio/personacore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultPeriod pads missing billing period boundaries from the event's
// occurrence time.
const defaultPeriod = 30 * 24 * time.Hour

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Cfg         config.Config
	Revenue     *config.RevenueConfigHolder
	Registry    *adapters.Registry
	Metrics     *Metrics
	EventRepo   paymentdomain.Repository
	CreatorSvc  creatordomain.Service
	IdentitySvc identitydomain.Service
	FanSvc      fandomain.Service
	SubRepo     subscriptiondomain.Repository
	ConvoRepo   conversationdomain.Repository
	PayoutRepo  payoutdomain.Repository
	Notifier    *notifier.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	cfg         config.Config
	revenue     *config.RevenueConfigHolder
	registry    *adapters.Registry
	metrics     *Metrics
	eventRepo   paymentdomain.Repository
	creatorSvc  creatordomain.Service
	identitySvc identitydomain.Service
	fanSvc      fandomain.Service
	subRepo     subscriptiondomain.Repository
	convoRepo   conversationdomain.Repository
	payoutRepo  payoutdomain.Repository
	notifier    *notifier.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("provisioning.service"),
		genID:       p.GenID,
		cfg:         p.Cfg,
		revenue:     p.Revenue,
		registry:    p.Registry,
		metrics:     p.Metrics,
		eventRepo:   p.EventRepo,
		creatorSvc:  p.CreatorSvc,
		identitySvc: p.IdentitySvc,
		fanSvc:      p.FanSvc,
		subRepo:     p.SubRepo,
		convoRepo:   p.ConvoRepo,
		payoutRepo:  p.PayoutRepo,
		notifier:    p.Notifier,
	}
}

func (s *Service) IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) (domain.Result, error) {
	result := domain.Result{RunID: uuid.NewString(), State: domain.StateReceived}

	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || !s.registry.ProviderExists(provider) {
		s.metrics.Run("provider_not_found")
		return result, paymentdomain.ErrProviderNotFound
	}

	adapter, err := s.registry.NewAdapter(provider, s.adapterConfig(provider))
	if err != nil {
		s.metrics.Run("adapter_config_error")
		return result, err
	}

	if err := adapter.Verify(ctx, payload, headers); err != nil {
		s.metrics.Step("verify", "failed")
		s.metrics.Run("rejected")
		return result, err
	}
	s.metrics.Step("verify", "ok")

	event, err := adapter.Parse(ctx, payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			s.metrics.Run("ignored")
			s.log.Info("webhook event ignored",
				zap.String("run_id", result.RunID),
				zap.String("provider", provider),
			)
			result.State = domain.StateAcknowledged
			return result, nil
		}
		s.metrics.Step("parse", "failed")
		s.metrics.Run("rejected")
		return result, err
	}
	s.metrics.Step("parse", "ok")

	return s.handleEvent(ctx, result, event)
}

// handleEvent walks the provisioning steps in order. The subscription write
// is the point of no return: every later step only logs on failure.
func (s *Service) handleEvent(ctx context.Context, result domain.Result, event *paymentdomain.CheckoutEvent) (domain.Result, error) {
	log := s.log.With(
		zap.String("run_id", result.RunID),
		zap.String("provider", event.Provider),
		zap.String("provider_event_id", event.ProviderEventID),
		zap.String("creator_slug", event.CreatorSlug),
	)

	record, fresh, err := s.recordEvent(ctx, event)
	if err != nil {
		s.metrics.Run("ledger_error")
		return result, err
	}
	if !fresh && record.ProcessedAt != nil {
		s.metrics.Run("duplicate_event")
		log.Info("duplicate webhook delivery, already processed")
		result.State = domain.StateAcknowledged
		result.Duplicate = true
		return result, nil
	}
	result.State = domain.StateValidated

	creator, err := s.creatorSvc.GetBySlug(ctx, event.CreatorSlug)
	if err != nil {
		s.metrics.Step("creator_lookup", "failed")
		s.metrics.Run("failed")
		log.Error("creator lookup failed", zap.Error(err))
		if errors.Is(err, creatordomain.ErrNotFound) || errors.Is(err, creatordomain.ErrInvalidSlug) {
			return result, fmt.Errorf("%w: %s", domain.ErrCreatorNotFound, event.CreatorSlug)
		}
		return result, fmt.Errorf("%w: %v", domain.ErrCreatorNotFound, err)
	}
	s.metrics.Step("creator_lookup", "ok")
	result.CreatorID = creator.ID

	identity, err := s.identitySvc.Resolve(ctx, event.Email, map[string]any{
		"provisioned_via": event.Provider,
		"creator_slug":    event.CreatorSlug,
	})
	if err != nil {
		s.metrics.Step("identity_resolve", "failed")
		s.metrics.Run("failed")
		log.Error("identity resolve failed", zap.Error(err))
		return result, fmt.Errorf("%w: %v", domain.ErrIdentityProvisioning, err)
	}
	s.metrics.Step("identity_resolve", "ok")
	result.State = domain.StateIdentityReady
	result.FanID = identity.ID

	username, err := s.writeProfile(ctx, log, identity, event)
	if err != nil {
		s.metrics.Step("profile_write", "failed")
		s.metrics.Run("failed")
		return result, err
	}
	s.metrics.Step("profile_write", "ok")
	result.State = domain.StateProfileWritten
	result.Username = username

	subscription, created, err := s.writeSubscription(ctx, log, identity.ID, creator.ID, event)
	if err != nil {
		s.metrics.Step("subscription_write", "failed")
		s.metrics.Run("failed")
		return result, err
	}
	s.metrics.Step("subscription_write", "ok")
	result.State = domain.StateSubscriptionWritten
	result.SubscriptionID = subscription.ID

	// Point of no return. The fan is subscribed; the rest is garnish. A
	// subscription that was already on file keeps its payout and welcome
	// email from the first run.
	s.openConversation(ctx, log, identity.ID, creator.ID, subscription.ID)
	if created {
		s.recordPayout(ctx, log, creator.ID, subscription, event)
		s.sendWelcome(ctx, log, event.Email, username, creator)
	}

	if err := s.eventRepo.MarkProcessed(ctx, s.db, record.ID, time.Now().UTC()); err != nil {
		log.Warn("failed to mark event processed", zap.Error(err))
	}

	s.metrics.Run("provisioned")
	log.Info("fan provisioned",
		zap.String("username", username),
		zap.Int64("fan_id", identity.ID.Int64()),
		zap.Int64("subscription_id", subscription.ID.Int64()),
	)
	result.State = domain.StateAcknowledged
	return result, nil
}

// recordEvent writes the ledger row for event, returning the stored record
// and whether this delivery is the first one seen.
func (s *Service) recordEvent(ctx context.Context, event *paymentdomain.CheckoutEvent) (*paymentdomain.EventRecord, bool, error) {
	record := &paymentdomain.EventRecord{
		ID:              s.genID.Generate(),
		Provider:        event.Provider,
		ProviderEventID: event.ProviderEventID,
		EventType:       paymentdomain.EventTypeCheckoutCompleted,
		Payload:         event.RawPayload,
		ReceivedAt:      time.Now().UTC(),
	}
	inserted, err := s.eventRepo.InsertEvent(ctx, s.db, record)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		return record, true, nil
	}

	existing, err := s.eventRepo.FindEvent(ctx, s.db, event.Provider, event.ProviderEventID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, paymentdomain.ErrInvalidEvent
	}
	return existing, false, nil
}

// writeProfile allocates a username and upserts the fan row. A fan who
// already has a profile keeps their username. A unique-index collision on a
// freshly allocated name gets one retry with a new allocation.
func (s *Service) writeProfile(ctx context.Context, log *zap.Logger, identity identitydomain.Identity, event *paymentdomain.CheckoutEvent) (string, error) {
	if existing, err := s.fanSvc.GetByEmail(ctx, identity.Email); err == nil {
		fan := existing
		fan.Status = fandomain.StatusActive
		if err := s.fanSvc.UpsertProfile(ctx, fan); err != nil {
			log.Error("fan profile refresh failed", zap.Error(err))
			return "", fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
		}
		return existing.Username, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		username, err := s.fanSvc.AllocateUsername(ctx, identity.Email)
		if err != nil {
			log.Error("username allocation failed", zap.Error(err))
			return "", fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
		}

		err = s.fanSvc.UpsertProfile(ctx, fandomain.Fan{
			ID:       identity.ID,
			Email:    identity.Email,
			Username: username,
			Name:     username,
			Status:   fandomain.StatusActive,
		})
		if err == nil {
			return username, nil
		}
		if db.IsDuplicateKeyErr(err) && attempt == 0 {
			log.Warn("username raced by concurrent writer, retrying",
				zap.String("username", username),
			)
			continue
		}
		log.Error("fan profile write failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
	}
	return "", fmt.Errorf("%w: %v", domain.ErrProfileWrite, fandomain.ErrUsernameCollision)
}

func (s *Service) writeSubscription(ctx context.Context, log *zap.Logger, fanID, creatorID snowflake.ID, event *paymentdomain.CheckoutEvent) (*subscriptiondomain.Subscription, bool, error) {
	amount := event.AmountTotal
	currency := strings.ToUpper(event.Currency)
	if amount <= 0 {
		amount = s.cfg.DefaultPlanAmount
	}
	if currency == "" {
		currency = s.cfg.DefaultPlanCurrency
	}

	periodStart, periodEnd := billingPeriod(event)

	// One-time checkouts have no subscription ref; fall back so the natural
	// key still dedupes per payment.
	providerRef := event.SubscriptionRef
	if providerRef == "" {
		providerRef = event.PaymentIntentRef
	}
	if providerRef == "" {
		providerRef = event.ProviderEventID
	}

	subscription := &subscriptiondomain.Subscription{
		ID:                     s.genID.Generate(),
		FanID:                  fanID,
		CreatorID:              creatorID,
		ProviderSubscriptionID: providerRef,
		ProviderCustomerID:     event.CustomerRef,
		Amount:                 amount,
		Currency:               currency,
		Status:                 subscriptiondomain.StatusActive,
		CurrentPeriodStart:     periodStart,
		CurrentPeriodEnd:       periodEnd,
	}

	err := s.subRepo.Insert(ctx, s.db, subscription)
	if err == nil {
		return subscription, true, nil
	}
	if errors.Is(err, subscriptiondomain.ErrAlreadyExists) {
		log.Info("subscription already recorded",
			zap.String("provider_subscription_id", providerRef),
		)
		existing, findErr := s.subRepo.FindByProviderRef(ctx, s.db, providerRef)
		if findErr != nil || existing == nil {
			return nil, false, fmt.Errorf("%w: %v", domain.ErrSubscriptionWrite, err)
		}
		return existing, false, nil
	}
	log.Error("subscription write failed", zap.Error(err))
	return nil, false, fmt.Errorf("%w: %v", domain.ErrSubscriptionWrite, err)
}

func (s *Service) openConversation(ctx context.Context, log *zap.Logger, fanID, creatorID, subscriptionID snowflake.ID) {
	existing, err := s.convoRepo.FindByFanAndCreator(ctx, s.db, fanID, creatorID)
	if err != nil {
		s.metrics.Step("conversation", "failed")
		log.Warn("conversation lookup failed", zap.Error(err))
		return
	}
	if existing != nil {
		s.metrics.Step("conversation", "skipped")
		return
	}

	err = s.convoRepo.Insert(ctx, s.db, &conversationdomain.Conversation{
		ID:             s.genID.Generate(),
		FanID:          fanID,
		CreatorID:      creatorID,
		SubscriptionID: &subscriptionID,
		Status:         conversationdomain.StatusActive,
	})
	if err != nil {
		s.metrics.Step("conversation", "failed")
		log.Warn("conversation create failed", zap.Error(err))
		return
	}
	s.metrics.Step("conversation", "ok")
}

func (s *Service) recordPayout(ctx context.Context, log *zap.Logger, creatorID snowflake.ID, subscription *subscriptiondomain.Subscription, event *paymentdomain.CheckoutEvent) {
	share := s.revenue.Get().CreatorShare
	payoutAmount, commission := payoutdomain.Split(subscription.Amount, share)

	err := s.payoutRepo.Insert(ctx, s.db, &payoutdomain.Payout{
		ID:                 s.genID.Generate(),
		CreatorID:          creatorID,
		PayoutAmount:       payoutAmount,
		CommissionAmount:   commission,
		TotalRevenue:       subscription.Amount,
		ProviderPaymentRef: event.PaymentIntentRef,
		Currency:           subscription.Currency,
		Status:             payoutdomain.StatusPending,
		PeriodStart:        subscription.CurrentPeriodStart,
		PeriodEnd:          subscription.CurrentPeriodEnd,
	})
	if err != nil {
		s.metrics.Step("payout", "failed")
		log.Warn("payout record failed", zap.Error(err))
		return
	}
	s.metrics.Step("payout", "ok")
	log.Info("payout recorded",
		zap.Int64("payout_amount", payoutAmount),
		zap.Int64("commission_amount", commission),
		zap.Float64("creator_share", share),
	)
}

func (s *Service) sendWelcome(ctx context.Context, log *zap.Logger, fanEmail, username string, creator creatordomain.Creator) {
	err := s.notifier.SendWelcome(ctx, fanEmail, username, creator.Name, creator.Slug)
	if err != nil {
		s.metrics.Step("welcome_email", "failed")
		log.Warn("welcome email failed", zap.Error(err))
		return
	}
	s.metrics.Step("welcome_email", "ok")
}

func (s *Service) adapterConfig(provider string) paymentdomain.AdapterConfig {
	cfg := paymentdomain.AdapterConfig{
		Provider:   provider,
		SkipVerify: s.cfg.WebhookSkipVerify,
	}
	if provider == "stripe" {
		cfg.WebhookSecret = s.cfg.StripeWebhookSecret
	}
	return cfg
}

func billingPeriod(event *paymentdomain.CheckoutEvent) (time.Time, time.Time) {
	start, end := event.PeriodStart, event.PeriodEnd
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	if start.IsZero() {
		start = occurred
	}
	if end.IsZero() || !end.After(start) {
		end = start.Add(defaultPeriod)
	}
	return start, end
}

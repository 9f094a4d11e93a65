package domain

import (
	"context"
	"errors"
	"net/http"
)

// PaymentAdapter authenticates and parses one provider's webhook payloads.
type PaymentAdapter interface {
	// Verify authenticates that payload genuinely originates from the
	// provider. It has no side effects.
	Verify(ctx context.Context, payload []byte, headers http.Header) error

	// Parse converts payload into a CheckoutEvent. Event kinds the platform
	// does not act on return ErrEventIgnored.
	Parse(ctx context.Context, payload []byte) (*CheckoutEvent, error)
}

// AdapterFactory builds adapters for a named provider.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (PaymentAdapter, error)
}

type AdapterConfig struct {
	Provider      string
	WebhookSecret string
	// SkipVerify disables signature verification for local testing. It must
	// never be enabled in production; config.Load enforces that.
	SkipVerify bool
}

var (
	ErrInvalidProvider       = errors.New("invalid_provider")
	ErrProviderNotFound      = errors.New("provider_not_found")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrInvalidConfig         = errors.New("invalid_config")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
)

package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	paymentdomain "github.com/personacoreio/personacore/internal/payment/domain"
)

const testSecret = "whsec_test_secret"

func buildStripeSignatureHeader(secret string, payload []byte, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestAdapter(t *testing.T) paymentdomain.PaymentAdapter {
	t.Helper()
	adapter, err := NewFactory().NewAdapter(paymentdomain.AdapterConfig{
		Provider:      "stripe",
		WebhookSecret: testSecret,
	})
	if err != nil {
		t.Fatalf("NewAdapter returned error: %v", err)
	}
	return adapter
}

func checkoutPayload(eventID, email, creatorSlug string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"created": 1700000000,
		"data": {
			"object": {
				"id": "cs_test_1",
				"customer": "cus_123",
				"customer_details": {"email": %q},
				"metadata": {"creator_slug": %q},
				"subscription": "sub_456",
				"payment_intent": "pi_789",
				"amount_total": 500,
				"currency": "gbp",
				"created": 1700000000
			}
		}
	}`, eventID, email, creatorSlug))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")

	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader(testSecret, payload, time.Now()))

	if err := adapter.Verify(context.Background(), payload, headers); err != nil {
		t.Fatalf("Verify returned error for valid signature: %v", err)
	}
}

func TestVerifyRejectsBadSecret(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")

	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader("whsec_wrong", payload, time.Now()))

	err := adapter.Verify(context.Background(), payload, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")

	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader(testSecret, payload, time.Now()))

	tampered := checkoutPayload("evt_1", "attacker@example.com", "ava-sterling")
	err := adapter.Verify(context.Background(), tampered, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")

	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader(testSecret, payload, time.Now().Add(-10*time.Minute)))

	err := adapter.Verify(context.Background(), payload, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for stale timestamp, got %v", err)
	}
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")

	err := adapter.Verify(context.Background(), payload, http.Header{})
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for missing header, got %v", err)
	}
}

func TestVerifySkipMode(t *testing.T) {
	adapter, err := NewFactory().NewAdapter(paymentdomain.AdapterConfig{
		Provider:   "stripe",
		SkipVerify: true,
	})
	if err != nil {
		t.Fatalf("NewAdapter returned error: %v", err)
	}

	payload := checkoutPayload("evt_1", "fan@example.com", "ava-sterling")
	if err := adapter.Verify(context.Background(), payload, http.Header{}); err != nil {
		t.Fatalf("Verify in skip mode returned error: %v", err)
	}
}

func TestFactoryRequiresSecret(t *testing.T) {
	_, err := NewFactory().NewAdapter(paymentdomain.AdapterConfig{Provider: "stripe"})
	if !errors.Is(err, paymentdomain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig without secret, got %v", err)
	}
}

func TestParseCheckoutSessionCompleted(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := checkoutPayload("evt_1", "Fan@Example.COM", "Ava-Sterling")

	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if event.Provider != "stripe" {
		t.Fatalf("expected provider stripe, got %q", event.Provider)
	}
	if event.ProviderEventID != "evt_1" {
		t.Fatalf("expected provider event id evt_1, got %q", event.ProviderEventID)
	}
	if event.Email != "fan@example.com" {
		t.Fatalf("expected lowercased email, got %q", event.Email)
	}
	if event.CreatorSlug != "ava-sterling" {
		t.Fatalf("expected lowercased creator slug, got %q", event.CreatorSlug)
	}
	if event.SubscriptionRef != "sub_456" {
		t.Fatalf("expected subscription ref sub_456, got %q", event.SubscriptionRef)
	}
	if event.AmountTotal != 500 {
		t.Fatalf("expected amount 500, got %d", event.AmountTotal)
	}
	if event.Currency != "GBP" {
		t.Fatalf("expected currency GBP, got %q", event.Currency)
	}
	if event.OccurredAt.Unix() != 1700000000 {
		t.Fatalf("unexpected occurred at: %v", event.OccurredAt)
	}
}

func TestParseIgnoresOtherEventTypes(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"id": "evt_2", "type": "invoice.paid", "data": {"object": {}}}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrEventIgnored) {
		t.Fatalf("expected ErrEventIgnored, got %v", err)
	}
}

func TestParseRejectsMissingEmail(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{
		"id": "evt_3",
		"type": "checkout.session.completed",
		"data": {"object": {"metadata": {"creator_slug": "ava-sterling"}}}
	}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent without email, got %v", err)
	}
}

func TestParseRejectsMissingCreatorSlug(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{
		"id": "evt_4",
		"type": "checkout.session.completed",
		"data": {"object": {"customer_details": {"email": "fan@example.com"}}}
	}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.Parse(context.Background(), []byte("{not json"))
	if !errors.Is(err, paymentdomain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

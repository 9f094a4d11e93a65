package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/personacoreio/personacore/internal/payment/domain"
)

// signatureTolerance bounds how old a signed timestamp may be before the
// event is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "stripe"
}

func (f *Factory) NewAdapter(cfg paymentdomain.AdapterConfig) (paymentdomain.PaymentAdapter, error) {
	secret := strings.TrimSpace(cfg.WebhookSecret)
	if secret == "" && !cfg.SkipVerify {
		return nil, paymentdomain.ErrInvalidConfig
	}

	return &Adapter{
		webhookSecret: secret,
		skipVerify:    cfg.SkipVerify,
	}, nil
}

type Adapter struct {
	webhookSecret string
	skipVerify    bool
}

func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	if a.skipVerify {
		return nil
	}

	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return paymentdomain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}
	if age := time.Since(time.Unix(seconds, 0)); age > signatureTolerance || age < -signatureTolerance {
		return paymentdomain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return paymentdomain.ErrInvalidSignature
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*paymentdomain.CheckoutEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	switch strings.TrimSpace(event.Type) {
	case "checkout.session.completed":
		return a.parseCheckoutSession(event, payload)
	default:
		return nil, paymentdomain.ErrEventIgnored
	}
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeCheckoutSession struct {
	ID              string                `json:"id"`
	Customer        string                `json:"customer"`
	CustomerDetails stripeCustomerDetails `json:"customer_details"`
	Metadata        map[string]string     `json:"metadata"`
	Subscription    string                `json:"subscription"`
	PaymentIntent   string                `json:"payment_intent"`
	AmountTotal     int64                 `json:"amount_total"`
	Currency        string                `json:"currency"`
	Created         int64                 `json:"created"`
}

type stripeCustomerDetails struct {
	Email string `json:"email"`
}

func (a *Adapter) parseCheckoutSession(event stripeEvent, payload []byte) (*paymentdomain.CheckoutEvent, error) {
	var session stripeCheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}

	email := strings.ToLower(strings.TrimSpace(session.CustomerDetails.Email))
	creatorSlug := strings.ToLower(strings.TrimSpace(session.Metadata["creator_slug"]))
	if email == "" || creatorSlug == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	return &paymentdomain.CheckoutEvent{
		Provider:         "stripe",
		ProviderEventID:  event.ID,
		Type:             paymentdomain.EventTypeCheckoutCompleted,
		Email:            email,
		CreatorSlug:      creatorSlug,
		SubscriptionRef:  strings.TrimSpace(session.Subscription),
		CustomerRef:      strings.TrimSpace(session.Customer),
		PaymentIntentRef: strings.TrimSpace(session.PaymentIntent),
		AmountTotal:      session.AmountTotal,
		Currency:         strings.ToUpper(strings.TrimSpace(session.Currency)),
		OccurredAt:       timestamp(session.Created, event.Created),
		RawPayload:       payload,
	}, nil
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}

func timestamp(primary int64, fallback int64) time.Time {
	value := primary
	if value == 0 {
		value = fallback
	}
	if value == 0 {
		return time.Now().UTC()
	}
	return time.Unix(value, 0).UTC()
}

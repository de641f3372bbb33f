package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"context"
	"errors"
	"resort/config"
	"resort/infras/otel"

	"github.com/rs/zerolog/log"
)

const (
	ProviderStripe = "stripe"
	ProviderDemo   = "demo"
)

// EventType is the provider-neutral outcome of a checkout session.
type EventType string

const (
	EventCompleted EventType = "checkout.session.completed"
	EventExpired   EventType = "checkout.session.expired"
	EventIgnored   EventType = "ignored"
)

var ErrInvalidSignature = errors.New("webhook signature verification failed")

type CheckoutRequest struct {
	PaymentID     string
	Description   string
	CustomerEmail string
	Currency      string
	Amount        int64
}

type Session struct {
	ID  string
	URL string
}

type Event struct {
	Type      EventType
	PaymentID string
	SessionID string
}

type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (Session, error)
	// ParseWebhook verifies a provider callback and extracts the payment it refers to.
	ParseWebhook(payload []byte, signature string) (Event, error)
}

// New picks the gateway named by the resort configuration. Stripe needs a secret key;
// without one the demo gateway is used.
func New(cfg *config.Config, otel otel.Otel) Gateway {
	if cfg.Resort.PaymentProvider == ProviderStripe {
		if cfg.External.Stripe.SecretKey != "" {
			log.Info().Msg("Payment gateway: stripe")

			return newStripe(cfg, otel)
		}

		log.Warn().Msg("Stripe selected without a secret key, falling back to the demo gateway")
	}

	log.Info().Msg("Payment gateway: demo")

	return newDemo(cfg, otel)
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"resort/config"
	"resort/infras/otel"
	"resort/shared/constant"

	"github.com/google/uuid"
)

// demoImpl is a sandbox provider. Sessions complete when the demo webhook is posted.
type demoImpl struct {
	cfg  *config.Config
	otel otel.Otel
}

type demoWebhook struct {
	Type      EventType `json:"type"`
	PaymentID string    `json:"payment_id"`
	SessionID string    `json:"session_id"`
}

func newDemo(cfg *config.Config, otel otel.Otel) Gateway {
	return &demoImpl{cfg: cfg, otel: otel}
}

func (g *demoImpl) Name() string {
	return ProviderDemo
}

func (g *demoImpl) CreateCheckout(ctx context.Context, req CheckoutRequest) (Session, error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".demo.CreateCheckout")
	defer scope.End()

	return Session{
		ID:  "demo_" + uuid.NewString(),
		URL: withPaymentID(g.cfg.External.Stripe.SuccessURL, req.PaymentID),
	}, nil
}

func (g *demoImpl) ParseWebhook(payload []byte, _ string) (Event, error) {
	var body demoWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if body.PaymentID == "" {
		return Event{}, fmt.Errorf("%w: payment_id is required", ErrInvalidSignature)
	}

	switch body.Type {
	case EventCompleted, EventExpired:
		return Event(body), nil
	default:
		return Event{Type: EventIgnored}, nil
	}
}

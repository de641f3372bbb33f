package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"resort/config"
	"resort/infras/otel"
	"resort/shared/constant"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const metadataPaymentID = "payment_id"

type stripeImpl struct {
	api  *client.API
	cfg  *config.Config
	otel otel.Otel
}

func newStripe(cfg *config.Config, otel otel.Otel) Gateway {
	api := &client.API{}
	api.Init(cfg.External.Stripe.SecretKey, nil)

	return &stripeImpl{
		api:  api,
		cfg:  cfg,
		otel: otel,
	}
}

func (g *stripeImpl) Name() string {
	return ProviderStripe
}

func (g *stripeImpl) CreateCheckout(ctx context.Context, req CheckoutRequest) (session Session, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".stripe.CreateCheckout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("payment.id", req.PaymentID)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.PaymentID),
		SuccessURL:        stripe.String(withPaymentID(g.cfg.External.Stripe.SuccessURL, req.PaymentID)),
		CancelURL:         stripe.String(withPaymentID(g.cfg.External.Stripe.CancelURL, req.PaymentID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	params.AddMetadata(metadataPaymentID, req.PaymentID)
	params.Context = ctx

	created, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return session, fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	return Session{ID: created.ID, URL: created.URL}, nil
}

func (g *stripeImpl) ParseWebhook(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.cfg.External.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	eventType := EventType(event.Type)
	if eventType != EventCompleted && eventType != EventExpired {
		return Event{Type: EventIgnored}, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return Event{}, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	paymentID := session.ClientReferenceID
	if paymentID == "" {
		paymentID = session.Metadata[metadataPaymentID]
	}

	return Event{Type: eventType, PaymentID: paymentID, SessionID: session.ID}, nil
}

func withPaymentID(base, paymentID string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}

	query := parsed.Query()
	query.Set(metadataPaymentID, paymentID)
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

package gateway

import (
	"context"
	"encoding/json"
	"resort/config"
	"resort/infras/otel/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.Stripe.SuccessURL = "https://resort.example.com/booking/confirmed"
	cfg.External.Stripe.CancelURL = "https://resort.example.com/booking"
	cfg.External.Stripe.WebhookSecret = "whsec_test"

	return cfg
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, ProviderDemo, New(cfg, mocks.NewOtel()).Name())

	cfg.Resort.PaymentProvider = ProviderStripe
	assert.Equal(t, ProviderDemo, New(cfg, mocks.NewOtel()).Name(), "stripe without a key falls back")

	cfg.External.Stripe.SecretKey = "sk_test_123"
	assert.Equal(t, ProviderStripe, New(cfg, mocks.NewOtel()).Name())
}

func TestDemo_CreateCheckout(t *testing.T) {
	g := newDemo(testConfig(), mocks.NewOtel())

	session, err := g.CreateCheckout(context.Background(), CheckoutRequest{PaymentID: "pay-1", Amount: 85500})
	require.NoError(t, err)

	assert.Contains(t, session.ID, "demo_")
	assert.Equal(t, "https://resort.example.com/booking/confirmed?payment_id=pay-1", session.URL)
}

func TestDemo_ParseWebhook(t *testing.T) {
	g := newDemo(testConfig(), mocks.NewOtel())

	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr bool
	}{
		{
			name:    "completed",
			payload: `{"type":"checkout.session.completed","payment_id":"pay-1","session_id":"demo_1"}`,
			want:    Event{Type: EventCompleted, PaymentID: "pay-1", SessionID: "demo_1"},
		},
		{
			name:    "expired",
			payload: `{"type":"checkout.session.expired","payment_id":"pay-1"}`,
			want:    Event{Type: EventExpired, PaymentID: "pay-1"},
		},
		{
			name:    "other events are ignored",
			payload: `{"type":"charge.refunded","payment_id":"pay-1"}`,
			want:    Event{Type: EventIgnored},
		},
		{name: "missing payment", payload: `{"type":"checkout.session.completed"}`, wantErr: true},
		{name: "malformed", payload: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.ParseWebhook([]byte(tt.payload), "")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSignature)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripe_ParseWebhook(t *testing.T) {
	cfg := testConfig()
	cfg.External.Stripe.SecretKey = "sk_test_123"
	g := newStripe(cfg, mocks.NewOtel())

	payload, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        "checkout.session.completed",
		"api_version": "2023-10-16",
		"data": map[string]any{
			"object": map[string]any{
				"id":                  "cs_test_1",
				"object":              "checkout.session",
				"client_reference_id": "pay-1",
			},
		},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    cfg.External.Stripe.WebhookSecret,
		Timestamp: time.Now(),
	})

	event, err := g.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, Event{Type: EventCompleted, PaymentID: "pay-1", SessionID: "cs_test_1"}, event)

	_, err = g.ParseWebhook(signed.Payload, "t=1,v1=deadbeef")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestWithPaymentID(t *testing.T) {
	assert.Equal(t, "https://x.test/ok?a=1&payment_id=p", withPaymentID("https://x.test/ok?a=1", "p"))
	assert.Equal(t, "/confirm?payment_id=p", withPaymentID("/confirm", "p"))
}

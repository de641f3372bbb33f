package service_test

import (
	"context"
	"errors"
	"net/http"
	"resort/config"
	"resort/infras/gateway"
	gatewayMocks "resort/infras/gateway/mocks"
	otelMocks "resort/infras/otel/mocks"
	availabilityMocks "resort/internal/domains/availability/service/mocks"
	bookingModel "resort/internal/domains/booking/model"
	bookingDto "resort/internal/domains/booking/model/dto"
	bookingMocks "resort/internal/domains/booking/service/mocks"
	paymentMocks "resort/internal/domains/payment/mocks"
	"resort/internal/domains/payment/model"
	"resort/internal/domains/payment/service"
	"resort/internal/domains/pricing"
	"resort/internal/domains/resort"
	"resort/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc          service.Payment
	repo         *paymentMocks.MockPayment
	bookings     *bookingMocks.MockBooking
	availability *availabilityMocks.MockAvailability
	gateway      *gatewayMocks.MockGateway
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         paymentMocks.NewMockPayment(ctrl),
		bookings:     bookingMocks.NewMockBooking(ctrl),
		availability: availabilityMocks.NewMockAvailability(ctrl),
		gateway:      gatewayMocks.NewMockGateway(ctrl),
	}

	cfg := &config.Config{}
	cfg.External.Stripe.Currency = "usd"

	f.svc = service.New(f.repo, f.bookings, f.availability, f.gateway, cfg, otelMocks.NewOtel())

	return f
}

func sampleDraft() bookingDto.Draft {
	return bookingDto.Draft{
		Name:        "Asha Menon",
		Email:       "asha@example.com",
		Phone:       "+91 98450 00000",
		PackageType: "7 Days Rejuvenation",
		CheckInDate: "2025-08-01",
		Guest:       2,
		RoomNumber:  4,
	}
}

func preparedBooking() (bookingModel.Booking, pricing.Quote) {
	booking := bookingModel.Booking{
		RoomNumber:   4,
		CheckInDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC),
	}

	quote := pricing.Quote{
		PackageType:  "7 Days Rejuvenation",
		Duration:     7,
		GuestCount:   2,
		PackagePrice: resort.Money(95000),
		Discount:     resort.Money(9500),
		TotalPrice:   resort.Money(85500),
		CheckInDate:  "2025-08-01",
		CheckOutDate: "2025-08-08",
	}

	return booking, quote
}

func TestPaymentService_Checkout(t *testing.T) {
	f := newFixture(t)
	booking, quote := preparedBooking()

	f.bookings.EXPECT().Prepare(gomock.Any(), sampleDraft()).Return(booking, quote, nil)
	f.availability.EXPECT().IsRoomFree(gomock.Any(), 4, booking.Interval()).Return(true, nil)
	f.gateway.EXPECT().Name().Return(gateway.ProviderDemo)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, payment model.Payment) error {
		assert.Equal(t, model.StatusPending, payment.Status)
		assert.Equal(t, resort.Money(85500), payment.Amount)

		var stored bookingDto.Draft
		require.NoError(t, payment.DecodeDraft(&stored))
		assert.Equal(t, 7, stored.PackageDuration)

		return nil
	})
	f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req gateway.CheckoutRequest) (gateway.Session, error) {
			assert.Equal(t, int64(85500), req.Amount)
			assert.Equal(t, "usd", req.Currency)

			return gateway.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil
		})
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Checkout(context.Background(), sampleDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, res.PaymentID)
	assert.Equal(t, "https://pay.example.com/cs_1", res.CheckoutURL)
	assert.Equal(t, resort.Money(85500), res.Pricing.TotalPrice)
}

func TestPaymentService_CheckoutRoomTaken(t *testing.T) {
	f := newFixture(t)
	booking, quote := preparedBooking()

	f.bookings.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(booking, quote, nil)
	f.availability.EXPECT().IsRoomFree(gomock.Any(), 4, gomock.Any()).Return(false, nil)

	_, err := f.svc.Checkout(context.Background(), sampleDraft())
	require.Error(t, err)
	assert.Equal(t, failure.ReasonNoAvailability, failure.GetReason(err))
}

func TestPaymentService_CheckoutInvalidDraft(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Prepare(gomock.Any(), gomock.Any()).
		Return(bookingModel.Booking{}, pricing.Quote{}, failure.NotFound("package not found"))

	_, err := f.svc.Checkout(context.Background(), sampleDraft())
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestPaymentService_CheckoutGatewayFailure(t *testing.T) {
	f := newFixture(t)
	booking, quote := preparedBooking()

	f.bookings.EXPECT().Prepare(gomock.Any(), gomock.Any()).Return(booking, quote, nil)
	f.availability.EXPECT().IsRoomFree(gomock.Any(), 4, gomock.Any()).Return(true, nil)
	f.gateway.EXPECT().Name().Return(gateway.ProviderStripe)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(gateway.Session{}, errors.New("stripe unavailable"))
	f.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), model.StatusFailed, model.StatusPending).Return(true, nil)

	_, err := f.svc.Checkout(context.Background(), sampleDraft())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	assert.Equal(t, failure.ReasonUpstreamPayment, failure.GetReason(err))
}

func TestPaymentService_HandleWebhookCompleted(t *testing.T) {
	f := newFixture(t)

	f.gateway.EXPECT().ParseWebhook([]byte("payload"), "sig").
		Return(gateway.Event{Type: gateway.EventCompleted, PaymentID: "pay-1"}, nil)
	f.repo.EXPECT().Transition(gomock.Any(), "pay-1", model.StatusPaid, model.StatusPending).Return(true, nil)
	f.bookings.EXPECT().Commit(gomock.Any(), "pay-1").Return(bookingDto.BookingResponse{ID: "booking-1"}, nil)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), []byte("payload"), "sig"))
}

func TestPaymentService_HandleWebhookAcknowledgesConflict(t *testing.T) {
	f := newFixture(t)

	f.gateway.EXPECT().ParseWebhook(gomock.Any(), gomock.Any()).
		Return(gateway.Event{Type: gateway.EventCompleted, PaymentID: "pay-1"}, nil)
	f.repo.EXPECT().Transition(gomock.Any(), "pay-1", model.StatusPaid, model.StatusPending).Return(true, nil)
	f.bookings.EXPECT().Commit(gomock.Any(), "pay-1").
		Return(bookingDto.BookingResponse{}, failure.RoomConflictAtCommit("room 4 is no longer available"))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), nil, ""))
}

func TestPaymentService_HandleWebhookRetriesOnInternalError(t *testing.T) {
	f := newFixture(t)

	f.gateway.EXPECT().ParseWebhook(gomock.Any(), gomock.Any()).
		Return(gateway.Event{Type: gateway.EventCompleted, PaymentID: "pay-1"}, nil)
	f.repo.EXPECT().Transition(gomock.Any(), "pay-1", model.StatusPaid, model.StatusPending).Return(false, nil)
	f.bookings.EXPECT().Commit(gomock.Any(), "pay-1").Return(bookingDto.BookingResponse{}, errors.New("db down"))

	err := f.svc.HandleWebhook(context.Background(), nil, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestPaymentService_HandleWebhookExpired(t *testing.T) {
	f := newFixture(t)

	f.gateway.EXPECT().ParseWebhook(gomock.Any(), gomock.Any()).
		Return(gateway.Event{Type: gateway.EventExpired, PaymentID: "pay-1"}, nil)
	f.repo.EXPECT().Transition(gomock.Any(), "pay-1", model.StatusFailed, model.StatusPending).Return(true, nil)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), nil, ""))
}

func TestPaymentService_HandleWebhookInvalidSignature(t *testing.T) {
	f := newFixture(t)

	f.gateway.EXPECT().ParseWebhook(gomock.Any(), gomock.Any()).Return(gateway.Event{}, gateway.ErrInvalidSignature)

	err := f.svc.HandleWebhook(context.Background(), nil, "bad")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestPaymentService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{ID: "pay-1", Status: model.StatusPaid}, nil)

	res, err := f.svc.Get(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, res.Status)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"resort/config"
	"resort/infras/gateway"
	"resort/infras/otel"
	availabilityService "resort/internal/domains/availability/service"
	bookingDto "resort/internal/domains/booking/model/dto"
	bookingService "resort/internal/domains/booking/service"
	"resort/internal/domains/payment/model"
	"resort/internal/domains/payment/model/dto"
	"resort/internal/domains/payment/repository"
	"resort/shared"
	"resort/shared/constant"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	// Checkout prices a booking draft, checks its room is free and opens a payment session.
	Checkout(ctx context.Context, draft bookingDto.Draft) (dto.CheckoutResponse, error)
	// HandleWebhook applies a provider callback. A completed session commits the booking.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo         repository.Payment
	bookings     bookingService.Booking
	availability availabilityService.Availability
	gateway      gateway.Gateway
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Payment,
	bookings bookingService.Booking,
	availability availabilityService.Availability,
	gateway gateway.Gateway,
	cfg *config.Config,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:         repo,
		bookings:     bookings,
		availability: availability,
		gateway:      gateway,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) Checkout(ctx context.Context, draft bookingDto.Draft) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Checkout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, quote, err := s.bookings.Prepare(ctx, draft)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	free, err := s.availability.IsRoomFree(ctx, booking.RoomNumber, booking.Interval())
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !free {
		return res, failure.NoAvailability(fmt.Sprintf( //nolint:wrapcheck
			"room %d is not available from %s to %s",
			booking.RoomNumber, quote.CheckInDate, quote.CheckOutDate))
	}

	// store the draft with its resolved duration so the commit prices the same package
	draft.PackageDuration = quote.Duration

	payment := model.Payment{
		ID:       uuid.NewString(),
		Provider: s.gateway.Name(),
		Status:   model.StatusPending,
		Amount:   quote.TotalPrice,
		Currency: s.currency(),
		Metadata: gModel.NewMetadata(draft.Email, timezone.Now()),
	}

	if err = payment.EncodeDraft(draft); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	session, err := s.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		PaymentID:     payment.ID,
		Description:   fmt.Sprintf("%s, room %d, %s to %s", quote.PackageType, booking.RoomNumber, quote.CheckInDate, quote.CheckOutDate),
		CustomerEmail: draft.Email,
		Currency:      payment.Currency,
		Amount:        int64(payment.Amount),
	})
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to create checkout session")

		if _, markErr := s.repo.Transition(ctx, payment.ID, model.StatusFailed, model.StatusPending); markErr != nil {
			log.Error().Err(markErr).Str("payment_id", payment.ID).Msg("failed to mark payment as failed")
		}

		return res, failure.UpstreamPayment(err) //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldProviderSessionID: session.ID,
		model.FieldCheckoutURL:       session.URL,
		constant.FieldModifiedAt:     timezone.Now(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(payment.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to store checkout session")

		return res, fmt.Errorf("failed to store checkout session: %w", err)
	}

	res = dto.CheckoutResponse{
		PaymentID:   payment.ID,
		CheckoutURL: session.URL,
		Provider:    payment.Provider,
		Pricing:     quote,
	}

	return res, nil
}

func (s *serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.HandleWebhook")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		log.Warn().Err(err).Msg("rejected payment webhook")

		return failure.BadRequest(err) //nolint:wrapcheck
	}

	scope.SetAttributes(map[string]any{
		"payment.id": event.PaymentID,
		"event.type": string(event.Type),
	})

	switch event.Type {
	case gateway.EventCompleted:
		return s.complete(ctx, event.PaymentID)
	case gateway.EventExpired:
		if _, err = s.repo.Transition(ctx, event.PaymentID, model.StatusFailed, model.StatusPending); err != nil {
			return fmt.Errorf("failed to expire payment: %w", err)
		}

		log.Info().Str("payment_id", event.PaymentID).Msg("checkout session expired")

		return nil
	default:
		return nil
	}
}

// complete marks the payment paid and commits its booking. Losing the room is
// acknowledged, the payment stays flagged for refund.
func (s *serviceImpl) complete(ctx context.Context, paymentID string) error {
	if _, err := s.repo.Transition(ctx, paymentID, model.StatusPaid, model.StatusPending); err != nil {
		return fmt.Errorf("failed to mark payment as paid: %w", err)
	}

	booking, err := s.bookings.Commit(ctx, paymentID)

	var fail *failure.Failure

	switch {
	case err == nil:
		log.Info().Str("payment_id", paymentID).Str("booking_id", booking.ID).Msg("payment confirmed")

		return nil
	case errors.As(err, &fail) && fail.Reason == failure.ReasonRoomConflictAtCommit:
		log.Warn().Str("payment_id", paymentID).Msg("payment confirmed after its room was taken")

		return nil
	case errors.As(err, &fail) && fail.Reason == failure.ReasonValidation:
		log.Error().Err(err).Str("payment_id", paymentID).Msg("paid booking draft no longer valid")

		return nil
	default:
		return err //nolint:wrapcheck
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) currency() string {
	if s.cfg.External.Stripe.Currency != "" {
		return s.cfg.External.Stripe.Currency
	}

	return "usd"
}

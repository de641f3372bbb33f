package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"resort/config"
	"resort/infras/metrics"
	"resort/infras/otel"
	"resort/internal/domains/availability"
	"resort/internal/domains/booking/model"
	"resort/internal/domains/booking/model/dto"
	"resort/internal/domains/booking/repository"
	outboxModel "resort/internal/domains/outbox/model"
	outboxRepo "resort/internal/domains/outbox/repository"
	paymentModel "resort/internal/domains/payment/model"
	paymentRepo "resort/internal/domains/payment/repository"
	"resort/internal/domains/pricing"
	pricingService "resort/internal/domains/pricing/service"
	"resort/internal/domains/resort"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	// Prepare validates and prices a draft, returning the booking it would create.
	Prepare(ctx context.Context, draft dto.Draft) (model.Booking, pricing.Quote, error)
	// Commit turns a paid payment into a booking. Committing the same payment twice returns
	// the booking created the first time.
	Commit(ctx context.Context, paymentID string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Booking
	paymentRepo paymentRepo.Payment
	outboxRepo  outboxRepo.Outbox
	pricing     pricingService.Pricing
	catalog     *resort.Catalog
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	paymentRepo paymentRepo.Payment,
	outboxRepo outboxRepo.Outbox,
	pricing pricingService.Pricing,
	catalog *resort.Catalog,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		pricing:     pricing,
		catalog:     catalog,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Prepare(ctx context.Context, draft dto.Draft) (booking model.Booking, quote pricing.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Prepare")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, err := timezone.ParseDate(draft.CheckInDate)
	if err != nil {
		return booking, quote, failure.BadRequestFromString("b_checkInDate must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if !s.catalog.ValidRoom(draft.RoomNumber) {
		return booking, quote, failure.BadRequestFromString( //nolint:wrapcheck
			fmt.Sprintf("b_roomNumber must be between 1 and %d", s.catalog.RoomCount))
	}

	duration := draft.PackageDuration
	if duration == 0 {
		if pkg, ok := s.catalog.Package(draft.PackageType); ok {
			duration = pkg.DurationDays
		}
	}

	quote, err = s.pricing.Price(ctx, pricing.Input{
		PackageType: draft.PackageType,
		Duration:    duration,
		GuestCount:  draft.Guest,
		CheckIn:     &checkIn,
	})
	if err != nil {
		return booking, quote, err //nolint:wrapcheck
	}

	interval := availability.ForDuration(checkIn, quote.Duration)
	dto.ApplyQuote(&booking, draft, quote, interval.CheckIn, interval.CheckOut)

	return booking, quote, nil
}

func (s *serviceImpl) Commit(ctx context.Context, paymentID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Commit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("payment.id", paymentID)

	payment, err := s.paymentRepo.Get(ctx, shared.FilterByID(paymentID, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to get payment")
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultError).Inc()

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultRejected).Inc()

		return res, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	switch payment.Status {
	case paymentModel.StatusCommitted:
		return s.committed(ctx, payment)
	case paymentModel.StatusConflict:
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultConflict).Inc()

		return res, failure.RoomConflictAtCommit("the selected room was booked before this payment was confirmed") //nolint:wrapcheck
	case paymentModel.StatusPaid:
	default:
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultRejected).Inc()

		return res, failure.PaymentRequired(fmt.Sprintf("payment is %s, booking requires a confirmed payment", payment.Status)) //nolint:wrapcheck
	}

	var draft dto.Draft
	if err = payment.DecodeDraft(&draft); err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to decode booking draft")
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultError).Inc()

		return res, err //nolint:wrapcheck
	}

	booking, quote, err := s.Prepare(ctx, draft)
	if err != nil {
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultRejected).Inc()

		return res, err
	}

	if quote.TotalPrice != payment.Amount {
		log.Warn().
			Str("payment_id", paymentID).
			Str("paid", payment.Amount.String()).
			Str("quoted", quote.TotalPrice.String()).
			Msg("booking price changed since checkout")
	}

	now := timezone.Now()
	booking.ID = uuid.NewString()
	booking.PaymentID = payment.ID
	booking.Metadata = gModel.NewMetadata(actor(ctx), now)

	event, err := outboxModel.NewEvent(booking.ID, model.EventCreated, booking.Event(model.EventCreated, now), now)
	if err != nil {
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultError).Inc()

		return res, err //nolint:wrapcheck
	}

	err = s.repo.Commit(ctx, booking, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.paymentRepo.MarkCommittedTx(ctx, tx, payment.ID, booking.ID); err != nil {
			return err //nolint:wrapcheck
		}

		return s.outboxRepo.InsertTx(ctx, tx, event) //nolint:wrapcheck
	})
	if errors.Is(err, model.ErrRoomConflict) {
		return s.conflict(ctx, payment, booking)
	}

	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to commit booking")
		metrics.BookingCommits.WithLabelValues(metrics.CommitResultError).Inc()

		return res, fmt.Errorf("failed to commit booking: %w", err)
	}

	metrics.BookingCommits.WithLabelValues(metrics.CommitResultCommitted).Inc()
	log.Info().Str("booking_id", booking.ID).Int("room", booking.RoomNumber).Msg("booking committed")

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// committed returns the booking an already committed payment produced.
func (s *serviceImpl) committed(ctx context.Context, payment paymentModel.Payment) (dto.BookingResponse, error) {
	metrics.BookingCommits.WithLabelValues(metrics.CommitResultDuplicate).Inc()

	return s.Get(ctx, payment.BookingID)
}

// conflict records that the payment lost its room. When a concurrent commit of the same
// payment won instead, its booking is returned.
func (s *serviceImpl) conflict(ctx context.Context, payment paymentModel.Payment, booking model.Booking) (dto.BookingResponse, error) {
	moved, err := s.paymentRepo.Transition(ctx, payment.ID, paymentModel.StatusConflict, paymentModel.StatusPaid)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to mark payment as conflicting")
	}

	if err == nil && !moved {
		current, err := s.paymentRepo.Get(ctx, shared.FilterByID(payment.ID, paymentModel.FieldID, paymentModel.TableName))
		if err == nil && current.IsCommitted() {
			return s.committed(ctx, current)
		}
	}

	metrics.BookingCommits.WithLabelValues(metrics.CommitResultConflict).Inc()
	log.Warn().
		Str("payment_id", payment.ID).
		Int("room", booking.RoomNumber).
		Str("check_in", booking.CheckInDate.Format(constant.DateOnlyFormat)).
		Msg("room taken before commit, payment flagged for refund")

	return dto.BookingResponse{}, failure.RoomConflictAtCommit(fmt.Sprintf( //nolint:wrapcheck
		"room %d is no longer available from %s to %s",
		booking.RoomNumber,
		booking.CheckInDate.Format(constant.DateOnlyFormat),
		booking.CheckOutDate.Format(constant.DateOnlyFormat),
	))
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

// Update changes contact details in place. Changes to package, dates, guests or room
// re-price the stay and re-check the room against every other booking.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	draft := req.Apply(dto.DraftFromModel(existing))

	booking := existing
	if req.ChangesStay() {
		booking, _, err = s.Prepare(ctx, draft)
		if err != nil {
			return err
		}

		booking.ID = existing.ID
		booking.PaymentID = existing.PaymentID
		booking.Metadata = existing.Metadata
	} else {
		booking.Name = draft.Name
		booking.Email = draft.Email
		booking.Phone = draft.Phone
	}

	now := timezone.Now()
	booking.ModifiedAt = now
	booking.ModifiedBy = actor(ctx)

	event, err := outboxModel.NewEvent(booking.ID, model.EventUpdated, booking.Event(model.EventUpdated, now), now)
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = s.repo.Reschedule(ctx, booking, s.publish(event))
	if errors.Is(err, model.ErrRoomConflict) {
		return failure.NoAvailability(fmt.Sprintf( //nolint:wrapcheck
			"room %d is not available from %s to %s",
			booking.RoomNumber,
			booking.CheckInDate.Format(constant.DateOnlyFormat),
			booking.CheckOutDate.Format(constant.DateOnlyFormat),
		))
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete cancels a booking and frees its room.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	now := timezone.Now()

	event, err := outboxModel.NewEvent(booking.ID, model.EventCancelled, booking.Event(model.EventCancelled, now), now)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.repo.Remove(ctx, id, s.publish(event)); err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) publish(event outboxModel.Event) repository.TxFunc {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		return s.outboxRepo.InsertTx(ctx, tx, event) //nolint:wrapcheck
	}
}

// invalidate drops every cached answer a booking write can change, availability included.
// It runs after the write committed and before the caller is answered.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
	shared.InvalidateCaches(ctx, s.cache, availability.CachePrefix)

	if err := s.cache.Save(ctx, availability.GenerationKey, uuid.NewString(), 0); err != nil {
		log.Error().Err(err).Msg("failed to bump availability cache generation")
	}
}

func actor(ctx context.Context) string {
	if user, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && user != "" {
		return user
	}

	return constant.ContextGuest
}

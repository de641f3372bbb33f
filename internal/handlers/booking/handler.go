package booking

import (
	"net/http"
	"resort/infras/otel"
	availabilityDto "resort/internal/domains/availability/model/dto"
	availabilityService "resort/internal/domains/availability/service"
	"resort/internal/domains/booking/model/dto"
	"resort/internal/domains/booking/service"
	documentService "resort/internal/domains/document/service"
	paymentService "resort/internal/domains/payment/service"
	pricingDto "resort/internal/domains/pricing/model/dto"
	pricingService "resort/internal/domains/pricing/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/validator"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Booking
	availability availabilityService.Availability
	pricing      pricingService.Pricing
	payment      paymentService.Payment
	document     documentService.Document
	otel         otel.Otel
}

func New(
	service service.Booking,
	availability availabilityService.Availability,
	pricing pricingService.Pricing,
	payment paymentService.Payment,
	document documentService.Document,
	otel otel.Otel,
) Handler {
	return Handler{
		service:      service,
		availability: availability,
		pricing:      pricing,
		payment:      payment,
		document:     document,
		otel:         otel,
	}
}

// Router mounts the booking routes. Write endpoints that start a payment or commit
// a booking are wrapped with idempotency.
func (handler *Handler) Router(router chi.Router, idempotency func(http.Handler) http.Handler) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/availability/check", handler.CheckAvailability)
		routerGroup.Get("/availability/unavailable-dates", handler.GetUnavailableDates)
		routerGroup.Get("/rooms/available", handler.GetAvailableRooms)
		routerGroup.Get("/pricing", handler.GetPricing)

		routerGroup.With(idempotency).Post("/checkout", handler.Checkout)
		routerGroup.With(idempotency).Post("/", handler.CommitBooking)

		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Get("/{id}/voucher", handler.GetVoucher)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CheckAvailability reports the rooms free for a package starting on a date.
// @Summary Check availability
// @Tags Booking
// @Produce json
// @Param checkInDate query string true "Check-in date (YYYY-MM-DD)"
// @Param packageDuration query int true "Package duration in days"
// @Success 200 {object} response.Data[availabilityDto.CheckResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability/check [get]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	req := availabilityDto.CheckRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.availability.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetUnavailableDates lists check-in dates on which every room is taken.
// @Summary Unavailable check-in dates
// @Tags Booking
// @Produce json
// @Param packageDuration query int true "Package duration in days"
// @Success 200 {object} response.Data[availabilityDto.UnavailableDatesResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability/unavailable-dates [get]
func (handler *Handler) GetUnavailableDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnavailableDates")
	defer scope.End()

	req := availabilityDto.UnavailableDatesRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.availability.UnavailableDates(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get unavailable dates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetAvailableRooms lists rooms free for an explicit date range.
// @Summary Available rooms
// @Tags Booking
// @Produce json
// @Param checkInDate query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOutDate query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[availabilityDto.RoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/rooms/available [get]
func (handler *Handler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	req := availabilityDto.RoomsRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.availability.AvailableRooms(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available rooms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetPricing quotes a package for a guest count and optional check-in date.
// @Summary Price a package
// @Tags Booking
// @Produce json
// @Param packageType query string true "Package title"
// @Param duration query int true "Package duration in days"
// @Param guestCount query int true "Number of guests"
// @Param checkInDate query string false "Check-in date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[pricingDto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/pricing [get]
func (handler *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPricing")
	defer scope.End()

	req := pricingDto.QuoteRequest{}

	if err := req.FromRequest(r); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.pricing.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to price package")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Checkout prices a booking draft and opens a payment session for it.
// @Summary Start checkout
// @Tags Booking
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body dto.Draft true "Booking draft"
// @Success 201 {object} response.Data[paymentDto.CheckoutResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/bookings/checkout [post]
func (handler *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	req := dto.Draft{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.payment.Checkout(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start checkout")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Checkout started for payment " + res.PaymentID)

	response.WithJSON(w, http.StatusCreated, res)
}

// CommitBooking turns a paid checkout into a booking.
// @Summary Confirm a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body dto.CommitRequest true "Commit Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CommitBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CommitBooking")
	defer scope.End()

	req := dto.CommitRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Commit(ctx, req.PaymentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", req.PaymentID).Msg("failed to commit booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking committed " + booking.ID)

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings retrieves bookings matching the filters.
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param b_roomNumber query int false "Filter by room"
// @Param b_packageType query string false "Filter by package"
// @Param b_email query string false "Filter by guest email"
// @Param from query string false "Stays ending after this date (YYYY-MM-DD)"
// @Param to query string false "Stays starting before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	listRequest := dto.ListRequest{}
	listRequest.FromRequest(r)

	filterGroup, err := listRequest.Filter()
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetVoucher renders the booking voucher as a PDF.
// @Summary Booking voucher
// @Tags Booking
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/voucher [get]
func (handler *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVoucher")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	file, err := handler.document.Voucher(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to render voucher")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, file.Name, file.ContentType, file.Content)
}

// UpdateBooking updates an existing booking by its ID.
// @Summary Update a booking by ID
// @Description Contact fields are updated in place. Stay changes are re-priced and re-checked for the room.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking updated successfully")
}

// DeleteBooking cancels a booking by its ID.
// @Summary Cancel a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking cancelled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

package report

import (
	"net/http"
	"resort/infras/otel"
	"resort/internal/domains/document/model/dto"
	"resort/internal/domains/document/service"
	"resort/shared/constant"
	"resort/shared/validator"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Document
	otel    otel.Otel
}

func New(service service.Document, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/bookings", handler.GetBookingReport)
	})
}

// GetBookingReport exports bookings to CSV or PDF and returns the stored file URL.
// @Summary Export bookings
// @Tags Report
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Param from query string false "Stays ending after this date (YYYY-MM-DD)"
// @Param to query string false "Stays starting before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookingReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingReport")
	defer scope.End()

	req := dto.ReportRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Report(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking report exported")

	response.WithJSON(w, http.StatusOK, res)
}

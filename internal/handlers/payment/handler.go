package payment

import (
	"io"
	"net/http"
	"resort/infras/otel"
	"resort/internal/domains/payment/model/dto"
	"resort/internal/domains/payment/service"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// maxWebhookBytes bounds the webhook payload read into memory.
const maxWebhookBytes = 64 << 10

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/webhook", handler.Webhook)
		routerGroup.Get("/{id}", handler.GetPayment)
	})
}

// Webhook receives payment provider events.
// @Summary Payment provider webhook
// @Tags Payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string false "Provider signature"
// @Success 200 {object} response.Data[dto.WebhookResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/webhook [post]
func (handler *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequest(err))

		return
	}

	if err = handler.service.HandleWebhook(ctx, payload, r.Header.Get(constant.RequestHeaderStripeSignature)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle payment webhook")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

// GetPayment returns the status of a checkout payment.
// @Summary Payment status
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Data[dto.PaymentResponse]
// @Failure 404 {object} response.Error
// @Router /v1/payments/{id} [get]
func (handler *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", id).Msg("failed to get payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

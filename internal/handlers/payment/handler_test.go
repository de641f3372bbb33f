package payment_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "resort/infras/otel/mocks"
	"resort/internal/domains/payment/model/dto"
	"resort/internal/domains/payment/service/mocks"
	"resort/internal/handlers/payment"
	"resort/shared/failure"
)

func newRouter(t *testing.T) (chi.Router, *mocks.MockPayment) {
	t.Helper()

	svc := mocks.NewMockPayment(gomock.NewController(t))
	handler := payment.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_Webhook(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().HandleWebhook(gomock.Any(), []byte(`{"type":"checkout.session.completed"}`), "t=1,v1=abc").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"received":true}}`, rec.Body.String())
}

func TestHandler_WebhookRejected(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), "").Return(failure.BadRequest(errors.New("invalid signature")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_WebhookRetryable(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader("{}")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_GetPayment(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "pay-1").Return(dto.PaymentResponse{ID: "pay-1", Status: "paid"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/pay-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)
}

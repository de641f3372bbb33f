package report_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "resort/infras/otel/mocks"
	"resort/internal/domains/document/model/dto"
	"resort/internal/domains/document/service/mocks"
	"resort/internal/handlers/report"
)

func newRouter(t *testing.T) (chi.Router, *mocks.MockDocument) {
	t.Helper()

	svc := mocks.NewMockDocument(gomock.NewController(t))
	handler := report.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_GetBookingReportDefaultsToCSV(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Report(gomock.Any(), dto.ReportRequest{Format: "csv", From: "2025-08-01", To: "2025-08-31"}).
		Return(dto.ReportResponse{URL: "https://files.example.com/reports/bookings.csv", Format: "csv", Bookings: 3}, nil)

	rec := get(router, "/reports/bookings?from=2025-08-01&to=2025-08-31")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"url":"https://files.example.com/reports/bookings.csv","format":"csv","bookings":3}}`, rec.Body.String())
}

func TestHandler_GetBookingReportInvalidQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "unknown format", target: "/reports/bookings?format=xlsx"},
		{name: "malformed date", target: "/reports/bookings?from=01-08-2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t)

			assert.Equal(t, http.StatusBadRequest, get(router, tt.target).Code)
		})
	}
}

func TestHandler_GetBookingReportUploadFailure(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Report(gomock.Any(), gomock.Any()).Return(dto.ReportResponse{}, errors.New("bucket unavailable"))

	assert.Equal(t, http.StatusInternalServerError, get(router, "/reports/bookings?format=pdf").Code)
}

package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"resort/infras/otel/mocks"
	"resort/internal/domains/pricing/model/dto"
	"resort/internal/domains/pricing/service"
	"resort/internal/domains/resort"
	"resort/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) service.Pricing {
	t.Helper()

	catalog, err := resort.Load()
	require.NoError(t, err)

	return service.New(catalog, mocks.NewOtel())
}

func TestPricingService_Quote(t *testing.T) {
	svc := newService(t)

	res, err := svc.Quote(context.Background(), dto.QuoteRequest{
		PackageType: "7 Days Rejuvenation",
		Duration:    7,
		GuestCount:  2,
		CheckInDate: "2025-08-01",
	})
	require.NoError(t, err)

	assert.Equal(t, resort.Money(95000), res.Pricing.PackagePrice)
	assert.Equal(t, resort.Money(9500), res.Pricing.Discount)
	assert.Equal(t, resort.Money(85500), res.Pricing.TotalPrice)
	assert.Equal(t, "2025-08-08", res.Pricing.CheckOutDate)
}

func TestPricingService_QuoteInvalidDate(t *testing.T) {
	svc := newService(t)

	_, err := svc.Quote(context.Background(), dto.QuoteRequest{
		PackageType: "7 Days Rejuvenation",
		Duration:    7,
		GuestCount:  1,
		CheckInDate: "2025-02-30",
	})

	require.Error(t, err)
	assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
}

func TestQuoteRequest_FromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    dto.QuoteRequest
		wantErr bool
	}{
		{
			name:  "all parameters",
			query: "packageType=14+Days+Wellness&duration=14&guestCount=1&checkInDate=2025-09-01",
			want:  dto.QuoteRequest{PackageType: "14 Days Wellness", Duration: 14, GuestCount: 1, CheckInDate: "2025-09-01"},
		},
		{
			name:  "without check-in date",
			query: "packageType=Weekend+Refresh+%283+Days%29&duration=3&guestCount=2",
			want:  dto.QuoteRequest{PackageType: "Weekend Refresh (3 Days)", Duration: 3, GuestCount: 2},
		},
		{name: "non numeric duration", query: "packageType=x&duration=seven&guestCount=1", wantErr: true},
		{name: "missing guest count", query: "packageType=x&duration=7", wantErr: true},
		{name: "missing package", query: "duration=7&guestCount=1", wantErr: true},
		{name: "malformed date", query: "packageType=x&duration=7&guestCount=1&checkInDate=01/08/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/bookings/pricing?"+tt.query, nil)

			var got dto.QuoteRequest
			err := got.FromRequest(req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteRequest_FromRequestReportsDurationFirst(t *testing.T) {
	for range 20 {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/pricing?packageType=x&duration=seven&guestCount=two", nil)

		var got dto.QuoteRequest

		require.EqualError(t, got.FromRequest(req), "duration must be an integer")
	}
}

package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"resort/config"
	otelMocks "resort/infras/otel/mocks"
	s3Mocks "resort/infras/s3/mocks"
	bookingDto "resort/internal/domains/booking/model/dto"
	bookingMocks "resort/internal/domains/booking/service/mocks"
	"resort/internal/domains/document"
	"resort/internal/domains/document/model/dto"
	"resort/internal/domains/document/service"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc      service.Document
	bookings *bookingMocks.MockBooking
	s3       *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		bookings: bookingMocks.NewMockBooking(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "Ayur Resort"

	f.svc = service.New(f.bookings, f.s3, cfg, otelMocks.NewOtel())

	return f
}

func TestDocumentService_Voucher(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), "booking-1").Return(bookingDto.BookingResponse{
		ID:           "booking-1",
		Name:         "Asha Menon",
		PackageType:  "7 Days Rejuvenation",
		CheckInDate:  "2025-08-01",
		CheckOutDate: "2025-08-08",
		RoomNumber:   4,
		Guest:        2,
	}, nil)

	file, err := f.svc.Voucher(context.Background(), "booking-1")
	require.NoError(t, err)

	assert.Equal(t, "voucher-booking-1.pdf", file.Name)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestDocumentService_VoucherNotFound(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), "missing").Return(bookingDto.BookingResponse{}, failure.NotFound("booking not found"))

	_, err := f.svc.Voucher(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestDocumentService_Report(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (bookingDto.GetBookingsResponse, error) {
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)
			assert.Len(t, filter.Filters, 2)

			return bookingDto.GetBookingsResponse{
				Bookings:  []bookingDto.BookingResponse{{ID: "booking-1"}, {ID: "booking-2"}},
				TotalData: 2,
			}, nil
		})
	f.s3.EXPECT().UploadFileBytes(gomock.Any(), "", "reports", gomock.Any(), document.ContentTypeCSV, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, directory, fileName, _ string, content []byte) (string, error) {
			assert.True(t, strings.HasSuffix(fileName, ".csv"))
			assert.Contains(t, string(content), "booking-2")

			return "https://files.example.com/" + directory + "/" + fileName, nil
		})

	res, err := f.svc.Report(context.Background(), dto.ReportRequest{Format: document.FormatCSV, From: "2025-08-01", To: "2025-09-01"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Bookings)
	assert.Equal(t, document.FormatCSV, res.Format)
	assert.True(t, strings.HasPrefix(res.URL, "https://files.example.com/reports/bookings-"))
}

func TestDocumentService_ReportInvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Report(context.Background(), dto.ReportRequest{Format: document.FormatPDF, From: "01/08/2025"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestDocumentService_ReportUploadFailure(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingDto.GetBookingsResponse{}, nil)
	f.s3.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket unavailable"))

	_, err := f.svc.Report(context.Background(), dto.ReportRequest{Format: document.FormatPDF})
	require.Error(t, err)
}

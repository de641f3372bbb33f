package document_test

import (
	"bytes"
	"encoding/csv"
	"resort/internal/domains/booking/model/dto"
	"resort/internal/domains/document"
	"resort/internal/domains/resort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() dto.BookingResponse {
	return dto.BookingResponse{
		ID:            "0b7a4c2e-8f7d-4d1a-9a59-4c8c1f3a2b10",
		Name:          "Asha Menon",
		Email:         "asha@example.com",
		Phone:         "+91 98450 00000",
		PackageType:   "7 Days Rejuvenation",
		CheckInDate:   "2025-08-01",
		CheckOutDate:  "2025-08-08",
		Guest:         2,
		RoomNumber:    4,
		PackagePrice:  resort.Money(95000),
		Discount:      resort.Money(9500),
		TotalPrice:    resort.Money(85500),
		OccupancyType: "Double",
		Season:        "season",
		PaymentID:     "pay-1",
	}
}

func TestVoucher(t *testing.T) {
	file, err := document.Voucher("Ayur Resort", sampleBooking())
	require.NoError(t, err)

	assert.Equal(t, "voucher-0b7a4c2e-8f7d-4d1a-9a59-4c8c1f3a2b10.pdf", file.Name)
	assert.Equal(t, document.ContentTypePDF, file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestReport_CSV(t *testing.T) {
	generatedAt := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	file, err := document.Report(document.FormatCSV, "Bookings", []dto.BookingResponse{sampleBooking()}, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "bookings-20250901T100000Z.csv", file.Name)
	assert.Equal(t, document.ContentTypeCSV, file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{
		"0b7a4c2e-8f7d-4d1a-9a59-4c8c1f3a2b10", "Asha Menon", "asha@example.com", "+91 98450 00000",
		"7 Days Rejuvenation", "2025-08-01", "2025-08-08", "2", "4", "season",
		"950.00", "95.00", "855.00", "pay-1",
	}, records[1])
}

func TestReport_PDF(t *testing.T) {
	bookings := make([]dto.BookingResponse, 0, 60)
	for range 60 {
		bookings = append(bookings, sampleBooking())
	}

	file, err := document.Report(document.FormatPDF, "Bookings", bookings, time.Now())
	require.NoError(t, err)

	assert.Equal(t, document.ContentTypePDF, file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF-")))
}

func TestReport_UnsupportedFormat(t *testing.T) {
	_, err := document.Report("xlsx", "Bookings", nil, time.Now())
	require.Error(t, err)
}

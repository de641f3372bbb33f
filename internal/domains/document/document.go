// Package document renders booking vouchers and booking reports.
package document

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"resort/internal/domains/booking/model/dto"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"

	ContentTypeCSV = "text/csv"
	ContentTypePDF = "application/pdf"
)

const (
	pageMargin = 15.0
	pageRight  = 195.0
	qrSize     = 256
)

var reportHeader = []string{
	"id", "name", "email", "phone", "package", "check_in", "check_out",
	"guests", "room", "season", "package_price", "discount", "total_price", "payment_id",
}

// File is a rendered document ready to be served or stored.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Voucher renders a one page PDF confirming the stay, with a QR code of the booking id.
func Voucher(resortName string, booking dto.BookingResponse) (File, error) {
	qr, err := qrcode.Encode(booking.ID, qrcode.Medium, qrSize)
	if err != nil {
		return File{}, fmt.Errorf("failed to encode voucher qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, resortName+" Booking Voucher")
	pdf.Ln(16)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(pageMargin, pdf.GetY(), pageRight, pdf.GetY())
	pdf.Ln(6)

	top := pdf.GetY()

	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(pageMargin, top, 120, 62, "F")
	pdf.SetXY(pageMargin+5, top+5)

	sectionTitle(pdf, "STAY")
	line(pdf, "Booking ID", booking.ID)
	line(pdf, "Package", booking.PackageType)
	line(pdf, "Check-in", booking.CheckInDate)
	line(pdf, "Check-out", booking.CheckOutDate)
	line(pdf, "Room", strconv.Itoa(booking.RoomNumber))
	line(pdf, "Guests", fmt.Sprintf("%d (%s occupancy)", booking.Guest, booking.OccupancyType))

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 145, top+5, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetXY(pageMargin, top+70)
	sectionTitle(pdf, "GUEST")
	line(pdf, "Name", booking.Name)
	line(pdf, "Email", booking.Email)
	line(pdf, "Phone", booking.Phone)

	pdf.Ln(4)
	sectionTitle(pdf, "PAYMENT")
	line(pdf, "Package price", booking.PackagePrice.String())
	line(pdf, "Discount", booking.Discount.String())
	line(pdf, "Total paid", booking.TotalPrice.String())
	line(pdf, "Season", booking.Season)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMargin, 280, pageRight, 280)
	pdf.SetY(283)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Present this voucher at check-in.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err = pdf.Output(&buf); err != nil {
		return File{}, fmt.Errorf("failed to render voucher: %w", err)
	}

	return File{
		Name:        "voucher-" + booking.ID + ".pdf",
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}

// Report renders bookings as a CSV sheet or a landscape PDF table.
func Report(format, title string, bookings []dto.BookingResponse, generatedAt time.Time) (File, error) {
	name := fmt.Sprintf("bookings-%s.%s", generatedAt.UTC().Format("20060102T150405Z"), format)

	switch format {
	case FormatCSV:
		content, err := reportCSV(bookings)
		if err != nil {
			return File{}, err
		}

		return File{Name: name, ContentType: ContentTypeCSV, Content: content}, nil
	case FormatPDF:
		content, err := reportPDF(title, bookings, generatedAt)
		if err != nil {
			return File{}, err
		}

		return File{Name: name, ContentType: ContentTypePDF, Content: content}, nil
	default:
		return File{}, fmt.Errorf("unsupported report format %q", format)
	}
}

func reportCSV(bookings []dto.BookingResponse) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for _, b := range bookings {
		record := []string{
			b.ID, b.Name, b.Email, b.Phone, b.PackageType, b.CheckInDate, b.CheckOutDate,
			strconv.Itoa(b.Guest), strconv.Itoa(b.RoomNumber), b.Season,
			money(b.PackagePrice.Float()), money(b.Discount.Float()), money(b.TotalPrice.Float()), b.PaymentID,
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}

	return buf.Bytes(), nil
}

func reportPDF(title string, bookings []dto.BookingResponse, generatedAt time.Time) ([]byte, error) {
	columns := []struct {
		header string
		width  float64
	}{
		{"Check-in", 24}, {"Check-out", 24}, {"Room", 14}, {"Package", 58},
		{"Guest", 50}, {"Guests", 16}, {"Season", 24}, {"Total", 30},
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(240, 240, 240)

		for _, col := range columns {
			pdf.CellFormat(col.width, 7, col.header, "1", 0, "L", true, 0, "")
		}

		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d bookings", generatedAt.UTC().Format(time.RFC3339), len(bookings)))
	pdf.Ln(10)

	header()

	for _, b := range bookings {
		values := []string{
			b.CheckInDate, b.CheckOutDate, strconv.Itoa(b.RoomNumber), b.PackageType,
			b.Name, strconv.Itoa(b.Guest), b.Season, b.TotalPrice.String(),
		}

		for i, col := range columns {
			pdf.CellFormat(col.width, 6, values[i], "1", 0, "L", false, 0, "")
		}

		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	x := pdf.GetX()

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s: %s", label, value))
	pdf.Ln(6)
	pdf.SetX(x)
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"resort/config"
	"resort/infras/otel"
	"resort/infras/s3"
	bookingDto "resort/internal/domains/booking/model/dto"
	bookingService "resort/internal/domains/booking/service"
	"resort/internal/domains/document"
	"resort/internal/domains/document/model/dto"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	reportDirectory = "reports"
	reportMaxRows   = 5000
	reportTitle     = "Bookings"
)

type Document interface {
	Voucher(ctx context.Context, bookingID string) (document.File, error)
	// Report renders the bookings of a date range and stores the file in the bucket.
	Report(ctx context.Context, req dto.ReportRequest) (dto.ReportResponse, error)
}

type serviceImpl struct {
	bookings bookingService.Booking
	s3       s3.S3
	cfg      *config.Config
	otel     otel.Otel
}

func New(bookings bookingService.Booking, s3 s3.S3, cfg *config.Config, otel otel.Otel) Document {
	return &serviceImpl{
		bookings: bookings,
		s3:       s3,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Voucher(ctx context.Context, bookingID string) (file document.File, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".document.Voucher")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return file, err //nolint:wrapcheck
	}

	file, err = document.Voucher(s.resortName(), booking)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to render voucher")

		return file, err //nolint:wrapcheck
	}

	return file, nil
}

func (s *serviceImpl) Report(ctx context.Context, req dto.ReportRequest) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".document.Report")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter, err := bookingDto.ListRequest{From: req.From, To: req.To}.Filter()
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	params := gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   reportMaxRows,
		SortBy:  "check_in_date",
		SortDir: gDto.SortDirAsc,
	}

	bookings, err := s.bookings.GetAll(ctx, params, filter)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if bookings.TotalData > len(bookings.Bookings) {
		log.Warn().Int("total", bookings.TotalData).Int("rows", len(bookings.Bookings)).Msg("booking report truncated")
	}

	file, err := document.Report(req.Format, reportTitle, bookings.Bookings, timezone.Now())
	if err != nil {
		log.Error().Err(err).Str("format", req.Format).Msg("failed to render booking report")

		return res, err //nolint:wrapcheck
	}

	url, err := s.s3.UploadFileBytes(ctx, constant.Empty, reportDirectory, file.Name, file.ContentType, file.Content)
	if err != nil {
		log.Error().Err(err).Str("file", file.Name).Msg("failed to upload booking report")

		return res, fmt.Errorf("failed to upload booking report: %w", err)
	}

	res = dto.ReportResponse{
		URL:      url,
		Format:   req.Format,
		Bookings: len(bookings.Bookings),
	}

	return res, nil
}

func (s *serviceImpl) resortName() string {
	if s.cfg.App.Name != "" {
		return s.cfg.App.Name
	}

	return "Ayurveda Resort"
}

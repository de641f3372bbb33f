package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"resort/config"
	"resort/infras/metrics"
	"resort/infras/otel"
	"resort/internal/domains/availability"
	"resort/internal/domains/availability/model/dto"
	bookingModel "resort/internal/domains/booking/model"
	bookingRepo "resort/internal/domains/booking/repository"
	"resort/internal/domains/resort"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/timezone"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheCheck            = availability.CachePrefix + "check"
	cacheUnavailableDates = availability.CachePrefix + "unavailable"

	defaultHorizonMonths = 12
)

type Availability interface {
	Check(ctx context.Context, req dto.CheckRequest) (dto.CheckResponse, error)
	AvailableRooms(ctx context.Context, req dto.RoomsRequest) (dto.RoomsResponse, error)
	UnavailableDates(ctx context.Context, req dto.UnavailableDatesRequest) (dto.UnavailableDatesResponse, error)
	// IsRoomFree is an advisory check; the commit re-checks under a room lock.
	IsRoomFree(ctx context.Context, room int, interval availability.Interval) (bool, error)
}

type serviceImpl struct {
	repo    bookingRepo.Booking
	catalog *resort.Catalog
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo bookingRepo.Booking, catalog *resort.Catalog, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:    repo,
		catalog: catalog,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Check(ctx context.Context, req dto.CheckRequest) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Check")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, err := parseDate("checkInDate", req.CheckInDate)
	if err != nil {
		return res, err
	}

	if err = s.validDuration(req.PackageDuration); err != nil {
		return res, err
	}

	interval := availability.ForDuration(checkIn, req.PackageDuration)
	cacheKey := shared.BuildCacheKey(cacheCheck, s.generation(ctx), req.CheckInDate, strconv.Itoa(req.PackageDuration))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability check")
		metrics.AvailabilityChecks.WithLabelValues(strconv.FormatBool(res.Available)).Inc()

		return res, nil
	}

	free, err := s.freeRooms(ctx, interval)
	if err != nil {
		return res, err
	}

	res = dto.CheckResponse{
		Available:      len(free) > 0,
		AvailableCount: len(free),
		CheckInDate:    interval.CheckIn.Format(constant.DateOnlyFormat),
		CheckOutDate:   interval.CheckOut.Format(constant.DateOnlyFormat),
		AvailableRooms: free,
	}

	metrics.AvailabilityChecks.WithLabelValues(strconv.FormatBool(res.Available)).Inc()
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) AvailableRooms(ctx context.Context, req dto.RoomsRequest) (res dto.RoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.AvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, err := parseDate("checkInDate", req.CheckInDate)
	if err != nil {
		return res, err
	}

	checkOut, err := parseDate("checkOutDate", req.CheckOutDate)
	if err != nil {
		return res, err
	}

	interval, err := availability.Between(checkIn, checkOut)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	res.AvailableRooms, err = s.freeRooms(ctx, interval)

	return res, err
}

// UnavailableDates lists check-in dates, from today through the configured horizon, on which
// no room is free for a stay of the requested length.
func (s *serviceImpl) UnavailableDates(ctx context.Context, req dto.UnavailableDatesRequest) (res dto.UnavailableDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.UnavailableDates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.validDuration(req.PackageDuration); err != nil {
		return res, err
	}

	today := availability.Day(timezone.Today())
	until := today.AddDate(0, s.horizonMonths(), 0)
	cacheKey := shared.BuildCacheKey(cacheUnavailableDates, s.generation(ctx), strconv.Itoa(req.PackageDuration), today.Format(constant.DateOnlyFormat))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for unavailable dates")

		return res, nil
	}

	window := availability.Interval{CheckIn: today, CheckOut: until.AddDate(0, 0, req.PackageDuration)}

	bookings, err := s.repo.FindOverlapping(ctx, window, 0, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for unavailable dates")

		return res, fmt.Errorf("failed to load bookings: %w", err)
	}

	dates := availability.FullyBookedDates(s.catalog.Rooms(), bookingModel.Stays(bookings), today, until, req.PackageDuration)

	res.UnavailableDates = make([]string, len(dates))
	for i, date := range dates {
		res.UnavailableDates[i] = date.Format(constant.DateOnlyFormat)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) IsRoomFree(ctx context.Context, room int, interval availability.Interval) (free bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.IsRoomFree")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err := s.repo.FindOverlapping(ctx, interval, room, constant.Empty)
	if err != nil {
		log.Error().Err(err).Int("room", room).Msg("failed to check room availability")

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return availability.IsRoomFree(room, bookingModel.Stays(bookings), interval), nil
}

func (s *serviceImpl) freeRooms(ctx context.Context, interval availability.Interval) ([]int, error) {
	bookings, err := s.repo.FindOverlapping(ctx, interval, 0, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return availability.FreeRooms(s.catalog.Rooms(), bookingModel.Stays(bookings), interval), nil
}

func (s *serviceImpl) validDuration(days int) error {
	if s.catalog.ValidDuration(days) {
		return nil
	}

	durations := s.catalog.Durations()
	values := make([]string, len(durations))

	for i, d := range durations {
		values[i] = strconv.Itoa(d)
	}

	return failure.BadRequestFromString( //nolint:wrapcheck
		fmt.Sprintf("packageDuration must be one of %s", strings.Join(values, ", ")))
}

func (s *serviceImpl) horizonMonths() int {
	if s.cfg.Resort.UnavailableHorizonMonths > 0 {
		return s.cfg.Resort.UnavailableHorizonMonths
	}

	return defaultHorizonMonths
}

// generation returns the current availability cache token, "0" before the first booking write.
func (s *serviceImpl) generation(ctx context.Context) string {
	var token string
	if err := s.cache.Get(ctx, availability.GenerationKey, &token); err != nil || token == "" {
		return "0"
	}

	return token
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save availability to cache")
	}
}

func parseDate(field, value string) (time.Time, error) {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)) //nolint:wrapcheck
	}

	return date, nil
}

package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/availability"
	"resort/internal/domains/booking/model"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/logger"
	gRepo "resort/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

// bookingLockNamespace keys the per-room advisory locks taken by booking writes.
const bookingLockNamespace = 7301

const (
	queryLockRoom = `SELECT pg_advisory_xact_lock($1, $2)`

	queryRoomConflict = `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_number = $1
			AND check_in_date < $2::date
			AND check_out_date > $3::date
			AND ($4::text = '' OR id::text <> $4::text)
	)`
)

// TxFunc runs additional writes inside the transaction of a booking write.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	FindOverlapping(ctx context.Context, interval availability.Interval, room int, excludeID string) ([]model.Booking, error)
	Commit(ctx context.Context, booking model.Booking, within TxFunc) error
	Reschedule(ctx context.Context, booking model.Booking, within TxFunc) error
	Remove(ctx context.Context, id string, within TxFunc) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OverlapFilter matches bookings whose stay overlaps interval, optionally limited to one
// room (room > 0) and excluding one booking id.
func OverlapFilter(interval availability.Interval, room int, excludeID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "interval_check_out",
				Field:    model.FieldCheckInDate,
				Operator: gDto.FilterOperatorLess,
				Value:    interval.CheckOut.Format(time.DateOnly),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "interval_check_in",
				Field:    model.FieldCheckOutDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    interval.CheckIn.Format(time.DateOnly),
				Table:    model.TableName,
			},
		},
	}

	if room > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    room,
			Table:    model.TableName,
		})
	}

	if excludeID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
		})
	}

	return filter
}

func (r *repositoryImpl) FindOverlapping(ctx context.Context, interval availability.Interval, room int, excludeID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldRoomNumber, SortDir: gDto.SortDirAsc}

	bookings, err := r.GetAll(ctx, params, OverlapFilter(interval, room, excludeID),
		model.FieldID, model.FieldRoomNumber, model.FieldCheckInDate, model.FieldCheckOutDate)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return bookings, nil
}

// lockRoom serialises booking writes for one room until the transaction ends.
func (r *repositoryImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, room int) error {
	if _, err := tx.ExecContext(ctx, queryLockRoom, bookingLockNamespace, room); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room %d: %w", room, err)
	}

	return nil
}

func (r *repositoryImpl) hasConflict(ctx context.Context, tx *sqlx.Tx, booking model.Booking, excludeID string) (bool, error) {
	interval := booking.Interval()

	var conflict bool

	err := tx.GetContext(ctx, &conflict, queryRoomConflict,
		booking.RoomNumber, interval.CheckOut.Format(time.DateOnly), interval.CheckIn.Format(time.DateOnly), excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check room conflict: %w", err)
	}

	return conflict, nil
}

// Commit inserts a booking after re-checking, under the room lock, that no other booking
// overlaps it. The exclusion constraint on bookings backs the check.
func (r *repositoryImpl) Commit(ctx context.Context, booking model.Booking, within TxFunc) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Commit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"booking.id":   booking.ID,
		"booking.room": booking.RoomNumber,
	})

	err = r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockRoom(ctx, tx, booking.RoomNumber); err != nil {
			return err
		}

		conflict, err := r.hasConflict(ctx, tx, booking, "")
		if err != nil {
			return err
		}

		if conflict {
			return model.ErrRoomConflict
		}

		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		if within != nil {
			return within(ctx, tx)
		}

		return nil
	})

	return mapConflict(err)
}

// Reschedule rewrites a booking, re-checking its room against every other booking.
func (r *repositoryImpl) Reschedule(ctx context.Context, booking model.Booking, within TxFunc) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reschedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockRoom(ctx, tx, booking.RoomNumber); err != nil {
			return err
		}

		conflict, err := r.hasConflict(ctx, tx, booking, booking.ID)
		if err != nil {
			return err
		}

		if conflict {
			return model.ErrRoomConflict
		}

		fields := map[string]any{
			model.FieldName:            booking.Name,
			model.FieldEmail:           booking.Email,
			model.FieldPhone:           booking.Phone,
			model.FieldPackageType:     booking.PackageType,
			model.FieldPackageDuration: booking.PackageDuration,
			model.FieldCheckInDate:     booking.CheckInDate,
			model.FieldCheckOutDate:    booking.CheckOutDate,
			model.FieldGuest:           booking.Guest,
			model.FieldRoomNumber:      booking.RoomNumber,
			model.FieldPackagePrice:    booking.PackagePrice,
			model.FieldRoomPrice:       booking.RoomPrice,
			model.FieldDiscount:        booking.Discount,
			model.FieldTotalPrice:      booking.TotalPrice,
			model.FieldOccupancyType:   booking.OccupancyType,
			model.FieldSeason:          booking.Season,
			model.FieldCatalogVersion:  booking.CatalogVersion,
			constant.FieldModifiedAt:   booking.ModifiedAt,
			constant.FieldModifiedBy:   booking.ModifiedBy,
		}

		if err := r.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		if within != nil {
			return within(ctx, tx)
		}

		return nil
	})

	return mapConflict(err)
}

func (r *repositoryImpl) Remove(ctx context.Context, id string, within TxFunc) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Remove")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		if err := r.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		if within != nil {
			return within(ctx, tx)
		}

		return nil
	})
}

func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, model.ErrRoomConflict) {
		return err
	}

	if gRepo.IsPqError(err, constant.PqErrorCodeExclusionViolation) {
		return fmt.Errorf("%w: %w", model.ErrRoomConflict, err)
	}

	return err
}

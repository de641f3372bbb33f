package model

import (
	"errors"
	"resort/internal/domains/availability"
	"resort/internal/domains/resort"
	"resort/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPackageType     = "package_type"
	FieldPackageDuration = "package_duration"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldGuest           = "guest"
	FieldRoomNumber      = "room_number"
	FieldPackagePrice    = "package_price"
	FieldRoomPrice       = "room_price"
	FieldDiscount        = "discount"
	FieldTotalPrice      = "total_price"
	FieldOccupancyType   = "occupancy_type"
	FieldSeason          = "season"
	FieldPaymentID       = "payment_id"
	FieldCatalogVersion  = "catalog_version"
)

const (
	EventCreated   = "booking.created"
	EventUpdated   = "booking.updated"
	EventCancelled = "booking.cancelled"
)

// ErrRoomConflict is returned by writes that would double-book a room.
var ErrRoomConflict = errors.New("room is no longer available for the selected dates")

type Booking struct {
	ID              string       `db:"id"`
	Name            string       `db:"name"`
	Email           string       `db:"email"`
	Phone           string       `db:"phone"`
	PackageType     string       `db:"package_type"`
	PackageDuration int          `db:"package_duration"`
	CheckInDate     time.Time    `db:"check_in_date"`
	CheckOutDate    time.Time    `db:"check_out_date"`
	Guest           int          `db:"guest"`
	RoomNumber      int          `db:"room_number"`
	PackagePrice    resort.Money `db:"package_price"`
	RoomPrice       resort.Money `db:"room_price"`
	Discount        resort.Money `db:"discount"`
	TotalPrice      resort.Money `db:"total_price"`
	OccupancyType   string       `db:"occupancy_type"`
	Season          string       `db:"season"`
	PaymentID       string       `db:"payment_id"`
	CatalogVersion  string       `db:"catalog_version"`
	model.Metadata
}

func (b Booking) Interval() availability.Interval {
	return availability.Interval{
		CheckIn:  availability.Day(b.CheckInDate),
		CheckOut: availability.Day(b.CheckOutDate),
	}
}

func (b Booking) Stay() availability.Stay {
	return availability.Stay{Room: b.RoomNumber, Interval: b.Interval()}
}

func Stays(bookings []Booking) []availability.Stay {
	stays := make([]availability.Stay, len(bookings))
	for i, booking := range bookings {
		stays[i] = booking.Stay()
	}

	return stays
}

// Event is the payload published for booking lifecycle changes.
type Event struct {
	BookingID    string       `json:"bookingId"`
	Type         string       `json:"type"`
	RoomNumber   int          `json:"roomNumber"`
	PackageType  string       `json:"packageType"`
	CheckInDate  string       `json:"checkInDate"`
	CheckOutDate string       `json:"checkOutDate"`
	Guest        int          `json:"guest"`
	TotalPrice   resort.Money `json:"totalPrice"`
	Email        string       `json:"email"`
	PaymentID    string       `json:"paymentId,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

func (b Booking) Event(eventType string, occurredAt time.Time) Event {
	return Event{
		BookingID:    b.ID,
		Type:         eventType,
		RoomNumber:   b.RoomNumber,
		PackageType:  b.PackageType,
		CheckInDate:  b.CheckInDate.Format(time.DateOnly),
		CheckOutDate: b.CheckOutDate.Format(time.DateOnly),
		Guest:        b.Guest,
		TotalPrice:   b.TotalPrice,
		Email:        b.Email,
		PaymentID:    b.PaymentID,
		OccurredAt:   occurredAt,
	}
}

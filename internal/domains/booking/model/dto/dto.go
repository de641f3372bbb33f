package dto

import (
	"net/http"
	"resort/internal/domains/booking/model"
	"resort/internal/domains/pricing"
	"resort/internal/domains/resort"
	"resort/shared"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"resort/shared/timezone"
	"strconv"
	"time"
)

const (
	QueryRoomNumber  = "b_roomNumber"
	QueryPackageType = "b_packageType"
	QueryEmail       = "b_email"
	QueryFrom        = "from"
	QueryTo          = "to"
)

// ListRequest narrows the booking list. From and To select stays overlapping [From, To).
type ListRequest struct {
	RoomNumber  string
	PackageType string
	Email       string
	From        string
	To          string
}

func (r *ListRequest) FromRequest(request *http.Request) {
	query := request.URL.Query()

	r.RoomNumber = query.Get(QueryRoomNumber)
	r.PackageType = query.Get(QueryPackageType)
	r.Email = query.Get(QueryEmail)
	r.From = query.Get(QueryFrom)
	r.To = query.Get(QueryTo)
}

func (r ListRequest) Filter() (gDto.FilterGroup, error) {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if r.RoomNumber != "" {
		room, err := strconv.Atoi(r.RoomNumber)
		if err != nil {
			return filterGroup, failure.BadRequestFromString(QueryRoomNumber + " must be a number") //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomNumber,
			Operator: gDto.FilterOperatorEq,
			Value:    room,
			Table:    model.TableName,
		})
	}

	if r.PackageType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPackageType,
			Operator: gDto.FilterOperatorEq,
			Value:    r.PackageType,
			Table:    model.TableName,
		})
	}

	if r.Email != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldEmail,
			Operator: gDto.FilterOperatorLike,
			Value:    r.Email,
			Table:    model.TableName,
		})
	}

	if r.From != "" {
		from, err := timezone.ParseDate(r.From)
		if err != nil {
			return filterGroup, failure.BadRequestFromString(QueryFrom + " must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "list_from",
			Field:    model.FieldCheckOutDate,
			Operator: gDto.FilterOperatorGreater,
			Value:    from.Format(time.DateOnly),
			Table:    model.TableName,
		})
	}

	if r.To != "" {
		to, err := timezone.ParseDate(r.To)
		if err != nil {
			return filterGroup, failure.BadRequestFromString(QueryTo + " must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "list_to",
			Field:    model.FieldCheckInDate,
			Operator: gDto.FilterOperatorLess,
			Value:    to.Format(time.DateOnly),
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// Draft is a booking as submitted at checkout, before payment confirmation.
type Draft struct {
	Name            string `json:"b_name"            validate:"required,max=100"`
	Email           string `json:"b_email"           validate:"required,email,max=100"`
	Phone           string `json:"b_phone"           validate:"required,max=20"`
	PackageType     string `json:"b_packageType"     validate:"required"`
	PackageDuration int    `json:"b_packageDuration" validate:"omitempty,gt=0"`
	CheckInDate     string `json:"b_checkInDate"     validate:"required,isodate"`
	Guest           int    `json:"b_guest"           validate:"required,gt=0"`
	RoomNumber      int    `json:"b_roomNumber"      validate:"required,gt=0"`
}

type CommitRequest struct {
	PaymentID string `json:"payment_id" validate:"required,uuid"`
}

// UpdateBookingRequest changes contact details directly; stay fields are re-priced and
// re-checked against other bookings.
type UpdateBookingRequest struct {
	Name        string `db:"name"  json:"b_name"        validate:"omitempty,max=100"`
	Email       string `db:"email" json:"b_email"       validate:"omitempty,email,max=100"`
	Phone       string `db:"phone" json:"b_phone"       validate:"omitempty,max=20"`
	PackageType string `json:"b_packageType" validate:"omitempty"`
	CheckInDate string `json:"b_checkInDate" validate:"omitempty,isodate"`
	Guest       int    `json:"b_guest"       validate:"omitempty,gt=0"`
	RoomNumber  int    `json:"b_roomNumber"  validate:"omitempty,gt=0"`
}

// ChangesStay reports whether the request touches package, dates, guests or room.
func (r UpdateBookingRequest) ChangesStay() bool {
	return r.PackageType != "" || r.CheckInDate != "" || r.Guest != 0 || r.RoomNumber != 0
}

// Apply merges the request into the draft of an existing booking.
func (r UpdateBookingRequest) Apply(draft Draft) Draft {
	if r.Name != "" {
		draft.Name = r.Name
	}

	if r.Email != "" {
		draft.Email = r.Email
	}

	if r.Phone != "" {
		draft.Phone = r.Phone
	}

	if r.PackageType != "" {
		draft.PackageType = r.PackageType
		draft.PackageDuration = 0
	}

	if r.CheckInDate != "" {
		draft.CheckInDate = r.CheckInDate
	}

	if r.Guest != 0 {
		draft.Guest = r.Guest
	}

	if r.RoomNumber != 0 {
		draft.RoomNumber = r.RoomNumber
	}

	return draft
}

// DraftFromModel rebuilds the draft a stored booking was created from.
func DraftFromModel(booking model.Booking) Draft {
	return Draft{
		Name:            booking.Name,
		Email:           booking.Email,
		Phone:           booking.Phone,
		PackageType:     booking.PackageType,
		PackageDuration: booking.PackageDuration,
		CheckInDate:     booking.CheckInDate.Format(time.DateOnly),
		Guest:           booking.Guest,
		RoomNumber:      booking.RoomNumber,
	}
}

// ApplyQuote copies the priced stay onto a booking.
func ApplyQuote(booking *model.Booking, draft Draft, quote pricing.Quote, checkIn, checkOut time.Time) {
	booking.Name = draft.Name
	booking.Email = draft.Email
	booking.Phone = draft.Phone
	booking.PackageType = quote.PackageType
	booking.PackageDuration = quote.Duration
	booking.CheckInDate = checkIn
	booking.CheckOutDate = checkOut
	booking.Guest = quote.GuestCount
	booking.RoomNumber = draft.RoomNumber
	booking.PackagePrice = quote.PackagePrice
	booking.RoomPrice = quote.RoomPrice
	booking.Discount = quote.Discount
	booking.TotalPrice = quote.TotalPrice
	booking.OccupancyType = quote.OccupancyType
	booking.Season = string(quote.Season)
	booking.CatalogVersion = quote.CatalogVersion
}

type BookingResponse struct {
	ID              string       `json:"id"`
	Name            string       `json:"b_name"`
	Email           string       `json:"b_email"`
	Phone           string       `json:"b_phone"`
	PackageType     string       `json:"b_packageType"`
	PackageDuration int          `json:"b_packageDuration"`
	CheckInDate     string       `json:"b_checkInDate"`
	CheckOutDate    string       `json:"b_checkOutDate"`
	Guest           int          `json:"b_guest"`
	RoomNumber      int          `json:"b_roomNumber"`
	PackagePrice    resort.Money `json:"b_packagePrice"`
	RoomPrice       resort.Money `json:"b_roomPrice"`
	Discount        resort.Money `json:"b_discount"`
	TotalPrice      resort.Money `json:"b_totalPrice"`
	OccupancyType   string       `json:"b_occupancyType"`
	Season          string       `json:"season"`
	PaymentID       string       `json:"payment_id"`
	CatalogVersion  string       `json:"catalog_version"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.PackageType = model.PackageType
	r.PackageDuration = model.PackageDuration
	r.CheckInDate = model.CheckInDate.Format(time.DateOnly)
	r.CheckOutDate = model.CheckOutDate.Format(time.DateOnly)
	r.Guest = model.Guest
	r.RoomNumber = model.RoomNumber
	r.PackagePrice = model.PackagePrice
	r.RoomPrice = model.RoomPrice
	r.Discount = model.Discount
	r.TotalPrice = model.TotalPrice
	r.OccupancyType = model.OccupancyType
	r.Season = model.Season
	r.PaymentID = model.PaymentID
	r.CatalogVersion = model.CatalogVersion
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

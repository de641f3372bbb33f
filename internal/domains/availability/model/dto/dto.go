package dto

import (
	"fmt"
	"net/http"
	"resort/shared"
	"resort/shared/failure"
	"resort/shared/validator"
)

const (
	QueryCheckInDate     = "checkInDate"
	QueryCheckOutDate    = "checkOutDate"
	QueryPackageDuration = "packageDuration"
)

type CheckRequest struct {
	CheckInDate     string `json:"checkInDate"     validate:"required,isodate"`
	PackageDuration int    `json:"packageDuration" validate:"required,gt=0"`
}

func (r *CheckRequest) FromRequest(req *http.Request) error {
	query := req.URL.Query()
	r.CheckInDate = query.Get(QueryCheckInDate)

	duration, err := durationParam(query.Get(QueryPackageDuration))
	if err != nil {
		return err
	}

	r.PackageDuration = duration

	return validator.ValidateStruct(r)
}

type CheckResponse struct {
	Available      bool   `json:"available"`
	AvailableCount int    `json:"availableCount"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	AvailableRooms []int  `json:"availableRooms"`
}

type RoomsRequest struct {
	CheckInDate  string `json:"checkInDate"  validate:"required,isodate"`
	CheckOutDate string `json:"checkOutDate" validate:"required,isodate"`
}

func (r *RoomsRequest) FromRequest(req *http.Request) error {
	query := req.URL.Query()
	r.CheckInDate = query.Get(QueryCheckInDate)
	r.CheckOutDate = query.Get(QueryCheckOutDate)

	return validator.ValidateStruct(r)
}

type RoomsResponse struct {
	AvailableRooms []int `json:"availableRooms"`
}

type UnavailableDatesRequest struct {
	PackageDuration int `json:"packageDuration" validate:"required,gt=0"`
}

func (r *UnavailableDatesRequest) FromRequest(req *http.Request) error {
	duration, err := durationParam(req.URL.Query().Get(QueryPackageDuration))
	if err != nil {
		return err
	}

	r.PackageDuration = duration

	return validator.ValidateStruct(r)
}

type UnavailableDatesResponse struct {
	UnavailableDates []string `json:"unavailableDates"`
}

func durationParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	value := shared.ConvertStringToInt(raw)
	if value == nil {
		return 0, failure.BadRequestFromString(fmt.Sprintf("%s must be an integer", QueryPackageDuration)) //nolint:wrapcheck
	}

	return *value, nil
}

package dto

import (
	"fmt"
	"net/http"
	"resort/internal/domains/pricing"
	"resort/shared"
	"resort/shared/failure"
	"resort/shared/timezone"
	"resort/shared/validator"
)

const (
	QueryPackageType = "packageType"
	QueryDuration    = "duration"
	QueryGuestCount  = "guestCount"
	QueryCheckInDate = "checkInDate"
)

type QuoteRequest struct {
	PackageType string `json:"packageType" validate:"required"`
	Duration    int    `json:"duration"    validate:"required,gt=0"`
	GuestCount  int    `json:"guestCount"  validate:"required,gt=0"`
	CheckInDate string `json:"checkInDate" validate:"omitempty,isodate"`
}

// FromRequest reads the quote from query parameters and validates it.
func (r *QuoteRequest) FromRequest(req *http.Request) error {
	query := req.URL.Query()

	r.PackageType = query.Get(QueryPackageType)
	r.CheckInDate = query.Get(QueryCheckInDate)

	integers := []struct {
		name   string
		target *int
	}{
		{QueryDuration, &r.Duration},
		{QueryGuestCount, &r.GuestCount},
	}

	for _, field := range integers {
		name, target := field.name, field.target

		raw := query.Get(name)
		if raw == "" {
			continue
		}

		value := shared.ConvertStringToInt(raw)
		if value == nil {
			return failure.BadRequestFromString(fmt.Sprintf("%s must be an integer", name)) //nolint:wrapcheck
		}

		*target = *value
	}

	return validator.ValidateStruct(r)
}

func (r QuoteRequest) ToInput() (pricing.Input, error) {
	in := pricing.Input{
		PackageType: r.PackageType,
		Duration:    r.Duration,
		GuestCount:  r.GuestCount,
	}

	if r.CheckInDate != "" {
		checkIn, err := timezone.ParseDate(r.CheckInDate)
		if err != nil {
			return in, failure.BadRequestFromString("checkInDate must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		in.CheckIn = &checkIn
	}

	return in, nil
}

type QuoteResponse struct {
	Pricing pricing.Quote `json:"pricing"`
}

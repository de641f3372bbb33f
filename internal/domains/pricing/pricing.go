// Package pricing computes the price of a resort package stay.
package pricing

import (
	"fmt"
	"resort/internal/domains/availability"
	"resort/internal/domains/resort"
	"resort/shared/failure"
	"time"
)

// Input describes a stay to be priced. CheckIn is optional.
type Input struct {
	PackageType string
	Duration    int
	GuestCount  int
	CheckIn     *time.Time
}

type Quote struct {
	PackageType    string       `json:"packageType"`
	Duration       int          `json:"duration"`
	GuestCount     int          `json:"guestCount"`
	PackagePrice   resort.Money `json:"packagePrice"`
	RoomPrice      resort.Money `json:"roomPrice"`
	Discount       resort.Money `json:"discount"`
	TotalPrice     resort.Money `json:"totalPrice"`
	Season         resort.Tier  `json:"season"`
	CheckInDate    string       `json:"checkInDate,omitempty"`
	CheckOutDate   string       `json:"checkOutDate"`
	OccupancyType  string       `json:"occupancyType"`
	CatalogVersion string       `json:"catalogVersion"`
}

// Calculate prices a package stay against the catalog. It has no side effects: the same
// catalog and input always produce the same quote.
func Calculate(catalog *resort.Catalog, in Input) (Quote, error) {
	if in.PackageType == "" {
		return Quote{}, failure.BadRequestFromString("packageType is required") //nolint:wrapcheck
	}

	pkg, ok := catalog.Package(in.PackageType)
	if !ok {
		return Quote{}, failure.NotFound("package not found") //nolint:wrapcheck
	}

	if in.Duration != pkg.DurationDays {
		return Quote{}, failure.BadRequestFromString( //nolint:wrapcheck
			fmt.Sprintf("duration %d does not match package %q (%d days)", in.Duration, pkg.Title, pkg.DurationDays))
	}

	if !catalog.ValidGuests(in.GuestCount) {
		return Quote{}, failure.BadRequestFromString( //nolint:wrapcheck
			fmt.Sprintf("guestCount must be between 1 and %d", catalog.GuestCap))
	}

	tier := catalog.TierFor(in.CheckIn)
	packagePrice := pkg.Price(tier)
	discount := catalog.Discount(packagePrice, in.GuestCount)

	var roomPrice resort.Money

	quote := Quote{
		PackageType:    pkg.Title,
		Duration:       pkg.DurationDays,
		GuestCount:     in.GuestCount,
		PackagePrice:   packagePrice,
		RoomPrice:      roomPrice,
		Discount:       discount,
		TotalPrice:     packagePrice + roomPrice - discount,
		Season:         tier,
		OccupancyType:  catalog.OccupancyType,
		CatalogVersion: catalog.Version,
	}

	if in.CheckIn != nil {
		interval := availability.ForDuration(*in.CheckIn, pkg.DurationDays)

		quote.CheckInDate = interval.CheckIn.Format(time.DateOnly)
		quote.CheckOutDate = interval.CheckOut.Format(time.DateOnly)
	}

	return quote, nil
}

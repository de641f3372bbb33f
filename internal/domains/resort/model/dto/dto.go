package dto

import "resort/internal/domains/resort"

type PackageResponse struct {
	Title          string       `json:"title"`
	DurationDays   int          `json:"durationDays"`
	SeasonPrice    resort.Money `json:"seasonPrice"`
	OffSeasonPrice resort.Money `json:"offSeasonPrice"`
}

type PackagesResponse struct {
	CatalogVersion string            `json:"catalogVersion"`
	OccupancyType  string            `json:"occupancyType"`
	DiscountRate   int               `json:"doubleOccupancyDiscountPercent"`
	Packages       []PackageResponse `json:"packages"`
}

func (r *PackagesResponse) FromCatalog(catalog *resort.Catalog) {
	r.CatalogVersion = catalog.Version
	r.OccupancyType = catalog.OccupancyType
	r.DiscountRate = catalog.DoubleOccupancyDiscountPercent

	r.Packages = make([]PackageResponse, len(catalog.Packages))
	for i, pkg := range catalog.Packages {
		r.Packages[i] = PackageResponse{
			Title:          pkg.Title,
			DurationDays:   pkg.DurationDays,
			SeasonPrice:    pkg.Price(resort.TierSeason),
			OffSeasonPrice: pkg.Price(resort.TierOffSeason),
		}
	}
}

type RoomsResponse struct {
	Rooms         []int  `json:"rooms"`
	RoomCount     int    `json:"roomCount"`
	GuestCap      int    `json:"guestCap"`
	OccupancyType string `json:"occupancyType"`
}

func (r *RoomsResponse) FromCatalog(catalog *resort.Catalog) {
	r.Rooms = catalog.Rooms()
	r.RoomCount = catalog.RoomCount
	r.GuestCap = catalog.GuestCap
	r.OccupancyType = catalog.OccupancyType
}

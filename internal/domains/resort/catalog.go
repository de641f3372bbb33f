// Package resort holds the static, versioned resort configuration: the room inventory,
// the guest cap, the package catalog with its season and off-season prices, and the
// double occupancy discount. Availability, pricing and booking all read from one Catalog.
package resort

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"resort/config"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed catalog.json
var catalogData []byte

var ErrInvalidCatalog = errors.New("invalid resort catalog")

type Tier string

const (
	TierSeason    Tier = "season"
	TierOffSeason Tier = "off-season"
)

const monthDayLayout = "01-02"

// SeasonRule maps an inclusive month-day window to a pricing tier. From may be later
// than To, in which case the window wraps the year end.
type SeasonRule struct {
	Tier Tier   `json:"tier"`
	From string `json:"from"`
	To   string `json:"to"`

	from time.Time
	to   time.Time
}

func (r *SeasonRule) contains(date time.Time) bool {
	day := time.Date(0, date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if !r.from.After(r.to) {
		return !day.Before(r.from) && !day.After(r.to)
	}

	return !day.Before(r.from) || !day.After(r.to)
}

type Package struct {
	Title          string `json:"title"`
	DurationDays   int    `json:"duration_days"`
	SeasonPrice    string `json:"season_price"`
	OffSeasonPrice string `json:"off_season_price"`

	seasonPrice    Money
	offSeasonPrice Money
}

// Price returns the base package price for the tier.
func (p Package) Price(tier Tier) Money {
	if tier == TierOffSeason {
		return p.offSeasonPrice
	}

	return p.seasonPrice
}

type Catalog struct {
	Version                        string       `json:"version"`
	RoomCount                      int          `json:"room_count"`
	GuestCap                       int          `json:"guest_cap"`
	OccupancyType                  string       `json:"occupancy_type"`
	DoubleOccupancyDiscountPercent int          `json:"double_occupancy_discount_percent"`
	DefaultTier                    Tier         `json:"default_tier"`
	Seasons                        []SeasonRule `json:"seasons"`
	Packages                       []Package    `json:"packages"`
}

// New loads the embedded catalog and applies the room count and guest cap overrides from cfg.
func New(cfg *config.Config) *Catalog {
	catalog, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load resort catalog")
	}

	if cfg.Resort.RoomCount > 0 {
		catalog.RoomCount = cfg.Resort.RoomCount
	}

	if cfg.Resort.GuestCap > 0 {
		catalog.GuestCap = cfg.Resort.GuestCap
	}

	log.Info().
		Str("version", catalog.Version).
		Int("rooms", catalog.RoomCount).
		Int("packages", len(catalog.Packages)).
		Msg("Resort catalog loaded")

	return catalog
}

// Load decodes and validates the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogData)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog

	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (c *Catalog) validate() error {
	if c.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidCatalog)
	}

	if c.RoomCount <= 0 {
		return fmt.Errorf("%w: room_count must be positive", ErrInvalidCatalog)
	}

	if c.GuestCap <= 0 {
		return fmt.Errorf("%w: guest_cap must be positive", ErrInvalidCatalog)
	}

	if c.DoubleOccupancyDiscountPercent < 0 || c.DoubleOccupancyDiscountPercent > 100 {
		return fmt.Errorf("%w: discount percent out of range", ErrInvalidCatalog)
	}

	if c.DefaultTier != TierSeason && c.DefaultTier != TierOffSeason {
		return fmt.Errorf("%w: unknown default tier %q", ErrInvalidCatalog, c.DefaultTier)
	}

	if len(c.Packages) == 0 {
		return fmt.Errorf("%w: at least one package is required", ErrInvalidCatalog)
	}

	for i := range c.Seasons {
		rule := &c.Seasons[i]

		if rule.Tier != TierSeason && rule.Tier != TierOffSeason {
			return fmt.Errorf("%w: unknown tier %q", ErrInvalidCatalog, rule.Tier)
		}

		from, err := time.Parse(monthDayLayout, rule.From)
		if err != nil {
			return fmt.Errorf("%w: season start %q: %w", ErrInvalidCatalog, rule.From, err)
		}

		to, err := time.Parse(monthDayLayout, rule.To)
		if err != nil {
			return fmt.Errorf("%w: season end %q: %w", ErrInvalidCatalog, rule.To, err)
		}

		rule.from, rule.to = from, to
	}

	titles := make(map[string]struct{}, len(c.Packages))

	for i := range c.Packages {
		pkg := &c.Packages[i]

		if pkg.Title == "" {
			return fmt.Errorf("%w: package title is required", ErrInvalidCatalog)
		}

		if _, ok := titles[pkg.Title]; ok {
			return fmt.Errorf("%w: duplicate package %q", ErrInvalidCatalog, pkg.Title)
		}

		titles[pkg.Title] = struct{}{}

		if pkg.DurationDays <= 0 {
			return fmt.Errorf("%w: package %q has non-positive duration", ErrInvalidCatalog, pkg.Title)
		}

		var err error

		if pkg.seasonPrice, err = ParsePrice(pkg.SeasonPrice); err != nil {
			return fmt.Errorf("%w: package %q: %w", ErrInvalidCatalog, pkg.Title, err)
		}

		if pkg.offSeasonPrice, err = ParsePrice(pkg.OffSeasonPrice); err != nil {
			return fmt.Errorf("%w: package %q: %w", ErrInvalidCatalog, pkg.Title, err)
		}
	}

	return nil
}

// Package looks up a package by its exact title.
func (c *Catalog) Package(title string) (Package, bool) {
	idx := slices.IndexFunc(c.Packages, func(p Package) bool {
		return p.Title == title
	})

	if idx == -1 {
		return Package{}, false
	}

	return c.Packages[idx], true
}

// PackageByDuration returns the first package of the given length.
func (c *Catalog) PackageByDuration(days int) (Package, bool) {
	idx := slices.IndexFunc(c.Packages, func(p Package) bool {
		return p.DurationDays == days
	})

	if idx == -1 {
		return Package{}, false
	}

	return c.Packages[idx], true
}

// Durations lists the distinct package lengths in ascending order.
func (c *Catalog) Durations() []int {
	durations := make([]int, 0, len(c.Packages))

	for _, pkg := range c.Packages {
		if !slices.Contains(durations, pkg.DurationDays) {
			durations = append(durations, pkg.DurationDays)
		}
	}

	slices.Sort(durations)

	return durations
}

func (c *Catalog) ValidDuration(days int) bool {
	return slices.Contains(c.Durations(), days)
}

// Rooms lists room numbers 1..RoomCount.
func (c *Catalog) Rooms() []int {
	rooms := make([]int, c.RoomCount)
	for i := range rooms {
		rooms[i] = i + 1
	}

	return rooms
}

func (c *Catalog) ValidRoom(room int) bool {
	return room >= 1 && room <= c.RoomCount
}

func (c *Catalog) ValidGuests(guests int) bool {
	return guests >= 1 && guests <= c.GuestCap
}

// TierFor resolves the pricing tier of a check-in date. The first matching season rule wins;
// a nil date or a date outside every rule uses the default tier.
func (c *Catalog) TierFor(date *time.Time) Tier {
	if date == nil {
		return c.DefaultTier
	}

	for i := range c.Seasons {
		if c.Seasons[i].contains(*date) {
			return c.Seasons[i].Tier
		}
	}

	return c.DefaultTier
}

// Discount returns the occupancy discount for a package price and guest count.
func (c *Catalog) Discount(price Money, guests int) Money {
	if guests != 2 {
		return 0
	}

	return price.Percent(c.DoubleOccupancyDiscountPercent)
}

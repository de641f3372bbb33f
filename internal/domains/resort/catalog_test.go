package resort_test

import (
	"resort/config"
	"resort/internal/domains/resort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) *time.Time {
	t.Helper()

	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)

	return &parsed
}

func TestLoad(t *testing.T) {
	catalog, err := resort.Load()
	require.NoError(t, err)

	assert.NotEmpty(t, catalog.Version)
	assert.Equal(t, 12, catalog.RoomCount)
	assert.Equal(t, 2, catalog.GuestCap)
	assert.Equal(t, "Double", catalog.OccupancyType)
	assert.Equal(t, 10, catalog.DoubleOccupancyDiscountPercent)
	assert.Equal(t, resort.TierSeason, catalog.DefaultTier)
	assert.Len(t, catalog.Packages, 5)
	assert.Equal(t, []int{3, 7, 10, 14, 21}, catalog.Durations())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, catalog.Rooms())
}

func TestCatalog_Package(t *testing.T) {
	catalog, err := resort.Load()
	require.NoError(t, err)

	pkg, ok := catalog.Package("7 Days Rejuvenation")
	require.True(t, ok)
	assert.Equal(t, 7, pkg.DurationDays)
	assert.Equal(t, resort.Money(95000), pkg.Price(resort.TierSeason))
	assert.Equal(t, resort.Money(80000), pkg.Price(resort.TierOffSeason))

	pkg, ok = catalog.Package("14 Days Wellness")
	require.True(t, ok)
	assert.Equal(t, resort.Money(180000), pkg.Price(resort.TierSeason))

	_, ok = catalog.Package("7 days rejuvenation")
	assert.False(t, ok)

	pkg, ok = catalog.PackageByDuration(21)
	require.True(t, ok)
	assert.Equal(t, "21 Days Detox & Healing", pkg.Title)

	_, ok = catalog.PackageByDuration(5)
	assert.False(t, ok)
}

func TestCatalog_Validators(t *testing.T) {
	catalog, err := resort.Load()
	require.NoError(t, err)

	assert.True(t, catalog.ValidRoom(1))
	assert.True(t, catalog.ValidRoom(12))
	assert.False(t, catalog.ValidRoom(0))
	assert.False(t, catalog.ValidRoom(13))

	assert.True(t, catalog.ValidGuests(1))
	assert.True(t, catalog.ValidGuests(2))
	assert.False(t, catalog.ValidGuests(0))
	assert.False(t, catalog.ValidGuests(3))

	assert.True(t, catalog.ValidDuration(10))
	assert.False(t, catalog.ValidDuration(0))
	assert.False(t, catalog.ValidDuration(-7))
}

func TestCatalog_Discount(t *testing.T) {
	catalog, err := resort.Load()
	require.NoError(t, err)

	assert.Equal(t, resort.Money(9500), catalog.Discount(95000, 2))
	assert.Equal(t, resort.Money(0), catalog.Discount(95000, 1))
}

func TestCatalog_TierFor(t *testing.T) {
	catalog, err := resort.Parse([]byte(`{
		"version": "test",
		"room_count": 12,
		"guest_cap": 2,
		"occupancy_type": "Double",
		"double_occupancy_discount_percent": 10,
		"default_tier": "season",
		"seasons": [
			{"tier": "off-season", "from": "05-01", "to": "09-30"},
			{"tier": "season", "from": "12-15", "to": "01-15"}
		],
		"packages": [{"title": "7 Days Rejuvenation", "duration_days": 7, "season_price": "$950", "off_season_price": "$800"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, resort.TierSeason, catalog.TierFor(nil))
	assert.Equal(t, resort.TierOffSeason, catalog.TierFor(date(t, "2025-05-01")))
	assert.Equal(t, resort.TierOffSeason, catalog.TierFor(date(t, "2025-09-30")))
	assert.Equal(t, resort.TierSeason, catalog.TierFor(date(t, "2025-10-01")))
	assert.Equal(t, resort.TierSeason, catalog.TierFor(date(t, "2025-12-31")))
	assert.Equal(t, resort.TierSeason, catalog.TierFor(date(t, "2026-01-02")))

	embedded, err := resort.Load()
	require.NoError(t, err)

	// no calendar configured: every date prices at the default tier
	assert.Equal(t, resort.TierSeason, embedded.TierFor(date(t, "2025-07-15")))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{`},
		{name: "missing version", data: `{"room_count": 12, "guest_cap": 2, "default_tier": "season", "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "zero rooms", data: `{"version": "v", "room_count": 0, "guest_cap": 2, "default_tier": "season", "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "zero guest cap", data: `{"version": "v", "room_count": 12, "guest_cap": 0, "default_tier": "season", "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "unknown tier", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "peak", "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "no packages", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "season", "packages": []}`},
		{name: "duplicate title", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "season", "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}, {"title": "a", "duration_days": 2, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "zero duration", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "season", "packages": [{"title": "a", "duration_days": 0, "season_price": "1", "off_season_price": "1"}]}`},
		{name: "bad price", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "season", "packages": [{"title": "a", "duration_days": 1, "season_price": "free", "off_season_price": "1"}]}`},
		{name: "bad season window", data: `{"version": "v", "room_count": 12, "guest_cap": 2, "default_tier": "season", "seasons": [{"tier": "season", "from": "13-01", "to": "01-01"}], "packages": [{"title": "a", "duration_days": 1, "season_price": "1", "off_season_price": "1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resort.Parse([]byte(tt.data))
			assert.ErrorIs(t, err, resort.ErrInvalidCatalog)
		})
	}
}

func TestNew_Overrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Resort.RoomCount = 4
	cfg.Resort.GuestCap = 3

	catalog := resort.New(cfg)

	assert.Equal(t, []int{1, 2, 3, 4}, catalog.Rooms())
	assert.True(t, catalog.ValidGuests(3))
}

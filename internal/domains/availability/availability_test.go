package availability_test

import (
	"resort/internal/domains/availability"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRooms = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

func day(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)

	return parsed
}

func stay(t *testing.T, room int, checkIn string, days int) availability.Stay {
	t.Helper()

	return availability.Stay{Room: room, Interval: availability.ForDuration(day(t, checkIn), days)}
}

func TestInterval_Overlaps(t *testing.T) {
	first := availability.ForDuration(day(t, "2025-07-10"), 7)

	tests := []struct {
		name  string
		other availability.Interval
		want  bool
	}{
		{name: "touching at check-out", other: availability.ForDuration(day(t, "2025-07-17"), 3), want: false},
		{name: "touching at check-in", other: availability.ForDuration(day(t, "2025-07-07"), 3), want: false},
		{name: "overlapping by one day at the end", other: availability.ForDuration(day(t, "2025-07-16"), 3), want: true},
		{name: "overlapping by one day at the start", other: availability.ForDuration(day(t, "2025-07-08"), 3), want: true},
		{name: "contained", other: availability.ForDuration(day(t, "2025-07-12"), 3), want: true},
		{name: "containing", other: availability.ForDuration(day(t, "2025-07-01"), 21), want: true},
		{name: "identical", other: first, want: true},
		{name: "disjoint", other: availability.ForDuration(day(t, "2025-08-01"), 7), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, first.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(first), "overlap must be symmetric")
		})
	}
}

func TestForDuration_CheckOutDerivation(t *testing.T) {
	tests := []struct {
		checkIn  string
		days     int
		checkOut string
	}{
		{checkIn: "2025-01-25", days: 10, checkOut: "2025-02-04"},
		{checkIn: "2025-06-01", days: 3, checkOut: "2025-06-04"},
		{checkIn: "2025-12-28", days: 7, checkOut: "2026-01-04"},
		{checkIn: "2024-02-25", days: 7, checkOut: "2024-03-03"},
		{checkIn: "2025-02-25", days: 7, checkOut: "2025-03-04"},
		{checkIn: "2025-03-28", days: 21, checkOut: "2025-04-18"},
	}

	for _, tt := range tests {
		t.Run(tt.checkIn, func(t *testing.T) {
			interval := availability.ForDuration(day(t, tt.checkIn), tt.days)

			assert.Equal(t, tt.checkOut, interval.CheckOut.Format(time.DateOnly))
			assert.Equal(t, tt.days, interval.Nights())
		})
	}
}

func TestDay_NormalisesTimezone(t *testing.T) {
	colombo := time.FixedZone("IST", 5*60*60+30*60)
	local := time.Date(2025, 8, 1, 0, 0, 0, 0, colombo)

	assert.True(t, availability.Day(local).Equal(day(t, "2025-08-01")))
}

func TestBetween(t *testing.T) {
	interval, err := availability.Between(day(t, "2025-08-01"), day(t, "2025-08-05"))
	require.NoError(t, err)
	assert.Equal(t, 4, interval.Nights())

	_, err = availability.Between(day(t, "2025-08-05"), day(t, "2025-08-05"))
	assert.ErrorIs(t, err, availability.ErrInvalidInterval)

	_, err = availability.Between(day(t, "2025-08-05"), day(t, "2025-08-01"))
	assert.ErrorIs(t, err, availability.ErrInvalidInterval)
}

func TestFreeRooms_NoBookings(t *testing.T) {
	for _, checkIn := range []string{"2025-06-01", "2020-01-01", "2030-12-31"} {
		for _, days := range []int{3, 7, 10, 14, 21} {
			free := availability.FreeRooms(allRooms, nil, availability.ForDuration(day(t, checkIn), days))

			assert.Equal(t, allRooms, free)
		}
	}
}

func TestFreeRooms_ExcludesOverlappingRooms(t *testing.T) {
	stays := []availability.Stay{
		stay(t, 4, "2025-08-01", 7),
		stay(t, 9, "2025-07-25", 7), // checks out on 2025-08-01
		stay(t, 2, "2025-08-07", 3),
		stay(t, 4, "2025-09-01", 7),
	}

	free := availability.FreeRooms(allRooms, stays, availability.ForDuration(day(t, "2025-08-01"), 7))

	assert.Equal(t, []int{1, 3, 5, 6, 7, 8, 9, 10, 11, 12}, free)
	assert.IsIncreasing(t, free)

	for _, room := range free {
		assert.True(t, availability.IsRoomFree(room, stays, availability.ForDuration(day(t, "2025-08-01"), 7)))
	}

	assert.False(t, availability.IsRoomFree(4, stays, availability.ForDuration(day(t, "2025-08-05"), 3)))
	assert.True(t, availability.IsRoomFree(4, stays, availability.ForDuration(day(t, "2025-08-08"), 3)))
}

func TestFreeRooms_FullyBooked(t *testing.T) {
	stays := make([]availability.Stay, 0, len(allRooms))
	for _, room := range allRooms {
		stays = append(stays, stay(t, room, "2025-07-10", 7))
	}

	free := availability.FreeRooms(allRooms, stays, availability.ForDuration(day(t, "2025-07-12"), 3))
	assert.Empty(t, free)

	free = availability.FreeRooms(allRooms, stays, availability.ForDuration(day(t, "2025-07-17"), 3))
	assert.Equal(t, allRooms, free)
}

func TestFullyBookedDates(t *testing.T) {
	stays := make([]availability.Stay, 0, len(allRooms))
	for _, room := range allRooms {
		stays = append(stays, stay(t, room, "2025-07-10", 7))
	}

	dates := availability.FullyBookedDates(allRooms, stays, day(t, "2025-07-01"), day(t, "2025-07-31"), 3)

	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = d.Format(time.DateOnly)
	}

	// any 3-night stay starting 2025-07-08..2025-07-16 touches the blocked week
	assert.Equal(t, []string{
		"2025-07-08", "2025-07-09", "2025-07-10", "2025-07-11", "2025-07-12",
		"2025-07-13", "2025-07-14", "2025-07-15", "2025-07-16",
	}, got)

	// one room left free keeps every date open
	assert.Empty(t, availability.FullyBookedDates(allRooms, stays[1:], day(t, "2025-07-01"), day(t, "2025-07-31"), 3))
}

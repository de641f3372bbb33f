// Package availability resolves which resort rooms are free for a stay.
//
// Stays are half-open calendar intervals [CheckIn, CheckOut): a guest checking out on a day
// does not block a guest checking in on that same day. All dates are normalised to midnight
// UTC of their calendar day so that values read from DATE columns and values parsed in the
// application timezone compare equal.
package availability

import (
	"errors"
	"slices"
	"time"
)

var ErrInvalidInterval = errors.New("check-out must be after check-in")

// CachePrefix namespaces every cached availability answer. Booking writes clear it.
const CachePrefix = "availability:"

// GenerationKey holds the token booking writes replace after clearing CachePrefix.
// Answers are cached under the token read before the query, so an answer computed
// before a write is never served after it.
const GenerationKey = "availability-generation"

const hoursPerDay = 24

type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Day truncates t to its calendar day, expressed at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ForDuration builds the stay starting at checkIn and lasting days nights.
func ForDuration(checkIn time.Time, days int) Interval {
	start := Day(checkIn)

	return Interval{CheckIn: start, CheckOut: start.AddDate(0, 0, days)}
}

// Between builds the stay [checkIn, checkOut).
func Between(checkIn, checkOut time.Time) (Interval, error) {
	interval := Interval{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}

	if !interval.CheckOut.After(interval.CheckIn) {
		return Interval{}, ErrInvalidInterval
	}

	return interval, nil
}

// Overlaps reports whether two half-open stays share at least one night.
func (i Interval) Overlaps(other Interval) bool {
	return i.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(i.CheckOut)
}

// Nights is the number of nights covered by the stay.
func (i Interval) Nights() int {
	return int(i.CheckOut.Sub(i.CheckIn).Hours() / hoursPerDay)
}

// Stay is an occupied room over an interval.
type Stay struct {
	Room int
	Interval
}

// FreeRooms returns the rooms, ascending, that no stay occupies during interval.
func FreeRooms(rooms []int, stays []Stay, interval Interval) []int {
	occupied := make(map[int]struct{}, len(stays))

	for _, stay := range stays {
		if stay.Overlaps(interval) {
			occupied[stay.Room] = struct{}{}
		}
	}

	free := make([]int, 0, len(rooms))

	for _, room := range rooms {
		if _, ok := occupied[room]; !ok {
			free = append(free, room)
		}
	}

	slices.Sort(free)

	return free
}

// IsRoomFree reports whether room has no stay overlapping interval.
func IsRoomFree(room int, stays []Stay, interval Interval) bool {
	return !slices.ContainsFunc(stays, func(stay Stay) bool {
		return stay.Room == room && stay.Overlaps(interval)
	})
}

// FullyBookedDates lists every check-in date in [from, to) for which a stay of the given
// length would find no free room.
func FullyBookedDates(rooms []int, stays []Stay, from, to time.Time, days int) []time.Time {
	dates := []time.Time{}

	for day := Day(from); day.Before(Day(to)); day = day.AddDate(0, 0, 1) {
		if len(FreeRooms(rooms, stays, ForDuration(day, days))) == 0 {
			dates = append(dates, day)
		}
	}

	return dates
}

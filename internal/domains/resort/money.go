package resort

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

const centsPerUnit = 100

// Money is an amount in cents.
type Money int64

// ParsePrice converts catalog prices such as "$1,800" or "950.50" into cents.
func ParsePrice(value string) (Money, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
	}

	whole, fraction, hasFraction := strings.Cut(cleaned, ".")
	if !digits(whole) || (hasFraction && !digits(fraction)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
	}

	var cents int64

	if hasFraction {
		if len(fraction) == 0 || len(fraction) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
		}

		if len(fraction) == 1 {
			fraction += "0"
		}

		cents, err = strconv.ParseInt(fraction, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
		}
	}

	return Money(units*centsPerUnit + cents), nil
}

// digits reports whether s is non-empty and made of ASCII digits only. Signs are not digits.
func digits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Percent returns p percent of m, rounded half up to the cent.
func (m Money) Percent(p int) Money {
	scaled := int64(m) * int64(p)
	if scaled >= 0 {
		return Money((scaled + centsPerUnit/2) / centsPerUnit)
	}

	return Money((scaled - centsPerUnit/2) / centsPerUnit)
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m) / centsPerUnit
}

// String formats the amount as "$1,800.00".
func (m Money) String() string {
	sign := ""
	value := int64(m)

	if value < 0 {
		sign = "-"
		value = -value
	}

	whole := strconv.FormatInt(value/centsPerUnit, 10)

	var grouped strings.Builder

	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}

		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), value%centsPerUnit)
}

// MarshalJSON writes the amount as a decimal number with two fraction digits.
func (m Money) MarshalJSON() ([]byte, error) {
	value := int64(m)
	sign := ""

	if value < 0 {
		sign = "-"
		value = -value
	}

	return fmt.Appendf(nil, "%s%d.%02d", sign, value/centsPerUnit, value%centsPerUnit), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)

	negative := strings.HasPrefix(raw, "-")

	parsed, err := ParsePrice(strings.TrimPrefix(raw, "-"))
	if err != nil {
		return err
	}

	if negative {
		parsed = -parsed
	}

	*m = parsed

	return nil
}

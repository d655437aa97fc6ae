package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/vishwaskamath/sankalp-cli/internal/constants"
)

// TodayInTimezone returns today's day key (YYYY-MM-DD) in the specified
// timezone. "Today" is determined by the user's configured timezone, not the
// system timezone.
func TodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// Today returns today's day key in the system's local timezone.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDay parses a day key (YYYY-MM-DD).
func ParseDay(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// ValidDay reports whether the string is a well-formed day key.
func ValidDay(day string) bool {
	_, err := ParseDay(day)
	return err == nil
}

// DaysBetween returns the number of calendar days from earlier to later.
// Uses date-based arithmetic with explicit rounding to avoid DST issues.
func DaysBetween(earlier, later time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}

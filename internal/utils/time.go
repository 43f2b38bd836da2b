package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyos/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateString formats t as YYYY-MM-DD in t's own location.
func DateString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string at midnight in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDateFormat checks if the string is a YYYY-MM-DD calendar date.
func ValidateDateFormat(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// MonthBounds returns the first and last calendar dates of t's month and the
// month label (YYYY-MM).
func MonthBounds(t time.Time) (start, end, label string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	// Day 0 of the next month normalizes to the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return DateString(first), DateString(last), first.Format(constants.MonthFormat)
}

// LastNDays returns n consecutive dates ending at today, oldest first.
func LastNDays(today time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		// AddDate keeps calendar arithmetic correct across DST changes.
		dates = append(dates, DateString(today.AddDate(0, 0, -i)))
	}
	return dates
}

// ShortWeekday returns the three-letter English weekday of a YYYY-MM-DD date.
func ShortWeekday(dateStr string) string {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

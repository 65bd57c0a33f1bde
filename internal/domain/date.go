package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKey formats t as the calendar date key "YYYY-M-D" (unpadded month and
// day). All agenda lookups and persisted blobs use this form.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateKey parses a "YYYY-M-D" date key into its calendar components.
// Padded months and days ("2025-06-01") are accepted and mean the same date.
func ParseDateKey(key string) (year int, month time.Month, day int, err error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: expected YYYY-M-D", key)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid date key %q: expected YYYY-M-D", key)
		}
		nums[i] = n
	}
	year, month, day = nums[0], time.Month(nums[1]), nums[2]
	if month < time.January || month > time.December {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: month out of range", key)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: day out of range", key)
	}
	return year, month, day, nil
}

// IsPastDate reports whether the date is strictly before today's calendar
// date, comparing midnights only. Past dates are view-only: existing events
// may still be read or deleted, but nothing new may be scheduled.
func IsPastDate(date string, today time.Time) (bool, error) {
	year, month, day, err := ParseDateKey(date)
	if err != nil {
		return false, err
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return d.Before(midnight), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid describes the 7-column layout of one month: the weekday of day 1
// (0 = Sunday) and the number of days, enough for a caller to render the
// usual calendar grid.
type MonthGrid struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	FirstWeekday int `json:"first_weekday"`
	Days         int `json:"days"`
}

// MonthGridOf computes the grid layout for the given month. Pure function of
// (year, month).
func MonthGridOf(year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthGrid{
		Year:         year,
		Month:        int(month),
		FirstWeekday: int(first.Weekday()),
		Days:         DaysInMonth(year, month),
	}
}

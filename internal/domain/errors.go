package domain

import "errors"

// Validation rejections returned by AddEvent. Each one maps to a distinct
// reason code so a caller can render a precise message.
var (
	// ErrTitleEmpty means the candidate title is empty after trimming.
	ErrTitleEmpty = errors.New("event title is required")
	// ErrInvalidRange means the candidate does not satisfy start < end.
	ErrInvalidRange = errors.New("event end time must be after start time")
	// ErrPastTime means the candidate starts before the current time of day
	// on today's date. Only same-day scheduling is checked against the clock.
	ErrPastTime = errors.New("event start time has already passed today")
	// ErrPastDate means the target date is before today; past dates are
	// view-only.
	ErrPastDate = errors.New("date is in the past and view-only")
	// ErrConflict means the candidate overlaps an existing event on the
	// same date.
	ErrConflict = errors.New("time slot conflicts with an existing event")
)

// ErrStoreWrite marks a persistence failure. The in-memory index is rolled
// back before this is returned, so memory and the stored snapshot never
// diverge. Distinct from the validation rejections above.
var ErrStoreWrite = errors.New("calendar could not be saved")

// IsRejection reports whether err is one of the AddEvent validation
// rejections (as opposed to a persistence or internal failure).
func IsRejection(err error) bool {
	return errors.Is(err, ErrTitleEmpty) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrPastTime) ||
		errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrConflict)
}

// RejectionCode returns the stable reason code for a validation rejection,
// or "" if err is not one.
func RejectionCode(err error) string {
	switch {
	case errors.Is(err, ErrTitleEmpty):
		return "title_empty"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrPastTime):
		return "past_time"
	case errors.Is(err, ErrPastDate):
		return "past_date"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}
	return ""
}

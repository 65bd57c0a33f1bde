package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of scheduling slots in one calendar day.
const MinutesPerDay = 24 * 60

// Minute is a time of day expressed as minutes from midnight (0–1439).
// It serializes as "HH:MM" so persisted agendas stay human-readable and
// compare the same whether sorted numerically or lexicographically.
type Minute int

// ParseClock parses a "HH:MM" string into a Minute.
func ParseClock(s string) (Minute, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: hour must be 0-23 and minute 0-59", s)
	}
	return Minute(h*60 + m), nil
}

// MinuteOf returns the time of day of t at minute resolution.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// Valid reports whether m falls within a single day.
func (m Minute) Valid() bool {
	return m >= 0 && m < MinutesPerDay
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MarshalJSON encodes m as a "HH:MM" string.
func (m Minute) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a "HH:MM" string into m.
func (m *Minute) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

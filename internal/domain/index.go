package domain

import (
	"encoding/json"
	"sort"
)

// EventIndex is one user's full calendar: a mapping from date keys (see
// DateKey) to that day's agenda, kept sorted ascending by start time with
// insertion order preserved for equal starts.
type EventIndex map[string][]*Event

// NewEventIndex returns an empty index.
func NewEventIndex() EventIndex {
	return make(EventIndex)
}

// Day returns the agenda stored for the given date, or nil if the date has
// no entries. The returned slice is the index's own; callers that hand it
// out must copy it first.
func (idx EventIndex) Day(date string) []*Event {
	return idx[date]
}

// Insert adds e to the given date's agenda, keeping the agenda sorted by
// start time. Events with equal starts keep their insertion order. The
// previous day slice is left untouched so callers can keep it as a rollback
// snapshot.
func (idx EventIndex) Insert(date string, e *Event) {
	existing := idx[date]
	day := make([]*Event, 0, len(existing)+1)
	day = append(day, existing...)
	day = append(day, e)
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Start < day[j].Start
	})
	idx[date] = day
}

// Remove deletes the event with the given id from the given date's agenda.
// It reports whether an event was removed; a missing date or id is not an
// error.
func (idx EventIndex) Remove(date string, id int64) bool {
	day, ok := idx[date]
	if !ok {
		return false
	}
	for i, e := range day {
		if e.ID == id {
			idx[date] = append(day[:i:i], day[i+1:]...)
			return true
		}
	}
	return false
}

// MaxID returns the largest event id in the index, or 0 if it is empty.
// Fresh ids must be strictly greater so they are never reused.
func (idx EventIndex) MaxID() int64 {
	var max int64
	for _, day := range idx {
		for _, e := range day {
			if e.ID > max {
				max = e.ID
			}
		}
	}
	return max
}

// Normalize re-sorts every day's agenda by start time. Used after decoding
// persisted state so an inconsistency in the stored blob never propagates.
func (idx EventIndex) Normalize() {
	for date, day := range idx {
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].Start < day[j].Start
		})
		idx[date] = day
	}
}

// Clone returns a deep copy of the index. Mutating the copy never affects
// the original.
func (idx EventIndex) Clone() EventIndex {
	out := make(EventIndex, len(idx))
	for date, day := range idx {
		copied := make([]*Event, len(day))
		for i, e := range day {
			ev := *e
			copied[i] = &ev
		}
		out[date] = copied
	}
	return out
}

// Encode serializes the index as JSON: each date key maps to an array of
// event records {id, title, start, end, isImportant}.
func (idx EventIndex) Encode() ([]byte, error) {
	return json.Marshal(idx)
}

// DecodeIndex parses a serialized index. The result is normalized so a
// mis-sorted blob cannot break the agenda ordering invariant.
func DecodeIndex(data []byte) (EventIndex, error) {
	var idx EventIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	if idx == nil {
		idx = NewEventIndex()
	}
	idx.Normalize()
	return idx, nil
}

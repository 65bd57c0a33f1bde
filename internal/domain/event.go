package domain

// Event is a single scheduled entry on one calendar day. Start and End are
// times of day; the interval is half-open, so an event ending at 10:00 does
// not collide with one starting at 10:00.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Start       Minute `json:"start"`
	End         Minute `json:"end"`
	IsImportant bool   `json:"isImportant"`
}

// NewEvent returns a new Event with the given fields. ID is assigned by the
// scheduler when the event is accepted into an agenda.
func NewEvent(title string, start, end Minute, isImportant bool) *Event {
	return &Event{
		Title:       title,
		Start:       start,
		End:         end,
		IsImportant: isImportant,
	}
}

// Overlaps reports whether the two events' intervals conflict under half-open
// semantics: each one's start is strictly before the other's end.
func Overlaps(a, b *Event) bool {
	return a.Start < b.End && b.Start < a.End
}

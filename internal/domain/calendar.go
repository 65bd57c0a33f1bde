package domain

import (
	"context"
	"time"
)

// BlobStore is the persistence adapter contract consumed by the scheduler.
// It is a plain key/value store of serialized calendars; whether the backend
// is Postgres, SQLite, or a directory of files is irrelevant to the engine.
type BlobStore interface {
	// Get returns the blob stored under key. The bool reports whether the
	// key exists; a missing key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// SchedulerService is the event-scheduling engine for per-user calendars.
// Implementations serialize mutations per user and never read the system
// clock: "now" is always an explicit input, so time-sensitive behavior is
// deterministic under test.
type SchedulerService interface {
	// LoadAgenda returns the user's full event index. A missing or corrupt
	// stored record is treated as an empty calendar, never an error.
	LoadAgenda(ctx context.Context, userKey string) (EventIndex, error)
	// AddEvent validates candidate against the date's agenda and, if every
	// check passes, assigns an id, inserts it in sorted order, and persists
	// the whole index. On a validation rejection (see errors.go) or a store
	// write failure nothing changes. Returns the stored event.
	AddEvent(ctx context.Context, userKey, date string, now time.Time, candidate *Event) (*Event, error)
	// DeleteEvent removes the event with the given id from the date's
	// agenda. Removing an absent date or id is a no-op, not an error. The
	// index is re-persisted either way.
	DeleteEvent(ctx context.Context, userKey, date string, eventID int64) error
	// QueryDay returns the date's agenda sorted by start time, or an empty
	// slice. Read-only.
	QueryDay(ctx context.Context, userKey, date string) ([]*Event, error)
}

// TokenIssuer issues tokens (e.g. JWT) carrying a stable user key. The
// scheduler itself performs no authentication; identity is an external
// collaborator.
type TokenIssuer interface {
	Issue(userKey string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the stable user key that
// namespaces the caller's calendar state.
type TokenVerifier interface {
	Verify(token string) (userKey string, err error)
}

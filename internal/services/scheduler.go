package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dayboard/internal/domain"
)

// calendarKeyPrefix namespaces each user's serialized index in the blob
// store: calendar_<userKey>.
const calendarKeyPrefix = "calendar_"

// userCalendar is the cached in-memory index for one user. Its mutex
// serializes mutations so two interleaved AddEvent calls with overlapping
// candidates can never both succeed.
type userCalendar struct {
	mu     sync.Mutex
	loaded bool
	index  domain.EventIndex
}

type schedulerService struct {
	store          domain.BlobStore
	logger         *slog.Logger
	contextTimeout time.Duration

	mu    sync.Mutex
	users map[string]*userCalendar
}

// NewSchedulerService returns the scheduling engine backed by the given blob
// store. Indices for different users are fully independent; each user's
// mutations are serialized and written through to the store before the call
// returns.
func NewSchedulerService(store domain.BlobStore, logger *slog.Logger, timeout time.Duration) domain.SchedulerService {
	return &schedulerService{
		store:          store,
		logger:         logger,
		contextTimeout: timeout,
		users:          make(map[string]*userCalendar),
	}
}

func calendarKey(userKey string) string {
	return calendarKeyPrefix + userKey
}

func (s *schedulerService) user(userKey string) *userCalendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	uc, ok := s.users[userKey]
	if !ok {
		uc = &userCalendar{index: domain.NewEventIndex()}
		s.users[userKey] = uc
	}
	return uc
}

// ensureLoaded populates uc.index from the store on first use. A missing
// record, a read failure, or a corrupt blob all resolve to an empty index:
// the calendar fails open rather than refusing to start. Caller holds uc.mu.
func (s *schedulerService) ensureLoaded(ctx context.Context, uc *userCalendar, userKey string) {
	if uc.loaded {
		return
	}
	uc.loaded = true
	uc.index = domain.NewEventIndex()

	data, found, err := s.store.Get(ctx, calendarKey(userKey))
	if err != nil {
		s.logger.WarnContext(ctx, "calendar load failed, starting empty", "user", userKey, "err", err)
		return
	}
	if !found {
		return
	}
	idx, err := domain.DecodeIndex(data)
	if err != nil {
		s.logger.WarnContext(ctx, "stored calendar is corrupt, starting empty", "user", userKey, "err", err)
		return
	}
	uc.index = idx
}

func (s *schedulerService) LoadAgenda(ctx context.Context, userKey string) (domain.EventIndex, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	uc := s.user(userKey)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s.ensureLoaded(ctx, uc, userKey)
	return uc.index.Clone(), nil
}

func (s *schedulerService) AddEvent(ctx context.Context, userKey, date string, now time.Time, candidate *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	past, err := domain.IsPastDate(date, now)
	if err != nil {
		return nil, fmt.Errorf("add event: %w", err)
	}

	uc := s.user(userKey)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s.ensureLoaded(ctx, uc, userKey)

	if past {
		return nil, domain.ErrPastDate
	}
	if strings.TrimSpace(candidate.Title) == "" {
		return nil, domain.ErrTitleEmpty
	}
	if !candidate.Start.Valid() || !candidate.End.Valid() || candidate.Start >= candidate.End {
		return nil, domain.ErrInvalidRange
	}
	// The clock only gates same-day scheduling: on today's date the start
	// must not already be behind the current time of day.
	if date == domain.DateKey(now) && candidate.Start < domain.MinuteOf(now) {
		return nil, domain.ErrPastTime
	}
	for _, existing := range uc.index.Day(date) {
		if domain.Overlaps(candidate, existing) {
			return nil, domain.ErrConflict
		}
	}

	stored := *candidate
	stored.Title = strings.TrimSpace(candidate.Title)
	stored.ID = nextEventID(uc.index, now)

	prevDay := uc.index.Day(date)
	uc.index.Insert(date, &stored)

	if err := s.persist(ctx, uc, userKey); err != nil {
		restoreDay(uc.index, date, prevDay)
		return nil, err
	}

	result := stored
	return &result, nil
}

func (s *schedulerService) DeleteEvent(ctx context.Context, userKey, date string, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	uc := s.user(userKey)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s.ensureLoaded(ctx, uc, userKey)

	prevDay := uc.index.Day(date)
	uc.index.Remove(date, eventID)

	if err := s.persist(ctx, uc, userKey); err != nil {
		restoreDay(uc.index, date, prevDay)
		return err
	}
	return nil
}

func (s *schedulerService) QueryDay(ctx context.Context, userKey, date string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	uc := s.user(userKey)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s.ensureLoaded(ctx, uc, userKey)

	day := uc.index.Day(date)
	out := make([]*domain.Event, len(day))
	for i, e := range day {
		ev := *e
		out[i] = &ev
	}
	return out, nil
}

// persist writes the whole index through to the store. Caller holds uc.mu
// and rolls back the in-memory mutation if this fails, so memory and the
// stored snapshot never diverge.
func (s *schedulerService) persist(ctx context.Context, uc *userCalendar, userKey string) error {
	data, err := uc.index.Encode()
	if err != nil {
		return errors.Join(domain.ErrStoreWrite, err)
	}
	if err := s.store.Set(ctx, calendarKey(userKey), data); err != nil {
		return errors.Join(domain.ErrStoreWrite, err)
	}
	return nil
}

// restoreDay rewinds one date's agenda to a snapshot taken before a failed
// mutation.
func restoreDay(idx domain.EventIndex, date string, prev []*domain.Event) {
	if prev == nil {
		delete(idx, date)
		return
	}
	idx[date] = prev
}

// nextEventID picks a fresh id: the current unix-millisecond timestamp,
// bumped past the largest id already in the index so ids are unique and
// monotonically increasing even under a frozen test clock.
func nextEventID(idx domain.EventIndex, now time.Time) int64 {
	id := now.UnixMilli()
	if max := idx.MaxID(); id <= max {
		id = max + 1
	}
	return id
}

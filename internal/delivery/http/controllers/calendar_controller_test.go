package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dayboard/internal/delivery/http/middleware"
	"dayboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeScheduler implements domain.SchedulerService for handler tests.
type fakeScheduler struct {
	loadResult  domain.EventIndex
	loadErr     error
	addResult   *domain.Event
	addErr      error
	deleteErr   error
	queryResult []*domain.Event
	queryErr    error

	lastUserKey string
	lastDate    string
	lastNow     time.Time
	lastAdded   *domain.Event
	lastDeleted int64
}

func (f *fakeScheduler) LoadAgenda(ctx context.Context, userKey string) (domain.EventIndex, error) {
	f.lastUserKey = userKey
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loadResult == nil {
		return domain.NewEventIndex(), nil
	}
	return f.loadResult, nil
}

func (f *fakeScheduler) AddEvent(ctx context.Context, userKey, date string, now time.Time, candidate *domain.Event) (*domain.Event, error) {
	f.lastUserKey = userKey
	f.lastDate = date
	f.lastNow = now
	f.lastAdded = candidate
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addResult, nil
}

func (f *fakeScheduler) DeleteEvent(ctx context.Context, userKey, date string, eventID int64) error {
	f.lastUserKey = userKey
	f.lastDate = date
	f.lastDeleted = eventID
	return f.deleteErr
}

func (f *fakeScheduler) QueryDay(ctx context.Context, userKey, date string) ([]*domain.Event, error) {
	f.lastUserKey = userKey
	f.lastDate = date
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResult, nil
}

func newTestController(svc domain.SchedulerService) *CalendarController {
	c := NewCalendarController(testLogger, svc)
	c.now = func() time.Time {
		return time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	}
	return c
}

// authed returns req with the user key set, as RequireAuth would.
func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.SetUserKey(req.Context(), "u@example.com"))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) (data json.RawMessage, errCode string) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if envelope.Error != nil {
		errCode = envelope.Error.Code
	}
	return envelope.Data, errCode
}

func TestCalendarController_QueryDay(t *testing.T) {
	svc := &fakeScheduler{queryResult: []*domain.Event{
		{ID: 1, Title: "standup", Start: 540, End: 555},
		{ID: 2, Title: "lunch", Start: 720, End: 780},
	}}
	c := newTestController(svc)

	req := authed(httptest.NewRequest(http.MethodGet, "/calendar/2025-6-12", nil))
	req.SetPathValue("date", "2025-6-12")
	rr := httptest.NewRecorder()
	c.QueryDay(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data, _ := decodeEnvelope(t, rr)
	var events []*domain.Event
	require.NoError(t, json.Unmarshal(data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "standup", events[0].Title)
	assert.Equal(t, "u@example.com", svc.lastUserKey)
	assert.Equal(t, "2025-6-12", svc.lastDate)
}

func TestCalendarController_QueryDay_BadDate(t *testing.T) {
	c := newTestController(&fakeScheduler{})

	req := authed(httptest.NewRequest(http.MethodGet, "/calendar/someday", nil))
	req.SetPathValue("date", "someday")
	rr := httptest.NewRecorder()
	c.QueryDay(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalendarController_QueryDay_Unauthenticated(t *testing.T) {
	c := newTestController(&fakeScheduler{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/2025-6-12", nil)
	req.SetPathValue("date", "2025-6-12")
	rr := httptest.NewRecorder()
	c.QueryDay(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCalendarController_AddEvent(t *testing.T) {
	svc := &fakeScheduler{addResult: &domain.Event{ID: 99, Title: "dentist", Start: 600, End: 660}}
	c := newTestController(svc)

	body := bytes.NewBufferString(`{"title":"dentist","start":"10:00","end":"11:00","isImportant":true}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/calendar/2025-6-12/events", body))
	req.SetPathValue("date", "2025-6-12")
	rr := httptest.NewRecorder()
	c.AddEvent(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	data, _ := decodeEnvelope(t, rr)
	var added domain.Event
	require.NoError(t, json.Unmarshal(data, &added))
	assert.Equal(t, int64(99), added.ID)

	// The engine received the decoded candidate and the controller's clock.
	require.NotNil(t, svc.lastAdded)
	assert.Equal(t, "dentist", svc.lastAdded.Title)
	assert.Equal(t, domain.Minute(600), svc.lastAdded.Start)
	assert.True(t, svc.lastAdded.IsImportant)
	assert.Equal(t, time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC), svc.lastNow)
}

func TestCalendarController_AddEvent_RejectionCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "title empty", err: domain.ErrTitleEmpty, wantCode: "title_empty"},
		{name: "invalid range", err: domain.ErrInvalidRange, wantCode: "invalid_range"},
		{name: "past time", err: domain.ErrPastTime, wantCode: "past_time"},
		{name: "past date", err: domain.ErrPastDate, wantCode: "past_date"},
		{name: "conflict", err: domain.ErrConflict, wantCode: "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeScheduler{addErr: tt.err})

			body := bytes.NewBufferString(`{"title":"x","start":"10:00","end":"11:00"}`)
			req := authed(httptest.NewRequest(http.MethodPost, "/calendar/2025-6-12/events", body))
			req.SetPathValue("date", "2025-6-12")
			rr := httptest.NewRecorder()
			c.AddEvent(rr, req)

			require.Equal(t, http.StatusConflict, rr.Code)
			_, code := decodeEnvelope(t, rr)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestCalendarController_AddEvent_StoreWriteFailure(t *testing.T) {
	c := newTestController(&fakeScheduler{
		addErr: errors.Join(domain.ErrStoreWrite, errors.New("disk full")),
	})

	body := bytes.NewBufferString(`{"title":"x","start":"10:00","end":"11:00"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/calendar/2025-6-12/events", body))
	req.SetPathValue("date", "2025-6-12")
	rr := httptest.NewRecorder()
	c.AddEvent(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	_, code := decodeEnvelope(t, rr)
	assert.Equal(t, "store_write_failed", code)
}

func TestCalendarController_AddEvent_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "unknown field", body: `{"title":"x","start":"10:00","end":"11:00","color":"red"}`},
		{name: "bad clock", body: `{"title":"x","start":"25:00","end":"11:00"}`},
		{name: "missing times", body: `{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeScheduler{})

			req := authed(httptest.NewRequest(http.MethodPost, "/calendar/2025-6-12/events", bytes.NewBufferString(tt.body)))
			req.SetPathValue("date", "2025-6-12")
			rr := httptest.NewRecorder()
			c.AddEvent(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCalendarController_DeleteEvent(t *testing.T) {
	svc := &fakeScheduler{}
	c := newTestController(svc)

	req := authed(httptest.NewRequest(http.MethodDelete, "/calendar/2025-6-12/events/42", nil))
	req.SetPathValue("date", "2025-6-12")
	req.SetPathValue("eventID", "42")
	rr := httptest.NewRecorder()
	c.DeleteEvent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(42), svc.lastDeleted)
}

func TestCalendarController_DeleteEvent_BadID(t *testing.T) {
	c := newTestController(&fakeScheduler{})

	req := authed(httptest.NewRequest(http.MethodDelete, "/calendar/2025-6-12/events/abc", nil))
	req.SetPathValue("date", "2025-6-12")
	req.SetPathValue("eventID", "abc")
	rr := httptest.NewRecorder()
	c.DeleteEvent(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalendarController_GetIndex(t *testing.T) {
	idx := domain.NewEventIndex()
	idx.Insert("2025-6-12", &domain.Event{ID: 1, Title: "standup", Start: 540, End: 555})
	svc := &fakeScheduler{loadResult: idx}
	c := newTestController(svc)

	req := authed(httptest.NewRequest(http.MethodGet, "/calendar", nil))
	rr := httptest.NewRecorder()
	c.GetIndex(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data, _ := decodeEnvelope(t, rr)
	var got map[string][]*domain.Event
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got["2025-6-12"], 1)
}

func TestCalendarController_MonthGrid(t *testing.T) {
	c := newTestController(&fakeScheduler{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/grid/2025/6", nil)
	req.SetPathValue("year", "2025")
	req.SetPathValue("month", "6")
	rr := httptest.NewRecorder()
	c.MonthGrid(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	data, _ := decodeEnvelope(t, rr)
	var grid domain.MonthGrid
	require.NoError(t, json.Unmarshal(data, &grid))
	assert.Equal(t, 0, grid.FirstWeekday)
	assert.Equal(t, 30, grid.Days)
}

func TestCalendarController_MonthGrid_BadInput(t *testing.T) {
	c := newTestController(&fakeScheduler{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/grid/2025/13", nil)
	req.SetPathValue("year", "2025")
	req.SetPathValue("month", "13")
	rr := httptest.NewRecorder()
	c.MonthGrid(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

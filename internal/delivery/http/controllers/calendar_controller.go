package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	h "dayboard/internal/delivery/http/helpers"
	"dayboard/internal/delivery/http/middleware"
	"dayboard/internal/domain"
)

// AddEventRequest is the request body for POST /calendar/{date}/events.
// The id is server-assigned; start and end are "HH:MM" times of day.
type AddEventRequest struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsImportant bool   `json:"isImportant"`
}

// Validate implements Validator. Clock format checks only; the scheduling
// rules (empty title, past date, conflicts, ordering) belong to the engine
// and come back as rejection codes.
func (a AddEventRequest) Validate() []string {
	var errs []string
	if a.Start == "" {
		errs = append(errs, "start is required")
	} else if _, err := domain.ParseClock(a.Start); err != nil {
		errs = append(errs, err.Error())
	}
	if a.End == "" {
		errs = append(errs, "end is required")
	} else if _, err := domain.ParseClock(a.End); err != nil {
		errs = append(errs, err.Error())
	}
	return errs
}

type CalendarController struct {
	Logger  *slog.Logger
	Service domain.SchedulerService

	// now supplies the "today" reference for validation; overridable in
	// tests so same-day rules are deterministic.
	now func() time.Time
}

func NewCalendarController(logger *slog.Logger, svc domain.SchedulerService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// GetIndex godoc
// @Summary Get the full calendar
// @Description Returns the authenticated user's whole event index: every date key with its sorted day agenda. A user with no stored calendar gets an empty object.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data maps date keys to event arrays"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /calendar [get]
func (c *CalendarController) GetIndex(w http.ResponseWriter, r *http.Request) {
	userKey, ok := middleware.UserKeyFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	idx, err := c.Service.LoadAgenda(r.Context(), userKey)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, idx)
}

// QueryDay godoc
// @Summary Get one day's agenda
// @Description Returns the events for the given date key (YYYY-M-D), sorted by start time. A date with no events returns an empty array.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date key, e.g. 2025-6-12"
// @Success 200 {object} helpers.APIResponse "data contains the day's events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /calendar/{date} [get]
func (c *CalendarController) QueryDay(w http.ResponseWriter, r *http.Request) {
	userKey, ok := middleware.UserKeyFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	date := r.PathValue("date")
	if _, _, _, err := domain.ParseDateKey(date); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	day, err := c.Service.QueryDay(r.Context(), userKey, date)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, day)
}

// AddEvent godoc
// @Summary Schedule an event
// @Description Validates the candidate against the date's agenda and stores it. Rejections come back as 409 with a reason code: title_empty, invalid_range, past_time, past_date, or conflict.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date key, e.g. 2025-6-12"
// @Param event body AddEventRequest true "Candidate event"
// @Success 201 {object} helpers.APIResponse "data contains the stored event with its assigned id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: rejection reason"
// @Failure 502 {object} helpers.APIResponse "error.code: store_write_failed"
// @Router /calendar/{date}/events [post]
func (c *CalendarController) AddEvent(w http.ResponseWriter, r *http.Request) {
	userKey, ok := middleware.UserKeyFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	date := r.PathValue("date")
	if _, _, _, err := domain.ParseDateKey(date); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	var req AddEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	start, _ := domain.ParseClock(req.Start)
	end, _ := domain.ParseClock(req.End)
	candidate := domain.NewEvent(req.Title, start, end, req.IsImportant)

	added, err := c.Service.AddEvent(r.Context(), userKey, date, c.now(), candidate)
	if err != nil {
		c.writeSchedulerError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, added)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event with the given id from the date's agenda. Deleting an absent date or id is a no-op and still returns 200.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date key, e.g. 2025-6-12"
// @Param eventID path int true "Event id"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: store_write_failed"
// @Router /calendar/{date}/events/{eventID} [delete]
func (c *CalendarController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userKey, ok := middleware.UserKeyFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	date := r.PathValue("date")
	if _, _, _, err := domain.ParseDateKey(date); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	eventID, err := strconv.ParseInt(r.PathValue("eventID"), 10, 64)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event id must be an integer")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), userKey, date, eventID); err != nil {
		c.writeSchedulerError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

// MonthGrid godoc
// @Summary Get a month's grid layout
// @Description Returns the weekday of day 1 (0 = Sunday) and the day count for the month, enough to render a 7-column calendar grid.
// @Tags calendar
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} helpers.APIResponse "data contains the grid layout"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /calendar/grid/{year}/{month} [get]
func (c *CalendarController) MonthGrid(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "year must be a positive integer")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "month must be 1-12")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, domain.MonthGridOf(year, time.Month(month)))
}

// writeSchedulerError maps engine errors to HTTP: validation rejections are
// 409 with their reason code, store write failures 502, anything else 500.
func (c *CalendarController) writeSchedulerError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsRejection(err) {
		h.WriteJSONError(w, http.StatusConflict, domain.RejectionCode(err), err.Error())
		return
	}
	if errors.Is(err, domain.ErrStoreWrite) {
		c.Logger.ErrorContext(r.Context(), "calendar write failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusBadGateway, "store_write_failed", domain.ErrStoreWrite.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
}

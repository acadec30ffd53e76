package controllers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tempus/internal/adapters/ical"
	"tempus/internal/delivery/http/helpers"
	"tempus/internal/delivery/http/middleware"
	"tempus/internal/domain"
)

// BookMeetingRequest is the request body for POST /api/calendar/meetings
type BookMeetingRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// AvailabilityResponse is the response body for GET /api/calendar/availability.
type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []*domain.Meeting `json:"conflicts"`
}

// MeetingSuccessResponse is the success response envelope for a single meeting.
type MeetingSuccessResponse struct {
	Data  *domain.Meeting   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMeetingsSuccessResponse is the success response envelope for GET /api/calendar/meetings (200).
type ListMeetingsSuccessResponse struct {
	Data  []*domain.Meeting `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /api/calendar/availability (200).
type AvailabilitySuccessResponse struct {
	Data  AvailabilityResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CalendarController serves the authenticated user's calendar.
type CalendarController struct {
	Logger  *slog.Logger
	Service domain.SchedulingService
	now     func() time.Time
}

func NewCalendarController(logger *slog.Logger, svc domain.SchedulingService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// ListMeetings godoc
// @Summary List my meetings
// @Description Scheduled meetings on the caller's calendar ordered by start time. With from and to (RFC 3339) only meetings intersecting [from, to) are returned.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Success 200 {object} controllers.ListMeetingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar/meetings [get]
func (c *CalendarController) ListMeetings(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	fromStr, toStr := q.Get("from"), q.Get("to")

	var (
		meetings []*domain.Meeting
		err      error
	)
	if fromStr == "" && toStr == "" {
		meetings, err = c.Service.ListMeetings(r.Context(), userID)
	} else {
		from, ok := parseTimeParam(w, "from", fromStr)
		if !ok {
			return
		}
		to, ok := parseTimeParam(w, "to", toStr)
		if !ok {
			return
		}
		meetings, err = c.Service.ListMeetingsBetween(r.Context(), userID, from, to)
	}
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meetings)
}

// BookMeeting godoc
// @Summary Book a meeting
// @Description Books [start_time, end_time) on the caller's calendar. Fails with 409 and the conflicting meeting when the range overlaps a scheduled meeting.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookMeetingRequest true "Meeting"
// @Success 201 {object} controllers.MeetingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict; error.details.conflicting_meeting"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar/meetings [post]
func (c *CalendarController) BookMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req BookMeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meeting, err := c.Service.BookMeeting(r.Context(), domain.BookingRequest{
		OwnerID:     userID,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, meeting)
}

// CancelMeeting godoc
// @Summary Cancel a meeting
// @Description Cancels a scheduled meeting on the caller's calendar and frees its time range.
// @Tags calendar
// @Security BearerAuth
// @Param meetingID path int true "Meeting ID"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar/meetings/{meetingID} [delete]
func (c *CalendarController) CancelMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	meetingID, err := strconv.ParseInt(r.PathValue("meetingID"), 10, 64)
	if err != nil || meetingID <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid meeting id")
		return
	}
	if err := c.Service.CancelMeeting(r.Context(), userID, meetingID); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability godoc
// @Summary Check availability
// @Description Reports whether [start, end) is free on the caller's calendar and lists the meetings that block it.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param start query string true "Range start (RFC 3339)"
// @Param end query string true "Range end (RFC 3339)"
// @Success 200 {object} controllers.AvailabilitySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar/availability [get]
func (c *CalendarController) Availability(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	start, ok := parseTimeParam(w, "start", q.Get("start"))
	if !ok {
		return
	}
	end, ok := parseTimeParam(w, "end", q.Get("end"))
	if !ok {
		return
	}
	conflicts, err := c.Service.CheckAvailability(r.Context(), userID, start, end)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	})
}

// ExportICS godoc
// @Summary Export my calendar
// @Description The caller's scheduled meetings as an iCalendar file.
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "iCalendar data"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/calendar/meetings.ics [get]
func (c *CalendarController) ExportICS(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	meetings, err := c.Service.ListMeetings(r.Context(), userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	// Encode fully before writing so an encoder error can still become a 500.
	var buf bytes.Buffer
	if err := ical.WriteMeetings(&buf, "Tempus", meetings, c.now().UTC()); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meetings.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (c *CalendarController) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

func parseTimeParam(w http.ResponseWriter, name, value string) (time.Time, bool) {
	if value == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, name+" is required")
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, name+" must be an RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

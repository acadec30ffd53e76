package domain

import (
	"context"
	"strings"
	"time"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Calendar is the set of meetings owned by a single user.
// swagger:model Calendar
type Calendar struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Meeting is a booked time range [StartTime, EndTime) on a calendar.
// swagger:model Meeting
type Meeting struct {
	ID          int64         `json:"id"`
	CalendarID  int64         `json:"calendar_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Status      MeetingStatus `json:"status"`
	CreatedBy   string        `json:"created_by"`
	EventID     *string       `json:"event_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// NewMeeting returns a scheduled Meeting. ID is set by the store on insert.
func NewMeeting(calendarID int64, title, description string, startTime, endTime time.Time, createdBy string, createdAt time.Time) *Meeting {
	return &Meeting{
		CalendarID:  calendarID,
		Title:       title,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      MeetingStatusScheduled,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
	}
}

// Validate checks the invariants every stored meeting must satisfy.
func (m *Meeting) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	return ValidateTimeRange(m.StartTime, m.EndTime)
}

// Overlaps reports whether the meeting intersects the half-open range [start, end).
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return Overlaps(m.StartTime, m.EndTime, start, end)
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect.
// Ranges that only touch at an endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ValidateTimeRange requires both instants to be set and end to be after start.
func ValidateTimeRange(start, end time.Time) error {
	if start.IsZero() {
		return NewValidationError("start_time", "start_time is required")
	}
	if end.IsZero() {
		return NewValidationError("end_time", "end_time is required")
	}
	if !end.After(start) {
		return NewValidationError("end_time", "end_time must be after start_time")
	}
	return nil
}

// BookingRequest holds the input of SchedulingService.BookMeeting.
type BookingRequest struct {
	OwnerID     string
	CreatorID   string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	EventID     *string
}

// Validate normalizes the title and checks the request before any store access.
func (r *BookingRequest) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return NewValidationError("owner_id", "owner_id is required")
	}
	if strings.TrimSpace(r.CreatorID) == "" {
		return NewValidationError("creator_id", "creator_id is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return NewValidationError("title", "title is required")
	}
	return ValidateTimeRange(r.StartTime, r.EndTime)
}

// CalendarStore keeps calendars and their meetings.
type CalendarStore interface {
	GetOrCreateCalendar(ctx context.Context, ownerID string) (*Calendar, error)
	// ListMeetings returns scheduled meetings ordered by start time. Never nil.
	ListMeetings(ctx context.Context, calendarID int64) ([]*Meeting, error)
	// ListMeetingsInRange returns scheduled meetings intersecting [from, to), ordered by start time.
	ListMeetingsInRange(ctx context.Context, calendarID int64, from, to time.Time) ([]*Meeting, error)
	GetMeeting(ctx context.Context, meetingID int64) (*Meeting, error)
	InsertMeeting(ctx context.Context, m *Meeting) error
	// CancelMeeting moves a scheduled meeting to cancelled. Returns ErrNotFound if
	// no scheduled meeting has the given ID.
	CancelMeeting(ctx context.Context, meetingID int64, at time.Time) error
	// Locked runs fn while holding the write lock of calendarID. fn must use the
	// store it is given; writes through it are kept only if fn returns nil.
	// Locked is not reentrant.
	Locked(ctx context.Context, calendarID int64, fn func(CalendarStore) error) error
}

// ConflictDetector decides whether a candidate range overlaps scheduled meetings.
type ConflictDetector interface {
	HasConflict(ctx context.Context, calendarID int64, start, end time.Time) (bool, error)
	// FirstConflict returns the earliest overlapping meeting, or nil.
	FirstConflict(ctx context.Context, calendarID int64, start, end time.Time) (*Meeting, error)
	Conflicts(ctx context.Context, calendarID int64, start, end time.Time) ([]*Meeting, error)
}

// SchedulingService is the only entry point that mutates calendar state.
type SchedulingService interface {
	BookMeeting(ctx context.Context, req BookingRequest) (*Meeting, error)
	ListMeetings(ctx context.Context, ownerID string) ([]*Meeting, error)
	ListMeetingsBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*Meeting, error)
	CancelMeeting(ctx context.Context, ownerID string, meetingID int64) error
	// CheckAvailability returns the meetings that would block a booking of [start, end).
	CheckAvailability(ctx context.Context, ownerID string, start, end time.Time) ([]*Meeting, error)
}

// Booking outcomes reported to a BookingRecorder.
const (
	BookingOutcomeCreated  = "created"
	BookingOutcomeConflict = "conflict"
	BookingOutcomeInvalid  = "invalid"
	BookingOutcomeError    = "error"
)

// BookingRecorder receives scheduling outcomes (e.g. for metrics).
type BookingRecorder interface {
	ObserveBooking(outcome string)
	ObserveCancellation()
}

package domain

import (
	"context"
	"strings"
	"time"
)

// Event represents an organization-wide event in the catalog.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventType   string    `json:"event_type,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description, eventType, location string, startTime, endTime time.Time, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		EventType:   eventType,
		Location:    location,
		StartTime:   startTime,
		EndTime:     endTime,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Validate checks the fields required to store an event.
func (e *Event) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(e.CreatedBy) == "" {
		return NewValidationError("created_by", "created_by is required")
	}
	return ValidateTimeRange(e.StartTime, e.EndTime)
}

// Snapshot returns the by-value view of the event used for projection.
func (e *Event) Snapshot() EventSnapshot {
	return EventSnapshot{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}

// EventSnapshot is the part of an event copied into a personal meeting.
type EventSnapshot struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// EventFilter narrows ListEvents. Empty fields do not filter.
type EventFilter struct {
	Type   string
	Search string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of events ordered by start time, plus the total
	// number of events matching filter. The slice is never nil.
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
}

// EventProjector turns an event into a meeting on a user's calendar.
type EventProjector interface {
	JoinEvent(ctx context.Context, event EventSnapshot, userID string) (*Meeting, error)
}

// EventService defines the business logic for the event catalog.
type EventService interface {
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	// JoinEvent resolves the event and books it on the user's calendar.
	JoinEvent(ctx context.Context, eventID, userID string) (*Meeting, error)
}

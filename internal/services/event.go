package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tempus/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	projector      domain.EventProjector
	contextTimeout time.Duration
}

// NewEventService creates an EventService over the catalog repository. Joins are
// delegated to projector.
func NewEventService(eventRepo domain.EventRepository, projector domain.EventProjector, timeout time.Duration) domain.EventService {
	if timeout <= 0 {
		timeout = defaultContextTimeout
	}
	return &eventService{
		eventRepo:      eventRepo,
		projector:      projector,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.Type = strings.TrimSpace(filter.Type)
	filter.Search = strings.TrimSpace(filter.Search)
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := event.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) JoinEvent(ctx context.Context, eventID, userID string) (*domain.Meeting, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.projector.JoinEvent(ctx, event.Snapshot(), userID)
}

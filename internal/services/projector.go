package services

import (
	"context"

	"tempus/internal/domain"
)

const eventTitlePrefix = "[Event] "

type eventProjector struct {
	scheduling domain.SchedulingService
}

// NewEventProjector returns an EventProjector that books through scheduling,
// so projected meetings get the same conflict and validation guarantees.
func NewEventProjector(scheduling domain.SchedulingService) domain.EventProjector {
	return &eventProjector{scheduling: scheduling}
}

func (p *eventProjector) JoinEvent(ctx context.Context, event domain.EventSnapshot, userID string) (*domain.Meeting, error) {
	req := domain.BookingRequest{
		OwnerID:     userID,
		CreatorID:   userID,
		Title:       eventTitlePrefix + event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
	}
	if event.ID != "" {
		id := event.ID
		req.EventID = &id
	}
	return p.scheduling.BookMeeting(ctx, req)
}

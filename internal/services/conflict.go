package services

import (
	"context"
	"time"

	"tempus/internal/domain"
)

type conflictDetector struct {
	store domain.CalendarStore
}

// NewConflictDetector returns a ConflictDetector reading scheduled meetings from store.
// Pass the store given to CalendarStore.Locked to check against the locked state.
func NewConflictDetector(store domain.CalendarStore) domain.ConflictDetector {
	return &conflictDetector{store: store}
}

func (d *conflictDetector) HasConflict(ctx context.Context, calendarID int64, start, end time.Time) (bool, error) {
	m, err := d.FirstConflict(ctx, calendarID, start, end)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (d *conflictDetector) FirstConflict(ctx context.Context, calendarID int64, start, end time.Time) (*domain.Meeting, error) {
	candidates, err := d.store.ListMeetingsInRange(ctx, calendarID, start, end)
	if err != nil {
		return nil, err
	}
	for _, m := range candidates {
		if m.Status == domain.MeetingStatusScheduled && m.Overlaps(start, end) {
			return m, nil
		}
	}
	return nil, nil
}

func (d *conflictDetector) Conflicts(ctx context.Context, calendarID int64, start, end time.Time) ([]*domain.Meeting, error) {
	candidates, err := d.store.ListMeetingsInRange(ctx, calendarID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Meeting, 0, len(candidates))
	for _, m := range candidates {
		if m.Status == domain.MeetingStatusScheduled && m.Overlaps(start, end) {
			out = append(out, m)
		}
	}
	return out, nil
}

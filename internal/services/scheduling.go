package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tempus/internal/domain"
)

const defaultContextTimeout = 5 * time.Second

type schedulingService struct {
	store          domain.CalendarStore
	recorder       domain.BookingRecorder
	contextTimeout time.Duration
	now            func() time.Time
}

// NewSchedulingService creates a SchedulingService over store. recorder may be nil.
func NewSchedulingService(store domain.CalendarStore, recorder domain.BookingRecorder, timeout time.Duration) domain.SchedulingService {
	if timeout <= 0 {
		timeout = defaultContextTimeout
	}
	return &schedulingService{
		store:          store,
		recorder:       recorder,
		contextTimeout: timeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *schedulingService) BookMeeting(ctx context.Context, req domain.BookingRequest) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.bookMeeting(ctx, req)
	s.observeBooking(err)
	return m, err
}

func (s *schedulingService) bookMeeting(ctx context.Context, req domain.BookingRequest) (*domain.Meeting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cal, err := s.store.GetOrCreateCalendar(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	var booked *domain.Meeting
	err = s.store.Locked(ctx, cal.ID, func(tx domain.CalendarStore) error {
		conflict, err := NewConflictDetector(tx).FirstConflict(ctx, cal.ID, req.StartTime, req.EndTime)
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if conflict != nil {
			return &domain.ConflictError{Meeting: conflict}
		}

		m := domain.NewMeeting(cal.ID, req.Title, req.Description, req.StartTime, req.EndTime, req.CreatorID, s.now())
		m.EventID = req.EventID
		if err := tx.InsertMeeting(ctx, m); err != nil {
			return err
		}
		booked = m
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("book meeting: %w", err)
	}
	return booked, nil
}

func (s *schedulingService) ListMeetings(ctx context.Context, ownerID string) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cal, err := s.calendarFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	meetings, err := s.store.ListMeetings(ctx, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

func (s *schedulingService) ListMeetingsBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.ValidateTimeRange(from, to); err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	meetings, err := s.store.ListMeetingsInRange(ctx, cal.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meetings in range: %w", err)
	}
	return meetings, nil
}

func (s *schedulingService) CancelMeeting(ctx context.Context, ownerID string, meetingID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cal, err := s.calendarFor(ctx, ownerID)
	if err != nil {
		return err
	}
	m, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get meeting: %w", err)
	}
	// Meetings on someone else's calendar are reported as missing.
	if m.CalendarID != cal.ID || m.Status != domain.MeetingStatusScheduled {
		return domain.ErrNotFound
	}
	if err := s.store.CancelMeeting(ctx, meetingID, s.now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel meeting: %w", err)
	}
	if s.recorder != nil {
		s.recorder.ObserveCancellation()
	}
	return nil
}

func (s *schedulingService) CheckAvailability(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.ValidateTimeRange(start, end); err != nil {
		return nil, err
	}
	cal, err := s.calendarFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	conflicts, err := NewConflictDetector(s.store).Conflicts(ctx, cal.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	return conflicts, nil
}

func (s *schedulingService) calendarFor(ctx context.Context, ownerID string) (*domain.Calendar, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.NewValidationError("owner_id", "owner_id is required")
	}
	cal, err := s.store.GetOrCreateCalendar(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	return cal, nil
}

func (s *schedulingService) observeBooking(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.ObserveBooking(domain.BookingOutcomeCreated)
	case errors.Is(err, domain.ErrConflict):
		s.recorder.ObserveBooking(domain.BookingOutcomeConflict)
	case errors.Is(err, domain.ErrInvalidInput):
		s.recorder.ObserveBooking(domain.BookingOutcomeInvalid)
	default:
		s.recorder.ObserveBooking(domain.BookingOutcomeError)
	}
}

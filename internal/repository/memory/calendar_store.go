// Package memory holds in-process implementations of the domain repositories.
// They are used by the "memory" store driver and by service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tempus/internal/domain"
)

type calendarStore struct {
	mu        sync.RWMutex
	nextCalID int64
	nextMtgID int64
	byOwner   map[string]*domain.Calendar
	calendars map[int64]*domain.Calendar
	meetings  map[int64]*domain.Meeting
	// scheduled meetings per calendar, sorted by start time then ID
	schedule map[int64][]*domain.Meeting

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// NewCalendarStore returns an empty in-memory domain.CalendarStore.
func NewCalendarStore() domain.CalendarStore {
	return &calendarStore{
		byOwner:   make(map[string]*domain.Calendar),
		calendars: make(map[int64]*domain.Calendar),
		meetings:  make(map[int64]*domain.Meeting),
		schedule:  make(map[int64][]*domain.Meeting),
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *calendarStore) GetOrCreateCalendar(ctx context.Context, ownerID string) (*domain.Calendar, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.NewValidationError("owner_id", "owner_id is required")
	}
	s.mu.RLock()
	cal, ok := s.byOwner[ownerID]
	s.mu.RUnlock()
	if ok {
		c := *cal
		return &c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cal, ok := s.byOwner[ownerID]; ok {
		c := *cal
		return &c, nil
	}
	s.nextCalID++
	cal = &domain.Calendar{ID: s.nextCalID, OwnerID: ownerID, CreatedAt: time.Now().UTC()}
	s.byOwner[ownerID] = cal
	s.calendars[cal.ID] = cal
	c := *cal
	return &c, nil
}

func (s *calendarStore) ListMeetings(ctx context.Context, calendarID int64) ([]*domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.schedule[calendarID]
	out := make([]*domain.Meeting, 0, len(list))
	for _, m := range list {
		out = append(out, copyMeeting(m))
	}
	return out, nil
}

func (s *calendarStore) ListMeetingsInRange(ctx context.Context, calendarID int64, from, to time.Time) ([]*domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.schedule[calendarID]
	// Meetings starting at or after `to` cannot intersect [from, to).
	n := sort.Search(len(list), func(i int) bool { return !list[i].StartTime.Before(to) })
	out := make([]*domain.Meeting, 0)
	for _, m := range list[:n] {
		if m.Overlaps(from, to) {
			out = append(out, copyMeeting(m))
		}
	}
	return out, nil
}

func (s *calendarStore) GetMeeting(ctx context.Context, meetingID int64) (*domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[meetingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyMeeting(m), nil
}

func (s *calendarStore) InsertMeeting(ctx context.Context, m *domain.Meeting) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.calendars[m.CalendarID]; !ok {
		return domain.ErrNotFound
	}
	s.nextMtgID++
	m.ID = s.nextMtgID
	m.Status = domain.MeetingStatusScheduled
	m.CancelledAt = nil
	stored := copyMeeting(m)
	s.meetings[stored.ID] = stored

	list := s.schedule[stored.CalendarID]
	i := sort.Search(len(list), func(i int) bool { return stored.StartTime.Before(list[i].StartTime) })
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = stored
	s.schedule[stored.CalendarID] = list
	return nil
}

func (s *calendarStore) CancelMeeting(ctx context.Context, meetingID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[meetingID]
	if !ok || m.Status != domain.MeetingStatusScheduled {
		return domain.ErrNotFound
	}
	m.Status = domain.MeetingStatusCancelled
	cancelledAt := at
	m.CancelledAt = &cancelledAt

	list := s.schedule[m.CalendarID]
	for i, sm := range list {
		if sm.ID == meetingID {
			s.schedule[m.CalendarID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (s *calendarStore) Locked(ctx context.Context, calendarID int64, fn func(domain.CalendarStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := s.calendarLock(calendarID)
	l.Lock()
	defer l.Unlock()
	return fn(s)
}

func (s *calendarStore) calendarLock(calendarID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[calendarID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[calendarID] = l
	}
	return l
}

func copyMeeting(m *domain.Meeting) *domain.Meeting {
	c := *m
	if m.EventID != nil {
		id := *m.EventID
		c.EventID = &id
	}
	if m.CancelledAt != nil {
		t := *m.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

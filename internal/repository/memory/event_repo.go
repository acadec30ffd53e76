package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tempus/internal/domain"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

// NewEventRepository returns an in-memory domain.EventRepository.
func NewEventRepository() domain.EventRepository {
	return &eventRepository{events: make(map[string]*domain.Event)}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	c := *e
	r.events[e.ID] = &c
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	matched := make([]*domain.Event, 0)
	for _, e := range r.events {
		if filter.Type != "" && e.EventType != filter.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Title), search) {
			continue
		}
		c := *e
		matched = append(matched, &c)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartTime.Equal(matched[j].StartTime) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].StartTime.Before(matched[j].StartTime)
	})

	total := len(matched)
	if params.PageSize <= 0 {
		return matched, total, nil
	}
	start := params.Offset()
	if start >= total {
		return []*domain.Event{}, total, nil
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

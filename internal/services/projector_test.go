package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tempus/internal/domain"
	"tempus/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventProjector_JoinEvent(t *testing.T) {
	ctx := context.Background()
	scheduling := NewSchedulingService(memory.NewCalendarStore(), nil, time.Second)
	projector := NewEventProjector(scheduling)
	event := domain.EventSnapshot{
		ID:          "ev-1",
		Title:       "GopherCon",
		Description: "talks",
		StartTime:   at(9, 0),
		EndTime:     at(17, 0),
	}

	m, err := projector.JoinEvent(ctx, event, "alice")
	require.NoError(t, err)
	assert.Equal(t, "[Event] GopherCon", m.Title)
	assert.Equal(t, "talks", m.Description)
	assert.Equal(t, "alice", m.CreatedBy)
	assert.Equal(t, event.StartTime, m.StartTime)
	assert.Equal(t, event.EndTime, m.EndTime)
	require.NotNil(t, m.EventID)
	assert.Equal(t, "ev-1", *m.EventID)

	t.Run("overlapping event conflicts", func(t *testing.T) {
		other := event
		other.ID = "ev-2"
		other.StartTime = at(16, 0)
		other.EndTime = at(18, 0)
		_, err := projector.JoinEvent(ctx, other, "alice")
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("adjacent event is accepted", func(t *testing.T) {
		other := event
		other.ID = "ev-3"
		other.StartTime = at(17, 0)
		other.EndTime = at(18, 0)
		_, err := projector.JoinEvent(ctx, other, "alice")
		require.NoError(t, err)
	})

	t.Run("invalid event range", func(t *testing.T) {
		other := event
		other.StartTime, other.EndTime = at(20, 0), at(19, 0)
		_, err := projector.JoinEvent(ctx, other, "bob")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

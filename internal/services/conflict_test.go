package services

import (
	"context"
	"testing"
	"time"

	"tempus/internal/domain"
	"tempus/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictDetector(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCalendarStore()
	cal, err := store.GetOrCreateCalendar(ctx, "alice")
	require.NoError(t, err)
	for _, m := range []*domain.Meeting{
		domain.NewMeeting(cal.ID, "a", "", at(9, 0), at(10, 0), "alice", base),
		domain.NewMeeting(cal.ID, "b", "", at(10, 0), at(11, 0), "alice", base),
	} {
		require.NoError(t, store.InsertMeeting(ctx, m))
	}
	d := NewConflictDetector(store)

	tests := []struct {
		name       string
		start, end time.Time
		want       []string
	}{
		{name: "before all", start: at(7, 0), end: at(9, 0), want: []string{}},
		{name: "after all", start: at(11, 0), end: at(12, 0), want: []string{}},
		{name: "first only", start: at(8, 0), end: at(9, 1), want: []string{"a"}},
		{name: "spans boundary", start: at(9, 59), end: at(10, 1), want: []string{"a", "b"}},
		{name: "inside second", start: at(10, 15), end: at(10, 45), want: []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Conflicts(ctx, cal.ID, tt.start, tt.end)
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, m := range got {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.want, titles)

			has, err := d.HasConflict(ctx, cal.ID, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want) > 0, has)

			first, err := d.FirstConflict(ctx, cal.ID, tt.start, tt.end)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Nil(t, first)
			} else {
				require.NotNil(t, first)
				assert.Equal(t, tt.want[0], first.Title)
			}
		})
	}
}

func TestConflictDetector_IgnoresCancelled(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCalendarStore()
	cal, err := store.GetOrCreateCalendar(ctx, "alice")
	require.NoError(t, err)
	m := domain.NewMeeting(cal.ID, "a", "", at(9, 0), at(10, 0), "alice", base)
	require.NoError(t, store.InsertMeeting(ctx, m))
	require.NoError(t, store.CancelMeeting(ctx, m.ID, base))

	has, err := NewConflictDetector(store).HasConflict(ctx, cal.ID, at(9, 0), at(10, 0))
	require.NoError(t, err)
	assert.False(t, has)
}

package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		s1, e1 time.Time
		s2, e2 time.Time
		want   bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"containing", at(10, 30), at(11, 0), at(10, 0), at(12, 0), true},
		{"touching after", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"touching before", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1), "overlap must be symmetric")
		})
	}
}

func TestBookingRequest_Validate(t *testing.T) {
	valid := func() BookingRequest {
		return BookingRequest{
			OwnerID:   "u1",
			CreatorID: "u1",
			Title:     "  Standup ",
			StartTime: at(9, 0),
			EndTime:   at(9, 15),
		}
	}

	tests := []struct {
		name      string
		mutate    func(r *BookingRequest)
		wantField string
	}{
		{"valid", func(r *BookingRequest) {}, ""},
		{"missing owner", func(r *BookingRequest) { r.OwnerID = "" }, "owner_id"},
		{"missing creator", func(r *BookingRequest) { r.CreatorID = " " }, "creator_id"},
		{"blank title", func(r *BookingRequest) { r.Title = "   " }, "title"},
		{"zero start", func(r *BookingRequest) { r.StartTime = time.Time{} }, "start_time"},
		{"end equals start", func(r *BookingRequest) { r.EndTime = r.StartTime }, "end_time"},
		{"end before start", func(r *BookingRequest) { r.EndTime = at(8, 0) }, "end_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Standup", req.Title)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestConflictError(t *testing.T) {
	err := error(&ConflictError{Meeting: &Meeting{ID: 4, Title: "Review", StartTime: at(10, 0), EndTime: at(11, 0)}})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), `meeting 4 "Review" [2025-03-10T10:00:00Z, 2025-03-10T11:00:00Z)`)

	bare := &ConflictError{}
	assert.Equal(t, ErrConflict.Error(), bare.Error())
}

func TestMeeting_Validate(t *testing.T) {
	m := NewMeeting(1, "Sync", "", at(10, 0), at(11, 0), "u1", at(8, 0))
	require.NoError(t, m.Validate())
	assert.Equal(t, MeetingStatusScheduled, m.Status)

	m.Title = ""
	assert.ErrorIs(t, m.Validate(), ErrInvalidInput)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tempus/internal/domain"
)

const meetingColumns = `id, calendar_id, title, description, start_time, end_time, status, created_by, event_id, created_at, cancelled_at`

type calendarStore struct {
	// db is nil for a store bound to a transaction.
	db *sql.DB
	q  dbtx
}

// NewCalendarStore returns a domain.CalendarStore backed by Postgres. Writes made
// through Locked are serialized per calendar with a transaction-scoped advisory
// lock; the meetings_no_overlap exclusion constraint backs this up.
func NewCalendarStore(db *sql.DB) domain.CalendarStore {
	return &calendarStore{db: db, q: db}
}

func (s *calendarStore) GetOrCreateCalendar(ctx context.Context, ownerID string) (*domain.Calendar, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "owner_id is required")
	}
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO calendars (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
		RETURNING id, owner_id, created_at
	`
	c := &domain.Calendar{}
	err := s.q.QueryRowContext(ctx, query, ownerID).Scan(&c.ID, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		switch pqCode(err) {
		case pqForeignKeyViolation, pqInvalidTextRepr:
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *calendarStore) ListMeetings(ctx context.Context, calendarID int64) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE calendar_id = $1 AND status = 'scheduled'
		ORDER BY start_time, id
	`
	return s.queryMeetings(ctx, query, calendarID)
}

func (s *calendarStore) ListMeetingsInRange(ctx context.Context, calendarID int64, from, to time.Time) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE calendar_id = $1 AND status = 'scheduled'
			AND start_time < $3 AND end_time > $2
		ORDER BY start_time, id
	`
	return s.queryMeetings(ctx, query, calendarID, from, to)
}

func (s *calendarStore) GetMeeting(ctx context.Context, meetingID int64) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	m, err := scanMeeting(s.q.QueryRowContext(ctx, query, meetingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *calendarStore) InsertMeeting(ctx context.Context, m *domain.Meeting) error {
	if err := m.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO meetings (calendar_id, title, description, start_time, end_time, status, created_by, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7, $8)
		RETURNING id
	`
	var eventID sql.NullString
	if m.EventID != nil {
		eventID = sql.NullString{String: *m.EventID, Valid: true}
	}
	err := s.q.QueryRowContext(ctx, query,
		m.CalendarID, m.Title, m.Description, m.StartTime, m.EndTime, m.CreatedBy, eventID, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		switch pqCode(err) {
		case pqExclusionViolation:
			return &domain.ConflictError{}
		case pqCheckViolation:
			return domain.NewValidationError("end_time", "end_time must be after start_time")
		case pqForeignKeyViolation:
			return domain.ErrNotFound
		}
		return err
	}
	m.Status = domain.MeetingStatusScheduled
	m.CancelledAt = nil
	return nil
}

func (s *calendarStore) CancelMeeting(ctx context.Context, meetingID int64, at time.Time) error {
	query := `
		UPDATE meetings
		SET status = 'cancelled', cancelled_at = $2
		WHERE id = $1 AND status = 'scheduled'
	`
	res, err := s.q.ExecContext(ctx, query, meetingID, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *calendarStore) Locked(ctx context.Context, calendarID int64, fn func(domain.CalendarStore) error) error {
	if s.db == nil {
		return errors.New("calendar store: Locked called inside Locked")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, calendarID); err != nil {
		return fmt.Errorf("lock calendar %d: %w", calendarID, err)
	}
	if err := fn(&calendarStore{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *calendarStore) queryMeetings(ctx context.Context, query string, args ...any) ([]*domain.Meeting, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	m := &domain.Meeting{}
	var (
		status      string
		eventID     sql.NullString
		cancelledAt sql.NullTime
	)
	err := row.Scan(
		&m.ID, &m.CalendarID, &m.Title, &m.Description, &m.StartTime, &m.EndTime,
		&status, &m.CreatedBy, &eventID, &m.CreatedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MeetingStatus(status)
	if eventID.Valid {
		m.EventID = &eventID.String
	}
	if cancelledAt.Valid {
		m.CancelledAt = &cancelledAt.Time
	}
	return m, nil
}

package worksession

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const sessionColumns = `
  id, event_id, staff_id, staff_name, role, work_date,
  status, scheduled_start, scheduled_end, actual_start, actual_end,
  hours_worked, is_estimate, created_at, updated_at
`

func (s *Store) Get(ctx context.Context, id string) (WorkSession, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+sessionColumns+" FROM work_sessions WHERE id = $1", id)
	return scanSession(row)
}

func (s *Store) GetByKey(ctx context.Context, eventID, staffID, workDate string) (WorkSession, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+sessionColumns+`
    FROM work_sessions
    WHERE event_id = $1 AND staff_id = $2 AND work_date = $3
  `, eventID, staffID, workDate)
	return scanSession(row)
}

func (s *Store) ListByEvent(ctx context.Context, eventID, from, to string) ([]WorkSession, error) {
	return s.list(ctx, "SELECT "+sessionColumns+`
    FROM work_sessions
    WHERE event_id = $1
      AND ($2 = '' OR work_date >= $2)
      AND ($3 = '' OR work_date <= $3)
    ORDER BY work_date, staff_name
  `, eventID, from, to)
}

func (s *Store) ListByStaff(ctx context.Context, staffID, from, to string) ([]WorkSession, error) {
	return s.list(ctx, "SELECT "+sessionColumns+`
    FROM work_sessions
    WHERE staff_id = $1
      AND ($2 = '' OR work_date >= $2)
      AND ($3 = '' OR work_date <= $3)
    ORDER BY work_date
  `, staffID, from, to)
}

func (s *Store) Create(ctx context.Context, session WorkSession) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO work_sessions
      (id, event_id, staff_id, staff_name, role, work_date, status,
       scheduled_start, scheduled_end, actual_start, actual_end,
       hours_worked, is_estimate, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, session.ID, session.EventID, session.StaffID, session.StaffName, session.Role,
		session.WorkDate, session.Status, session.ScheduledStart, session.ScheduledEnd,
		session.ActualStart, session.ActualEnd, session.HoursWorked, session.IsEstimate,
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Transition relies on the single-row atomicity of UPDATE: two concurrent
// transitions from the same status cannot both match the WHERE clause.
func (s *Store) Transition(ctx context.Context, id string, from, to Status, patch TimesPatch) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_sessions
    SET status = $1, actual_start = $2, actual_end = $3,
        hours_worked = $4, is_estimate = $5, updated_at = now()
    WHERE id = $6 AND status = $7
  `, to, patch.ActualStart, patch.ActualEnd, patch.HoursWorked, patch.IsEstimate, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AmendTimes(ctx context.Context, id string, actualStart, actualEnd *time.Time, hoursWorked float64, isEstimate bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_sessions
    SET actual_start = $1, actual_end = $2, hours_worked = $3, is_estimate = $4, updated_at = now()
    WHERE id = $5
  `, actualStart, actualEnd, hoursWorked, isEstimate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]WorkSession, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []WorkSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (WorkSession, error) {
	var session WorkSession
	err := row.Scan(
		&session.ID, &session.EventID, &session.StaffID, &session.StaffName, &session.Role,
		&session.WorkDate, &session.Status, &session.ScheduledStart, &session.ScheduledEnd,
		&session.ActualStart, &session.ActualEnd, &session.HoursWorked, &session.IsEstimate,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkSession{}, ErrNotFound
	}
	return session, err
}

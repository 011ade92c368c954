package settlement

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

const batchColumns = `
  id, event_id, date_from, date_to, status, total_staff, total_pay, created_at, locked_at
`

const rowColumns = `
  id, batch_id, staff_id, staff_name, total_hours, total_pay, final_confirmed, confirmed_at
`

func (s *Store) GetBatch(ctx context.Context, id string) (Batch, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+batchColumns+" FROM settlement_batches WHERE id = $1", id)
	return scanBatch(row)
}

func (s *Store) ListBatches(ctx context.Context, eventID string) ([]Batch, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+batchColumns+" FROM settlement_batches WHERE event_id = $1 ORDER BY created_at DESC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func (s *Store) CreateBatch(ctx context.Context, batch Batch, rows []Row) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    INSERT INTO settlement_batches (id, event_id, date_from, date_to, status, total_staff, total_pay, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, batch.ID, batch.EventID, batch.From, batch.To, batch.Status, batch.TotalStaff, batch.TotalPay, batch.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}

	batchInsert := &pgx.Batch{}
	for _, row := range rows {
		batchInsert.Queue(`
      INSERT INTO settlement_rows (id, batch_id, staff_id, staff_name, total_hours, total_pay, final_confirmed)
      VALUES ($1,$2,$3,$4,$5,$6,false)
    `, row.ID, row.BatchID, row.StaffID, row.StaffName, row.TotalHours, row.TotalPay)
	}
	if err := tx.SendBatch(ctx, batchInsert).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Rows(ctx context.Context, batchID string) ([]Row, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+rowColumns+" FROM settlement_rows WHERE batch_id = $1 ORDER BY staff_name, staff_id", batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.BatchID, &r.StaffID, &r.StaffName,
			&r.TotalHours, &r.TotalPay, &r.FinalConfirmed, &r.ConfirmedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ConfirmRow(ctx context.Context, batchID, rowID string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE settlement_rows
    SET final_confirmed = true, confirmed_at = $1
    WHERE id = $2 AND batch_id = $3 AND final_confirmed = false
  `, at, rowID, batchID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing matched: either the row is already confirmed (a no-op) or the
	// id is wrong. Tell those apart so the caller can 404 the latter.
	var exists bool
	err = s.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM settlement_rows WHERE id = $1 AND batch_id = $2)", rowID, batchID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrRowNotFound
	}
	return false, nil
}

// Lock flips the batch to locked and marks the payroll breakdowns of every
// session inside the batch window paid, in one transaction. The CAS on the
// status column keeps two concurrent finalizes from both succeeding.
func (s *Store) Lock(ctx context.Context, batchID string, at time.Time) (bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var eventID, from, to string
	err = tx.QueryRow(ctx, `
    UPDATE settlement_batches
    SET status = $1, locked_at = $2
    WHERE id = $3 AND status = $4
    RETURNING event_id, date_from, date_to
  `, BatchLocked, at, batchID, BatchOpen).Scan(&eventID, &from, &to)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `
    UPDATE payroll_breakdowns pb
    SET is_paid = true
    FROM work_sessions ws
    WHERE pb.session_id = ws.id
      AND ws.event_id = $1
      AND ($2 = '' OR ws.work_date >= $2)
      AND ($3 = '' OR ws.work_date <= $3)
  `, eventID, from, to)
	if err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// SessionLocked reports whether a session falls inside any locked batch's
// window. The work-session and dispute services call this before every
// mutation.
func (s *Store) SessionLocked(ctx context.Context, sessionID string) (bool, error) {
	var locked bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1
      FROM settlement_batches b
      JOIN work_sessions ws ON ws.event_id = b.event_id
      WHERE ws.id = $1
        AND b.status = $2
        AND (b.date_from = '' OR ws.work_date >= b.date_from)
        AND (b.date_to = '' OR ws.work_date <= b.date_to)
    )
  `, sessionID, BatchLocked).Scan(&locked)
	return locked, err
}

func scanBatch(row pgx.Row) (Batch, error) {
	var batch Batch
	err := row.Scan(&batch.ID, &batch.EventID, &batch.From, &batch.To, &batch.Status,
		&batch.TotalStaff, &batch.TotalPay, &batch.CreatedAt, &batch.LockedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, ErrNotFound
	}
	return batch, err
}

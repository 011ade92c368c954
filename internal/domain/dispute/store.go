package dispute

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const disputeColumns = `
  id, session_id, event_id, staff_id, reason, status,
  COALESCE(resolution_note, ''), created_at, resolved_at
`

func (s *Store) Get(ctx context.Context, id string) (Dispute, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+disputeColumns+" FROM disputes WHERE id = $1", id)
	return scanDispute(row)
}

func (s *Store) ListByEvent(ctx context.Context, eventID string) ([]Dispute, error) {
	return s.list(ctx, "SELECT "+disputeColumns+" FROM disputes WHERE event_id = $1 ORDER BY created_at DESC", eventID)
}

func (s *Store) ListByStaff(ctx context.Context, staffID string) ([]Dispute, error) {
	return s.list(ctx, "SELECT "+disputeColumns+" FROM disputes WHERE staff_id = $1 ORDER BY created_at DESC", staffID)
}

func (s *Store) Create(ctx context.Context, dispute Dispute) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO disputes (id, session_id, event_id, staff_id, reason, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, dispute.ID, dispute.SessionID, dispute.EventID, dispute.StaffID, dispute.Reason, dispute.Status, dispute.CreatedAt)
	return err
}

func (s *Store) Resolve(ctx context.Context, id string, status Status, note string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE disputes
    SET status = $1, resolution_note = $2, resolved_at = $3
    WHERE id = $4 AND status = $5
  `, status, note, at, id, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Dispute, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []Dispute
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, dispute)
	}
	return disputes, rows.Err()
}

func scanDispute(row pgx.Row) (Dispute, error) {
	var dispute Dispute
	err := row.Scan(&dispute.ID, &dispute.SessionID, &dispute.EventID, &dispute.StaffID,
		&dispute.Reason, &dispute.Status, &dispute.ResolutionNote, &dispute.CreatedAt, &dispute.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dispute{}, ErrNotFound
	}
	return dispute, err
}

package settlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shiftpay/internal/domain/payroll"
)

type Service struct {
	store   StoreAPI
	summary SummarySource
	audit   AuditRecorder
	now     func() time.Time

	// StatementDir is where rendered statement PDFs land.
	StatementDir string
}

func NewService(store StoreAPI, summary SummarySource, audit AuditRecorder) *Service {
	return &Service{store: store, summary: summary, audit: audit, now: time.Now, StatementDir: "storage/statements"}
}

// CreateBatch snapshots the current aggregation for the event and range
// into a new open batch, one row per staff member.
func (s *Service) CreateBatch(ctx context.Context, eventID string, rng payroll.DateRange) (Batch, error) {
	result, err := s.summary.Summary(ctx, eventID, rng)
	if err != nil {
		return Batch{}, err
	}
	if len(result.Staff) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	batch := Batch{
		ID:         uuid.NewString(),
		EventID:    eventID,
		From:       rng.From,
		To:         rng.To,
		Status:     BatchOpen,
		TotalStaff: result.Summary.TotalStaff,
		TotalPay:   result.Summary.TotalPay,
		CreatedAt:  s.now().UTC(),
	}

	rows := make([]Row, 0, len(result.Staff))
	for _, staff := range result.Staff {
		rows = append(rows, Row{
			ID:         uuid.NewString(),
			BatchID:    batch.ID,
			StaffID:    staff.StaffID,
			StaffName:  staff.StaffName,
			TotalHours: staff.TotalHours,
			TotalPay:   staff.TotalPay,
		})
	}

	if err := s.store.CreateBatch(ctx, batch, rows); err != nil {
		return Batch{}, err
	}
	return batch, nil
}

func (s *Service) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	return s.store.GetBatch(ctx, batchID)
}

func (s *Service) ListBatches(ctx context.Context, eventID string) ([]Batch, error) {
	return s.store.ListBatches(ctx, eventID)
}

func (s *Service) Rows(ctx context.Context, batchID string) ([]Row, error) {
	return s.store.Rows(ctx, batchID)
}

// ConfirmRow marks one staff member's line as finally confirmed. Confirming
// an already-confirmed row is a no-op, not an error.
func (s *Service) ConfirmRow(ctx context.Context, batchID, rowID string) error {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.IsLocked() {
		return ErrBatchLocked
	}
	if _, err := s.store.ConfirmRow(ctx, batchID, rowID, s.now().UTC()); err != nil {
		return err
	}
	return nil
}

// Finalize locks the batch. The precondition is every row confirmed; a
// single unconfirmed row rejects the whole call and nothing changes. On
// success the lock and the is-paid flags on every member session's payroll
// land atomically, and the batch never reopens.
func (s *Service) Finalize(ctx context.Context, batchID, actorID string) (Batch, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}
	if batch.IsLocked() {
		return Batch{}, ErrBatchLocked
	}

	rows, err := s.store.Rows(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}
	if len(rows) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	var unconfirmed []string
	for _, row := range rows {
		if !row.FinalConfirmed {
			unconfirmed = append(unconfirmed, row.StaffID)
		}
	}
	if len(unconfirmed) > 0 {
		return Batch{}, &UnconfirmedError{BatchID: batchID, StaffIDs: unconfirmed}
	}

	lockedAt := s.now().UTC()
	applied, err := s.store.Lock(ctx, batchID, lockedAt)
	if err != nil {
		return Batch{}, err
	}
	if !applied {
		return Batch{}, ErrBatchLocked
	}

	before := batch
	batch.Status = BatchLocked
	batch.LockedAt = &lockedAt

	if s.audit != nil {
		if err := s.audit.Record(ctx, actorID, "settlement.finalize", "settlement_batch", batchID, before, batch); err != nil {
			slog.Warn("settlement finalize audit failed", "batch", batchID, "err", err)
		}
	}
	return batch, nil
}

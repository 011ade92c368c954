package settlement

import (
	"context"
	"time"

	"shiftpay/internal/domain/payroll"
)

type StoreAPI interface {
	GetBatch(ctx context.Context, id string) (Batch, error)
	ListBatches(ctx context.Context, eventID string) ([]Batch, error)
	// CreateBatch persists the batch and its rows in one transaction.
	CreateBatch(ctx context.Context, batch Batch, rows []Row) error
	Rows(ctx context.Context, batchID string) ([]Row, error)
	// ConfirmRow flips final_confirmed for one row and reports whether the
	// row existed and was still unconfirmed.
	ConfirmRow(ctx context.Context, batchID, rowID string, at time.Time) (bool, error)
	// Lock moves the batch to locked and marks every member session's
	// payroll breakdown paid, atomically. It reports false when the batch
	// was not open, which is how a concurrent finalize surfaces.
	Lock(ctx context.Context, batchID string, at time.Time) (bool, error)
}

// SummarySource supplies the aggregation a new batch snapshots its rows
// from. Satisfied by the payroll service.
type SummarySource interface {
	Summary(ctx context.Context, eventID string, rng payroll.DateRange) (payroll.Result, error)
}

// AuditRecorder mirrors the audit log's Record method so finalization can
// leave a trail without importing the audit package.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entity, entityID string, before, after any) error
}

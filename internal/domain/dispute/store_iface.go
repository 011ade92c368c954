package dispute

import (
	"context"
	"time"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Dispute, error)
	ListByEvent(ctx context.Context, eventID string) ([]Dispute, error)
	ListByStaff(ctx context.Context, staffID string) ([]Dispute, error)
	Create(ctx context.Context, dispute Dispute) error
	// Resolve moves a pending dispute to a terminal status. It reports false
	// when the dispute was not pending, so a concurrent resolution loses
	// cleanly.
	Resolve(ctx context.Context, id string, status Status, note string, at time.Time) (bool, error)
}

// AuditRecorder appends an immutable before/after record of an amendment.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

// Recalculator re-runs payroll aggregation for one staff member after an
// approved amendment. Satisfied by the payroll service.
type Recalculator interface {
	Recalculate(ctx context.Context, eventID, staffID, workDate string) error
}

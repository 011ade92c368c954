package worksession

import (
	"context"
	"time"
)

// TimesPatch carries the timestamp columns a transition writes alongside the
// status change, so the row is updated in one statement.
type TimesPatch struct {
	ActualStart *time.Time
	ActualEnd   *time.Time
	HoursWorked float64
	IsEstimate  bool
}

type StoreAPI interface {
	Get(ctx context.Context, id string) (WorkSession, error)
	GetByKey(ctx context.Context, eventID, staffID, workDate string) (WorkSession, error)
	ListByEvent(ctx context.Context, eventID, from, to string) ([]WorkSession, error)
	ListByStaff(ctx context.Context, staffID, from, to string) ([]WorkSession, error)
	Create(ctx context.Context, session WorkSession) error
	// Transition performs a compare-and-set on the status column and applies
	// the patch in the same statement. It reports false when the row was not
	// in the expected from-status, which is how a lost race surfaces.
	Transition(ctx context.Context, id string, from, to Status, patch TimesPatch) (bool, error)
	// AmendTimes overwrites the actual pair outside the lifecycle, the
	// dispute-approval path only.
	AmendTimes(ctx context.Context, id string, actualStart, actualEnd *time.Time, hoursWorked float64, isEstimate bool) error
}

// SettlementGuard answers whether a session has been locked by a settlement
// batch. Implemented by the settlement store; injected to avoid owning that
// table here.
type SettlementGuard interface {
	SessionLocked(ctx context.Context, sessionID string) (bool, error)
}

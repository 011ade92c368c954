package payroll

import (
	"context"

	"shiftpay/internal/domain/worksession"
)

type StoreAPI interface {
	// ListSessions reads the current session rows; aggregation never reuses
	// a cached copy across a recompute boundary.
	ListSessions(ctx context.Context, eventID, from, to string) ([]worksession.WorkSession, error)
	ListStaffSessions(ctx context.Context, eventID, staffID, from, to string) ([]worksession.WorkSession, error)
	WageProfiles(ctx context.Context, eventID string) (map[string]WageProfile, error)
	UpsertWageProfile(ctx context.Context, eventID string, profile WageProfile) error
	// WriteBreakdowns persists one chunk in a single transaction.
	WriteBreakdowns(ctx context.Context, breakdowns []Breakdown) error
	ListBreakdowns(ctx context.Context, eventID, from, to string) ([]Breakdown, error)
}

// CacheAPI is the slice of the platform cache this package needs.
type CacheAPI interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// ProgressFunc observes chunked writes: committed staff so far out of total.
type ProgressFunc func(committed, total int)

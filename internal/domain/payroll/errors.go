package payroll

import (
	"errors"
	"fmt"
)

var ErrNoSessions = errors.New("no work sessions in range")

// PartialWriteError reports a payroll run that failed mid-write. Committed
// chunks stay committed; the caller re-runs for the remaining staff only.
// Per-session upserts make the retry safe.
type PartialWriteError struct {
	EventID        string
	CommittedStaff []string
	RemainingStaff []string
	Cause          error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("payroll run for event %s failed after %d of %d staff: %v",
		e.EventID, len(e.CommittedStaff), len(e.CommittedStaff)+len(e.RemainingStaff), e.Cause)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Cause
}

package settlement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("settlement batch not found")
	ErrRowNotFound   = errors.New("settlement row not found")
	ErrBatchLocked   = errors.New("settlement batch is locked")
	ErrEmptyBatch    = errors.New("settlement batch has no rows")
	ErrAlreadyExists = errors.New("settlement batch already exists for range")
)

// UnconfirmedError rejects finalization while any row is unconfirmed, and
// names the staff members still outstanding.
type UnconfirmedError struct {
	BatchID  string
	StaffIDs []string
}

func (e *UnconfirmedError) Error() string {
	return fmt.Sprintf("batch %s has unconfirmed rows for staff: %s", e.BatchID, strings.Join(e.StaffIDs, ", "))
}

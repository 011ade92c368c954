package dispute

import "errors"

var (
	ErrReasonEmpty     = errors.New("dispute reason is empty")
	ErrReasonTooShort  = errors.New("dispute reason must be at least 10 characters")
	ErrNotFound        = errors.New("dispute not found")
	ErrNotOwner        = errors.New("dispute can only be filed by the session's staff member")
	ErrAlreadyResolved = errors.New("dispute has already been resolved")
)

package worksession

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("work session not found")
	ErrAlreadyExists = errors.New("work session already exists for staff and date")
	ErrSessionLocked = errors.New("work session belongs to a locked settlement batch")
)

// TransitionError reports an illegal lifecycle transition with enough
// context for the caller to retry or render a precise message.
type TransitionError struct {
	SessionID string
	From      Status
	To        Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s for work session %s", e.From, e.To, e.SessionID)
}

package worksession

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrConflict = errors.New("work session was modified concurrently")

type Service struct {
	store StoreAPI
	guard SettlementGuard
	now   func() time.Time
}

func NewService(store StoreAPI, guard SettlementGuard) *Service {
	return &Service{store: store, guard: guard, now: time.Now}
}

// Create opens a session in scheduled state when a staff assignment is
// confirmed.
func (s *Service) Create(ctx context.Context, input CreateInput) (WorkSession, error) {
	now := s.now().UTC()
	session := WorkSession{
		ID:             uuid.NewString(),
		EventID:        input.EventID,
		StaffID:        input.StaffID,
		StaffName:      input.StaffName,
		Role:           input.Role,
		WorkDate:       input.WorkDate,
		Status:         StatusScheduled,
		ScheduledStart: ParseTime(input.ScheduledStart),
		ScheduledEnd:   ParseTime(input.ScheduledEnd),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	session.RefreshDerived()
	if err := s.store.Create(ctx, session); err != nil {
		return WorkSession{}, err
	}
	return session, nil
}

// CheckIn records the check-in attendance event.
func (s *Service) CheckIn(ctx context.Context, sessionID string, at any) (WorkSession, error) {
	return s.transition(ctx, sessionID, StatusCheckedIn, func(session *WorkSession) {
		session.ActualStart = defaultedTime(at, s.now)
	})
}

// CheckOut records the check-out attendance event.
func (s *Service) CheckOut(ctx context.Context, sessionID string, at any) (WorkSession, error) {
	return s.transition(ctx, sessionID, StatusCheckedOut, func(session *WorkSession) {
		session.ActualEnd = defaultedTime(at, s.now)
	})
}

// Complete administratively closes a checked-out session.
func (s *Service) Complete(ctx context.Context, sessionID string) (WorkSession, error) {
	return s.transition(ctx, sessionID, StatusCompleted, nil)
}

// Cancel voids a scheduled session.
func (s *Service) Cancel(ctx context.Context, sessionID string) (WorkSession, error) {
	return s.transition(ctx, sessionID, StatusCancelled, nil)
}

func (s *Service) Get(ctx context.Context, sessionID string) (WorkSession, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) ListByEvent(ctx context.Context, eventID, from, to string) ([]WorkSession, error) {
	return s.store.ListByEvent(ctx, eventID, from, to)
}

func (s *Service) ListByStaff(ctx context.Context, staffID, from, to string) ([]WorkSession, error) {
	return s.store.ListByStaff(ctx, staffID, from, to)
}

func (s *Service) transition(ctx context.Context, sessionID string, to Status, mutate func(*WorkSession)) (WorkSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return WorkSession{}, err
	}

	if locked, err := s.guard.SessionLocked(ctx, sessionID); err != nil {
		return WorkSession{}, err
	} else if locked {
		return WorkSession{}, ErrSessionLocked
	}

	from := session.Status
	if !CanTransition(from, to) {
		return WorkSession{}, &TransitionError{SessionID: sessionID, From: from, To: to}
	}

	if mutate != nil {
		mutate(&session)
	}
	session.RefreshDerived()

	patch := TimesPatch{
		ActualStart: session.ActualStart,
		ActualEnd:   session.ActualEnd,
		HoursWorked: session.HoursWorked,
		IsEstimate:  session.IsEstimate,
	}
	applied, err := s.store.Transition(ctx, sessionID, from, to, patch)
	if err != nil {
		return WorkSession{}, err
	}
	if !applied {
		return WorkSession{}, ErrConflict
	}
	session.Status = to
	return session, nil
}

func defaultedTime(at any, now func() time.Time) *time.Time {
	if parsed := ParseTime(at); parsed != nil {
		return parsed
	}
	t := now().UTC()
	return &t
}

package worksession

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	sessions map[string]WorkSession
}

func newFakeStore(sessions ...WorkSession) *fakeStore {
	store := &fakeStore{sessions: map[string]WorkSession{}}
	for _, session := range sessions {
		store.sessions[session.ID] = session
	}
	return store
}

func (f *fakeStore) Get(_ context.Context, id string) (WorkSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return WorkSession{}, ErrNotFound
	}
	return session, nil
}

func (f *fakeStore) GetByKey(_ context.Context, eventID, staffID, workDate string) (WorkSession, error) {
	for _, session := range f.sessions {
		if session.EventID == eventID && session.StaffID == staffID && session.WorkDate == workDate {
			return session, nil
		}
	}
	return WorkSession{}, ErrNotFound
}

func (f *fakeStore) ListByEvent(_ context.Context, eventID, from, to string) ([]WorkSession, error) {
	var out []WorkSession
	for _, session := range f.sessions {
		if session.EventID == eventID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStaff(_ context.Context, staffID, from, to string) ([]WorkSession, error) {
	var out []WorkSession
	for _, session := range f.sessions {
		if session.StaffID == staffID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, session WorkSession) error {
	if _, exists := f.sessions[session.ID]; exists {
		return ErrAlreadyExists
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) Transition(_ context.Context, id string, from, to Status, patch TimesPatch) (bool, error) {
	session, ok := f.sessions[id]
	if !ok || session.Status != from {
		return false, nil
	}
	session.Status = to
	session.ActualStart = patch.ActualStart
	session.ActualEnd = patch.ActualEnd
	session.HoursWorked = patch.HoursWorked
	session.IsEstimate = patch.IsEstimate
	f.sessions[id] = session
	return true, nil
}

func (f *fakeStore) AmendTimes(_ context.Context, id string, actualStart, actualEnd *time.Time, hoursWorked float64, isEstimate bool) error {
	session, ok := f.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.ActualStart = actualStart
	session.ActualEnd = actualEnd
	session.HoursWorked = hoursWorked
	session.IsEstimate = isEstimate
	f.sessions[id] = session
	return nil
}

type fakeGuard struct {
	locked map[string]bool
}

func (f *fakeGuard) SessionLocked(_ context.Context, sessionID string) (bool, error) {
	return f.locked[sessionID], nil
}

func fixedClock(value string) func() time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return func() time.Time { return t }
}

func TestAttendanceFlow(t *testing.T) {
	store := newFakeStore(WorkSession{ID: "s1", EventID: "e1", StaffID: "staff1", Status: StatusScheduled})
	svc := NewService(store, &fakeGuard{})
	svc.now = fixedClock("2026-01-20T18:00:00Z")

	session, err := svc.CheckIn(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if session.Status != StatusCheckedIn || session.ActualStart == nil {
		t.Fatalf("unexpected session after check-in: %+v", session)
	}
	if !session.IsEstimate {
		t.Fatal("expected estimate flag while check-out is missing")
	}

	svc.now = fixedClock("2026-01-20T23:00:00Z")
	session, err = svc.CheckOut(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if session.Status != StatusCheckedOut {
		t.Fatalf("expected checked_out, got %s", session.Status)
	}
	if session.HoursWorked != 5.0 {
		t.Fatalf("expected 5.0 hours worked, got %v", session.HoursWorked)
	}
	if session.IsEstimate {
		t.Fatal("expected estimate flag cleared after check-out")
	}

	session, err = svc.Complete(context.Background(), "s1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if session.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
}

func TestIllegalTransitionRejectedBeforeWrite(t *testing.T) {
	store := newFakeStore(WorkSession{ID: "s1", Status: StatusScheduled})
	svc := NewService(store, &fakeGuard{})

	_, err := svc.Complete(context.Background(), "s1")
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if transitionErr.From != StatusScheduled || transitionErr.To != StatusCompleted {
		t.Fatalf("unexpected transition error context: %+v", transitionErr)
	}
	if store.sessions["s1"].Status != StatusScheduled {
		t.Fatal("expected no write after rejected transition")
	}
}

func TestCancelOnlyFromScheduled(t *testing.T) {
	store := newFakeStore(WorkSession{ID: "s1", Status: StatusScheduled})
	svc := NewService(store, &fakeGuard{})

	session, err := svc.Cancel(context.Background(), "s1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if session.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", session.Status)
	}

	if _, err := svc.CheckIn(context.Background(), "s1", nil); err == nil {
		t.Fatal("expected check-in after cancel to fail")
	}
}

func TestLockedSessionRejectsAttendance(t *testing.T) {
	store := newFakeStore(WorkSession{ID: "s1", Status: StatusScheduled})
	svc := NewService(store, &fakeGuard{locked: map[string]bool{"s1": true}})

	if _, err := svc.CheckIn(context.Background(), "s1", nil); !errors.Is(err, ErrSessionLocked) {
		t.Fatalf("expected ErrSessionLocked, got %v", err)
	}
}

func TestCreateStartsScheduledWithEstimate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGuard{})
	svc.now = fixedClock("2026-01-19T10:00:00Z")

	session, err := svc.Create(context.Background(), CreateInput{
		EventID:        "e1",
		StaffID:        "staff1",
		StaffName:      "Dana",
		Role:           "dealer",
		WorkDate:       "2026-01-20",
		ScheduledStart: "2026-01-20T19:00:00Z",
		ScheduledEnd:   "2026-01-20T02:00:00Z",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.Status != StatusScheduled {
		t.Fatalf("expected scheduled, got %s", session.Status)
	}
	if !session.IsEstimate {
		t.Fatal("expected estimate flag before attendance events")
	}
	if session.HoursWorked != 7.0 {
		t.Fatalf("expected overnight scheduled span of 7.0 hours, got %v", session.HoursWorked)
	}
}

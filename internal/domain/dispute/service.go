package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shiftpay/internal/domain/worksession"
)

type Service struct {
	store    StoreAPI
	sessions worksession.StoreAPI
	guard    worksession.SettlementGuard
	payroll  Recalculator
	audit    AuditRecorder
	now      func() time.Time
}

func NewService(store StoreAPI, sessions worksession.StoreAPI, guard worksession.SettlementGuard, payroll Recalculator, audit AuditRecorder) *Service {
	return &Service{store: store, sessions: sessions, guard: guard, payroll: payroll, audit: audit, now: time.Now}
}

// File opens a dispute against a computed session. Validation failures and
// locked sessions reject before anything is persisted.
func (s *Service) File(ctx context.Context, sessionID, staffID, reason string) (Dispute, error) {
	if err := ValidateReason(reason); err != nil {
		return Dispute{}, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Dispute{}, err
	}
	if session.StaffID != staffID {
		return Dispute{}, ErrNotOwner
	}
	if locked, err := s.guard.SessionLocked(ctx, sessionID); err != nil {
		return Dispute{}, err
	} else if locked {
		return Dispute{}, worksession.ErrSessionLocked
	}

	filed := Dispute{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		EventID:   session.EventID,
		StaffID:   staffID,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, filed); err != nil {
		return Dispute{}, err
	}
	return filed, nil
}

// Resolve settles a pending dispute. Approval is the only path that amends
// actual attendance timestamps after check-in/out; it re-reads the current
// session, applies the corrections, records a before/after audit event, and
// re-runs aggregation for the affected staff member and date. Rejection
// leaves the session and its payroll untouched.
func (s *Service) Resolve(ctx context.Context, disputeID, approverID string, approve bool, amended *worksession.AmendedTimes, note string) (Dispute, error) {
	filed, err := s.store.Get(ctx, disputeID)
	if err != nil {
		return Dispute{}, err
	}
	if filed.IsResolved() {
		return Dispute{}, ErrAlreadyResolved
	}
	if locked, err := s.guard.SessionLocked(ctx, filed.SessionID); err != nil {
		return Dispute{}, err
	} else if locked {
		return Dispute{}, worksession.ErrSessionLocked
	}

	resolvedAt := s.now().UTC()
	status := StatusRejected
	if approve {
		if err := s.amendAndRecalculate(ctx, filed, approverID, amended); err != nil {
			return Dispute{}, err
		}
		status = StatusApproved
	}

	applied, err := s.store.Resolve(ctx, disputeID, status, note, resolvedAt)
	if err != nil {
		return Dispute{}, err
	}
	if !applied {
		return Dispute{}, ErrAlreadyResolved
	}

	filed.Status = status
	filed.ResolutionNote = note
	filed.ResolvedAt = &resolvedAt
	return filed, nil
}

func (s *Service) Get(ctx context.Context, disputeID string) (Dispute, error) {
	return s.store.Get(ctx, disputeID)
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Dispute, error) {
	return s.store.ListByEvent(ctx, eventID)
}

func (s *Service) ListByStaff(ctx context.Context, staffID string) ([]Dispute, error) {
	return s.store.ListByStaff(ctx, staffID)
}

func (s *Service) amendAndRecalculate(ctx context.Context, filed Dispute, approverID string, amended *worksession.AmendedTimes) error {
	// Always read the current session; a stale copy across a recompute
	// boundary could resurrect pre-dispute timestamps.
	session, err := s.sessions.Get(ctx, filed.SessionID)
	if err != nil {
		return err
	}
	before := session

	if amended != nil {
		if amended.ActualStart != nil {
			session.ActualStart = amended.ActualStart
		}
		if amended.ActualEnd != nil {
			session.ActualEnd = amended.ActualEnd
		}
	}
	session.RefreshDerived()

	if err := s.sessions.AmendTimes(ctx, session.ID, session.ActualStart, session.ActualEnd, session.HoursWorked, session.IsEstimate); err != nil {
		return err
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, approverID, "dispute.approve", "work_session", session.ID, before, session); err != nil {
			slog.Warn("dispute amendment audit failed", "session", session.ID, "err", err)
		}
	}

	return s.payroll.Recalculate(ctx, session.EventID, session.StaffID, session.WorkDate)
}

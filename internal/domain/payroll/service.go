package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Service struct {
	store  StoreAPI
	cache  CacheAPI
	deduct DeductionFunc
	now    func() time.Time
}

func NewService(store StoreAPI, cache CacheAPI, deduct DeductionFunc) *Service {
	if deduct == nil {
		deduct = NoDeductions
	}
	return &Service{store: store, cache: cache, deduct: deduct, now: time.Now}
}

// Run settles an event's sessions for the range and persists the per-session
// breakdowns in bounded chunks. A chunk never splits one staff member's
// rows, and every breakdown write is an upsert, so re-running after a
// partial failure is safe and recomputing an unchanged session is
// byte-identical.
func (s *Service) Run(ctx context.Context, eventID string, rng DateRange, progress ProgressFunc) (RunReport, error) {
	sessions, err := s.store.ListSessions(ctx, eventID, rng.From, rng.To)
	if err != nil {
		return RunReport{}, err
	}
	if len(sessions) == 0 {
		return RunReport{}, ErrNoSessions
	}

	profiles, err := s.store.WageProfiles(ctx, eventID)
	if err != nil {
		return RunReport{}, err
	}

	result := Calculate(sessions, profiles, rng, s.deduct, s.now().UTC())
	report := RunReport{EventID: eventID, Result: result}

	total := len(result.Staff)
	for _, chunk := range chunkByStaff(result.Staff, MaxChunkMutations) {
		var breakdowns []Breakdown
		var staffIDs []string
		for _, summary := range chunk {
			breakdowns = append(breakdowns, summary.Breakdowns...)
			staffIDs = append(staffIDs, summary.StaffID)
		}

		if err := s.store.WriteBreakdowns(ctx, breakdowns); err != nil {
			report.RemainingStaff = remainingStaff(result.Staff, report.CommittedStaff)
			return report, &PartialWriteError{
				EventID:        eventID,
				CommittedStaff: report.CommittedStaff,
				RemainingStaff: report.RemainingStaff,
				Cause:          err,
			}
		}
		report.CommittedStaff = append(report.CommittedStaff, staffIDs...)
		if progress != nil {
			progress(len(report.CommittedStaff), total)
		}
	}

	s.refreshCache(ctx, eventID, rng, result)
	return report, nil
}

// RunForStaff recomputes one staff member after a dispute amendment.
func (s *Service) RunForStaff(ctx context.Context, eventID, staffID string, rng DateRange) (StaffSummary, error) {
	sessions, err := s.store.ListStaffSessions(ctx, eventID, staffID, rng.From, rng.To)
	if err != nil {
		return StaffSummary{}, err
	}
	if len(sessions) == 0 {
		return StaffSummary{}, ErrNoSessions
	}

	profiles, err := s.store.WageProfiles(ctx, eventID)
	if err != nil {
		return StaffSummary{}, err
	}

	result := Calculate(sessions, profiles, rng, s.deduct, s.now().UTC())
	if len(result.Staff) == 0 {
		return StaffSummary{}, ErrNoSessions
	}
	summary := result.Staff[0]

	if err := s.store.WriteBreakdowns(ctx, summary.Breakdowns); err != nil {
		return StaffSummary{}, err
	}
	s.invalidate(ctx, eventID)
	return summary, nil
}

// Recalculate re-settles one staff member's single day, the hook the
// dispute flow calls after an approved amendment.
func (s *Service) Recalculate(ctx context.Context, eventID, staffID, workDate string) error {
	_, err := s.RunForStaff(ctx, eventID, staffID, DateRange{From: workDate, To: workDate})
	return err
}

// Summary recomputes the batch summary for an event and range, serving a
// cached copy when one is fresh.
func (s *Service) Summary(ctx context.Context, eventID string, rng DateRange) (Result, error) {
	key := summaryKey(eventID, rng)
	if s.cache != nil {
		var cached Result
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	sessions, err := s.store.ListSessions(ctx, eventID, rng.From, rng.To)
	if err != nil {
		return Result{}, err
	}
	profiles, err := s.store.WageProfiles(ctx, eventID)
	if err != nil {
		return Result{}, err
	}

	result := Calculate(sessions, profiles, rng, s.deduct, s.now().UTC())
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result); err != nil {
			slog.Warn("payroll summary cache write failed", "event", eventID, "err", err)
		}
	}
	return result, nil
}

// Breakdowns reads the persisted per-session settlements for an event.
func (s *Service) Breakdowns(ctx context.Context, eventID string, rng DateRange) ([]Breakdown, error) {
	return s.store.ListBreakdowns(ctx, eventID, rng.From, rng.To)
}

func (s *Service) SetWageProfile(ctx context.Context, eventID string, profile WageProfile) error {
	if err := s.store.UpsertWageProfile(ctx, eventID, profile); err != nil {
		return err
	}
	s.invalidate(ctx, eventID)
	return nil
}

func (s *Service) refreshCache(ctx context.Context, eventID string, rng DateRange, result Result) {
	if s.cache == nil {
		return
	}
	s.invalidate(ctx, eventID)
	if err := s.cache.SetJSON(ctx, summaryKey(eventID, rng), result); err != nil {
		slog.Warn("payroll summary cache write failed", "event", eventID, "err", err)
	}
}

func (s *Service) invalidate(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, "payroll:"+eventID); err != nil {
		slog.Warn("payroll cache invalidation failed", "event", eventID, "err", err)
	}
}

func summaryKey(eventID string, rng DateRange) string {
	return fmt.Sprintf("payroll:%s:summary:%s:%s", eventID, rng.From, rng.To)
}

// chunkByStaff packs staff summaries into chunks of at most maxMutations
// breakdown rows without splitting a staff member across chunks. A single
// staff member larger than the limit still gets a chunk of their own.
func chunkByStaff(staff []StaffSummary, maxMutations int) [][]StaffSummary {
	var chunks [][]StaffSummary
	var current []StaffSummary
	size := 0

	for _, summary := range staff {
		rows := len(summary.Breakdowns)
		if len(current) > 0 && size+rows > maxMutations {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
		current = append(current, summary)
		size += rows
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func remainingStaff(all []StaffSummary, committed []string) []string {
	done := map[string]bool{}
	for _, id := range committed {
		done[id] = true
	}
	var remaining []string
	for _, summary := range all {
		if !done[summary.StaffID] {
			remaining = append(remaining, summary.StaffID)
		}
	}
	return remaining
}

package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftpay/internal/domain/payroll"
)

type fakeStore struct {
	batches map[string]Batch
	rows    map[string][]Row
	paid    map[string]bool // batchID -> Lock marked breakdowns paid
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches: map[string]Batch{},
		rows:    map[string][]Row{},
		paid:    map[string]bool{},
	}
}

func (f *fakeStore) GetBatch(_ context.Context, id string) (Batch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return Batch{}, ErrNotFound
	}
	return batch, nil
}

func (f *fakeStore) ListBatches(_ context.Context, eventID string) ([]Batch, error) {
	var out []Batch
	for _, batch := range f.batches {
		if batch.EventID == eventID {
			out = append(out, batch)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBatch(_ context.Context, batch Batch, rows []Row) error {
	f.batches[batch.ID] = batch
	f.rows[batch.ID] = rows
	return nil
}

func (f *fakeStore) Rows(_ context.Context, batchID string) ([]Row, error) {
	return f.rows[batchID], nil
}

func (f *fakeStore) ConfirmRow(_ context.Context, batchID, rowID string, at time.Time) (bool, error) {
	rows := f.rows[batchID]
	for i, row := range rows {
		if row.ID != rowID {
			continue
		}
		if row.FinalConfirmed {
			return false, nil
		}
		rows[i].FinalConfirmed = true
		rows[i].ConfirmedAt = &at
		return true, nil
	}
	return false, ErrRowNotFound
}

func (f *fakeStore) Lock(_ context.Context, batchID string, at time.Time) (bool, error) {
	batch, ok := f.batches[batchID]
	if !ok || batch.Status != BatchOpen {
		return false, nil
	}
	batch.Status = BatchLocked
	batch.LockedAt = &at
	f.batches[batchID] = batch
	f.paid[batchID] = true
	return true, nil
}

type fakeSummary struct {
	result payroll.Result
}

func (f *fakeSummary) Summary(_ context.Context, _ string, _ payroll.DateRange) (payroll.Result, error) {
	return f.result, nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Record(_ context.Context, _, action, _, _ string, _, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

func fiveStaffResult() payroll.Result {
	staff := []payroll.StaffSummary{
		{StaffID: "staff1", StaffName: "Dealer One", TotalHours: 25, TotalPay: 450000},
		{StaffID: "staff2", StaffName: "Dealer Two", TotalHours: 25, TotalPay: 450000},
		{StaffID: "staff3", StaffName: "Dealer Three", TotalHours: 25, TotalPay: 450000},
		{StaffID: "staff4", StaffName: "Floor One", TotalHours: 25, TotalPay: 500000},
		{StaffID: "staff5", StaffName: "Floor Two", TotalHours: 25, TotalPay: 500000},
	}
	return payroll.Result{
		Staff:   staff,
		Summary: payroll.Summary{TotalStaff: 5, TotalHours: 125, TotalPay: 2350000},
	}
}

func newTestService(store *fakeStore) (*Service, *fakeAudit) {
	audit := &fakeAudit{}
	svc := NewService(store, &fakeSummary{result: fiveStaffResult()}, audit)
	svc.now = func() time.Time { return time.Date(2026, 1, 26, 9, 0, 0, 0, time.UTC) }
	return svc, audit
}

func TestCreateBatchSnapshotsAggregation(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	batch, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{From: "2026-01-20", To: "2026-01-25"})
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	if batch.Status != BatchOpen || batch.TotalStaff != 5 || batch.TotalPay != 2350000 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	rows := store.rows[batch.ID]
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.FinalConfirmed {
			t.Fatalf("new row %s must start unconfirmed", row.StaffID)
		}
	}
}

func TestCreateBatchRejectsEmptyAggregation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeSummary{}, nil)

	if _, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{}); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestConfirmRowUnknownRow(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	batch, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{From: "2026-01-20", To: "2026-01-25"})
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	if err := svc.ConfirmRow(context.Background(), batch.ID, "no-such-row"); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}

	// Re-confirming a confirmed row stays a quiet no-op.
	rowID := store.rows[batch.ID][0].ID
	if err := svc.ConfirmRow(context.Background(), batch.ID, rowID); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if err := svc.ConfirmRow(context.Background(), batch.ID, rowID); err != nil {
		t.Fatalf("re-confirm must not error, got %v", err)
	}
}

func TestFinalizeRejectsWhileAnyRowUnconfirmed(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	batch, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{From: "2026-01-20", To: "2026-01-25"})
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	// Confirm four of five.
	for _, row := range store.rows[batch.ID][:4] {
		if err := svc.ConfirmRow(context.Background(), batch.ID, row.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
	}

	_, err = svc.Finalize(context.Background(), batch.ID, "manager1")
	var unconfirmed *UnconfirmedError
	if !errors.As(err, &unconfirmed) {
		t.Fatalf("expected UnconfirmedError, got %v", err)
	}
	if len(unconfirmed.StaffIDs) != 1 || unconfirmed.StaffIDs[0] != "staff5" {
		t.Fatalf("expected staff5 named outstanding, got %v", unconfirmed.StaffIDs)
	}
	if store.batches[batch.ID].Status != BatchOpen {
		t.Fatal("batch must stay open after a rejected finalize")
	}
	if store.paid[batch.ID] {
		t.Fatal("nothing may be marked paid by a rejected finalize")
	}
}

func TestFinalizeLocksAndMarksPaid(t *testing.T) {
	store := newFakeStore()
	svc, audit := newTestService(store)

	batch, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{From: "2026-01-20", To: "2026-01-25"})
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	for _, row := range store.rows[batch.ID] {
		if err := svc.ConfirmRow(context.Background(), batch.ID, row.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
	}

	locked, err := svc.Finalize(context.Background(), batch.ID, "manager1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !locked.IsLocked() || locked.LockedAt == nil {
		t.Fatalf("expected locked batch, got %+v", locked)
	}
	if !store.paid[batch.ID] {
		t.Fatal("expected member breakdowns marked paid on lock")
	}
	if len(audit.actions) != 1 || audit.actions[0] != "settlement.finalize" {
		t.Fatalf("expected one finalize audit record, got %v", audit.actions)
	}
}

func TestLockIsOneWay(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	batch, err := svc.CreateBatch(context.Background(), "e1", payroll.DateRange{From: "2026-01-20", To: "2026-01-25"})
	if err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	rows := store.rows[batch.ID]
	for _, row := range rows {
		if err := svc.ConfirmRow(context.Background(), batch.ID, row.ID); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
	}
	if _, err := svc.Finalize(context.Background(), batch.ID, "manager1"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if _, err := svc.Finalize(context.Background(), batch.ID, "manager1"); !errors.Is(err, ErrBatchLocked) {
		t.Fatalf("expected ErrBatchLocked on second finalize, got %v", err)
	}
	if err := svc.ConfirmRow(context.Background(), batch.ID, rows[0].ID); !errors.Is(err, ErrBatchLocked) {
		t.Fatalf("expected ErrBatchLocked on confirm after lock, got %v", err)
	}
}

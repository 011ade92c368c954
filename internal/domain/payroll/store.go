package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftpay/internal/domain/worksession"
)

type Store struct {
	DB       *pgxpool.Pool
	sessions *worksession.Store
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db, sessions: worksession.NewStore(db)}
}

func (s *Store) ListSessions(ctx context.Context, eventID, from, to string) ([]worksession.WorkSession, error) {
	return s.sessions.ListByEvent(ctx, eventID, from, to)
}

func (s *Store) ListStaffSessions(ctx context.Context, eventID, staffID, from, to string) ([]worksession.WorkSession, error) {
	rows, err := s.sessions.ListByEvent(ctx, eventID, from, to)
	if err != nil {
		return nil, err
	}
	var out []worksession.WorkSession
	for _, session := range rows {
		if session.StaffID == staffID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *Store) WageProfiles(ctx context.Context, eventID string) (map[string]WageProfile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT staff_id, wage_type, rate, meal, transportation, accommodation, bonus
    FROM wage_profiles
    WHERE event_id = $1
  `, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := map[string]WageProfile{}
	for rows.Next() {
		var profile WageProfile
		if err := rows.Scan(&profile.StaffID, &profile.Type, &profile.Rate,
			&profile.Allowances.Meal, &profile.Allowances.Transportation,
			&profile.Allowances.Accommodation, &profile.Allowances.Bonus); err != nil {
			return nil, err
		}
		profiles[profile.StaffID] = profile
	}
	return profiles, rows.Err()
}

func (s *Store) UpsertWageProfile(ctx context.Context, eventID string, profile WageProfile) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO wage_profiles (event_id, staff_id, wage_type, rate, meal, transportation, accommodation, bonus)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (event_id, staff_id)
    DO UPDATE SET wage_type = EXCLUDED.wage_type, rate = EXCLUDED.rate,
                  meal = EXCLUDED.meal, transportation = EXCLUDED.transportation,
                  accommodation = EXCLUDED.accommodation, bonus = EXCLUDED.bonus
  `, eventID, profile.StaffID, profile.Type, profile.Rate,
		profile.Allowances.Meal, profile.Allowances.Transportation,
		profile.Allowances.Accommodation, profile.Allowances.Bonus)
	return err
}

// WriteBreakdowns upserts one chunk inside a single transaction. Upserting
// keyed on session id is what makes a retried run idempotent.
func (s *Store) WriteBreakdowns(ctx context.Context, breakdowns []Breakdown) error {
	if len(breakdowns) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, b := range breakdowns {
		batch.Queue(`
      INSERT INTO payroll_breakdowns
        (session_id, event_id, staff_id, work_date, hours_worked, base_pay,
         meal, transportation, accommodation, bonus, allowance_pay,
         tax, insurance, total_pay, is_estimate)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
      ON CONFLICT (session_id)
      DO UPDATE SET hours_worked = EXCLUDED.hours_worked, base_pay = EXCLUDED.base_pay,
                    meal = EXCLUDED.meal, transportation = EXCLUDED.transportation,
                    accommodation = EXCLUDED.accommodation, bonus = EXCLUDED.bonus,
                    allowance_pay = EXCLUDED.allowance_pay, tax = EXCLUDED.tax,
                    insurance = EXCLUDED.insurance, total_pay = EXCLUDED.total_pay,
                    is_estimate = EXCLUDED.is_estimate, updated_at = now()
      WHERE payroll_breakdowns.is_paid = false
    `, b.SessionID, b.EventID, b.StaffID, b.WorkDate, b.HoursWorked, b.BasePay,
			b.Allowances.Meal, b.Allowances.Transportation, b.Allowances.Accommodation,
			b.Allowances.Bonus, b.AllowancePay, b.Deductions.Tax, b.Deductions.Insurance,
			b.TotalPay, b.IsEstimate)
	}

	results := tx.SendBatch(ctx, batch)
	for range breakdowns {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) ListBreakdowns(ctx context.Context, eventID, from, to string) ([]Breakdown, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT session_id, event_id, staff_id, work_date, hours_worked, base_pay,
           meal, transportation, accommodation, bonus, allowance_pay,
           tax, insurance, total_pay, is_estimate, is_paid
    FROM payroll_breakdowns
    WHERE event_id = $1
      AND ($2 = '' OR work_date >= $2)
      AND ($3 = '' OR work_date <= $3)
    ORDER BY staff_id, work_date
  `, eventID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Breakdown
	for rows.Next() {
		var b Breakdown
		if err := rows.Scan(&b.SessionID, &b.EventID, &b.StaffID, &b.WorkDate, &b.HoursWorked,
			&b.BasePay, &b.Allowances.Meal, &b.Allowances.Transportation,
			&b.Allowances.Accommodation, &b.Allowances.Bonus, &b.AllowancePay,
			&b.Deductions.Tax, &b.Deductions.Insurance, &b.TotalPay, &b.IsEstimate, &b.IsPaid); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

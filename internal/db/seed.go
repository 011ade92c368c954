package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shiftpay/internal/platform/config"
)

// Seed loads a small demo event so a fresh development database has
// something to schedule and settle against. Production refuses to run it.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.RunSeed {
		return nil
	}

	const eventID = "demo-event"

	staff := []struct {
		id   string
		name string
		wage string
		rate float64
	}{
		{"demo-staff-1", "Dealer One", "hourly", 18000},
		{"demo-staff-2", "Dealer Two", "hourly", 18000},
		{"demo-staff-3", "Floor One", "daily", 150000},
	}

	for _, member := range staff {
		_, err := pool.Exec(ctx, `
      INSERT INTO wage_profiles (event_id, staff_id, wage_type, rate, meal, transportation, accommodation, bonus)
      VALUES ($1,$2,$3,$4,10000,5000,0,0)
      ON CONFLICT (event_id, staff_id) DO NOTHING
    `, eventID, member.id, member.wage, member.rate)
		if err != nil {
			return err
		}

		_, err = pool.Exec(ctx, `
      INSERT INTO work_sessions (id, event_id, staff_id, staff_name, role, work_date, status, created_at, updated_at)
      VALUES ($1,$2,$3,$4,'dealer','2026-01-20','scheduled',now(),now())
      ON CONFLICT (id) DO NOTHING
    `, member.id+"-s1", eventID, member.id, member.name)
		if err != nil {
			return err
		}
	}

	return nil
}

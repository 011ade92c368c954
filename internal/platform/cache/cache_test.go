package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Total float64 `json:"total"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, time.Minute), mr
}

func TestGetJSONMissReportsFalse(t *testing.T) {
	c, _ := newTestCache(t)

	var dest payload
	hit, err := c.GetJSON(context.Background(), "payroll:e1:summary::", &dest)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatal("expected miss on empty cache")
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "payroll:e1:summary::", payload{Total: 2350000}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var dest payload
	hit, err := c.GetJSON(ctx, "payroll:e1:summary::", &dest)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if dest.Total != 2350000 {
		t.Fatalf("unexpected payload: %+v", dest)
	}
}

func TestInvalidatePrefixScopesToEvent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	keys := []string{
		"payroll:e1:summary:2026-01-20:2026-01-25",
		"payroll:e1:summary::",
		"payroll:e2:summary::",
	}
	for _, key := range keys {
		if err := c.SetJSON(ctx, key, payload{Total: 1}); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := c.InvalidatePrefix(ctx, "payroll:e1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	var dest payload
	for _, key := range keys[:2] {
		if hit, _ := c.GetJSON(ctx, key, &dest); hit {
			t.Fatalf("expected %s evicted", key)
		}
	}
	if hit, _ := c.GetJSON(ctx, keys[2], &dest); !hit {
		t.Fatal("expected other event's entry to survive")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "payroll:e1:summary::", payload{Total: 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var dest payload
	if hit, _ := c.GetJSON(ctx, "payroll:e1:summary::", &dest); hit {
		t.Fatal("expected entry expired after TTL")
	}
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/tripmaster/trip-scout/internal/kvstore"
)

func newTestLimiter(rules map[string]Rule, at time.Time) *Limiter {
	l := New(kvstore.New(""), rules)
	l.now = func() time.Time { return at }
	return l
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	l := newTestLimiter(map[string]Rule{"login": {Limit: 10, Window: 5 * time.Minute}}, base)

	for i := 0; i < 9; i++ {
		l.Record(ctx, "login", "1.2.3.4")
	}
	allowed, _ := l.Check(ctx, "login", "1.2.3.4")
	if !allowed {
		t.Fatalf("expected 9 attempts to be under a limit of 10")
	}
}

func TestLimiterDeniesWithRetryAfter(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	l := newTestLimiter(map[string]Rule{"login": {Limit: 10, Window: 300 * time.Second}}, base)

	for i := 0; i < 10; i++ {
		l.Record(ctx, "login", "1.2.3.4")
	}

	l.now = func() time.Time { return base.Add(time.Second) }
	allowed, retryAfter := l.Check(ctx, "login", "1.2.3.4")
	if allowed {
		t.Fatalf("expected denial at the limit")
	}
	// Oldest attempt is 1s old inside a 300s window: 299s remain, plus the
	// one-second round-up.
	if retryAfter != 300*time.Second {
		t.Fatalf("retryAfter = %v, want 300s", retryAfter)
	}
}

func TestLimiterRecoversAfterWindow(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	l := newTestLimiter(map[string]Rule{"login": {Limit: 10, Window: 300 * time.Second}}, base)

	for i := 0; i < 10; i++ {
		l.Record(ctx, "login", "1.2.3.4")
	}

	l.now = func() time.Time { return base.Add(301 * time.Second) }
	allowed, _ := l.Check(ctx, "login", "1.2.3.4")
	if !allowed {
		t.Fatalf("expected attempts to age out of the window")
	}
}

func TestLimiterIsolatesIdentities(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	l := newTestLimiter(map[string]Rule{"generate": {Limit: 2, Window: 10 * time.Minute}}, base)

	l.Record(ctx, "generate", "user-a")
	l.Record(ctx, "generate", "user-a")

	if allowed, _ := l.Check(ctx, "generate", "user-a"); allowed {
		t.Fatalf("user-a should be limited")
	}
	if allowed, _ := l.Check(ctx, "generate", "user-b"); !allowed {
		t.Fatalf("user-b should be unaffected")
	}
}

func TestLimiterUnknownRuleAllows(t *testing.T) {
	l := newTestLimiter(map[string]Rule{}, time.Now())
	if allowed, _ := l.Check(context.Background(), "nope", "x"); !allowed {
		t.Fatalf("unknown rule should not limit")
	}
}

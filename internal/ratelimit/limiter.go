// Package ratelimit implements per-identity sliding-window limits over the
// kvstore timestamp trails. A window is counted from the recorded attempts
// themselves, so bursts at a window edge cannot double the allowance.
package ratelimit

import (
	"context"
	"time"

	"github.com/tripmaster/trip-scout/internal/kvstore"
)

type Rule struct {
	Limit  int
	Window time.Duration
}

type Limiter struct {
	store kvstore.Store
	rules map[string]Rule
	now   func() time.Time
}

func New(store kvstore.Store, rules map[string]Rule) *Limiter {
	return &Limiter{store: store, rules: rules, now: time.Now}
}

// Check reports whether identity may perform another action under the named
// rule. When denied, retryAfter is the wait until the oldest counted attempt
// leaves the window, rounded up to a whole second. Checking never counts as
// an attempt; callers decide what to Record.
func (l *Limiter) Check(ctx context.Context, rule, identity string) (allowed bool, retryAfter time.Duration) {
	r, ok := l.rules[rule]
	if !ok {
		return true, 0
	}
	now := l.now()
	stamps := l.store.StampsSince(ctx, l.key(rule, identity), now.Add(-r.Window))
	if len(stamps) < r.Limit {
		return true, 0
	}
	oldest := stamps[0]
	wait := r.Window - now.Sub(oldest)
	if wait < 0 {
		wait = 0
	}
	return false, wait.Truncate(time.Second) + time.Second
}

// Record counts one attempt against the rule's window.
func (l *Limiter) Record(ctx context.Context, rule, identity string) {
	r, ok := l.rules[rule]
	if !ok {
		return
	}
	l.store.RecordStamp(ctx, l.key(rule, identity), l.now(), r.Window)
}

func (l *Limiter) key(rule, identity string) string {
	return "rl:" + rule + ":" + identity
}

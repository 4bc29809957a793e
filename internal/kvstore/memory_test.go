package kvstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	s.Set(ctx, "session:abc", `{"location":"Lisbon"}`, time.Minute)
	got, ok := s.Get(ctx, "session:abc")
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if got != `{"location":"Lisbon"}` {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemoryStoreStamps(t *testing.T) {
	s := newMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		s.RecordStamp(ctx, "rl:login:1.2.3.4", base.Add(time.Duration(i)*time.Second), time.Hour)
	}

	all := s.StampsSince(ctx, "rl:login:1.2.3.4", base)
	if len(all) != 5 {
		t.Fatalf("got %d stamps, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Before(all[i-1]) {
			t.Fatalf("stamps out of order at %d", i)
		}
	}

	recent := s.StampsSince(ctx, "rl:login:1.2.3.4", base.Add(3*time.Second))
	if len(recent) != 2 {
		t.Fatalf("got %d recent stamps, want 2", len(recent))
	}

	// Pruning is durable: the next query over the full range only sees
	// what survived the previous cutoff.
	again := s.StampsSince(ctx, "rl:login:1.2.3.4", base)
	if len(again) != 2 {
		t.Fatalf("got %d stamps after prune, want 2", len(again))
	}
}

func TestMemoryStoreStampsUnknownKey(t *testing.T) {
	s := newMemoryStore()
	if got := s.StampsSince(context.Background(), "rl:none", time.Now()); len(got) != 0 {
		t.Fatalf("expected no stamps, got %d", len(got))
	}
}

// Package kvstore is the expiring key-value layer behind sessions, the
// response cache and the rate limiters. It has two backends: a shared Redis
// store and a process-local map. When Redis is configured but unreachable,
// every operation silently degrades to the local map: callers never see an
// error from this layer; the worst case is a stale or missing entry.
package kvstore

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	// Get returns the value for key, or ok=false once its TTL has elapsed.
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set stores value under key. The TTL counts from this write and is
	// never slid on read.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// RecordStamp appends a timestamp to the ordered set under key and
	// re-applies the TTL so idle keys expire on their own.
	RecordStamp(ctx context.Context, key string, at time.Time, ttl time.Duration)
	// StampsSince returns the recorded timestamps at or after since, in
	// ascending order. Older entries are purged as a side effect.
	StampsSince(ctx context.Context, key string, since time.Time) []time.Time
}

// New selects the backend: Redis with local failover when redisURL is set,
// otherwise the process-local store alone.
func New(redisURL string) Store {
	local := newMemoryStore()
	if redisURL == "" {
		log.Printf("kvstore: REDIS_URL not set, using in-memory store; sessions, cache and rate limits are per-process only")
		return local
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("kvstore: invalid REDIS_URL (%v), using in-memory store", err)
		return local
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return &failoverStore{
		shared: newRedisStore(redis.NewClient(opts)),
		local:  local,
	}
}

// failoverStore delegates to the shared backend and falls back to the local
// one per operation, logging one warning per failure.
type failoverStore struct {
	shared *redisStore
	local  *memoryStore
}

func (f *failoverStore) Get(ctx context.Context, key string) (string, bool) {
	value, ok, err := f.shared.get(ctx, key)
	if err != nil {
		log.Printf("kvstore: redis get failed: %v (falling back to local store)", err)
		return f.local.Get(ctx, key)
	}
	return value, ok
}

func (f *failoverStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := f.shared.set(ctx, key, value, ttl); err != nil {
		log.Printf("kvstore: redis set failed: %v (falling back to local store)", err)
		f.local.Set(ctx, key, value, ttl)
	}
}

func (f *failoverStore) RecordStamp(ctx context.Context, key string, at time.Time, ttl time.Duration) {
	if err := f.shared.recordStamp(ctx, key, at, ttl); err != nil {
		log.Printf("kvstore: redis zadd failed: %v (falling back to local store)", err)
		f.local.RecordStamp(ctx, key, at, ttl)
	}
}

func (f *failoverStore) StampsSince(ctx context.Context, key string, since time.Time) []time.Time {
	stamps, err := f.shared.stampsSince(ctx, key, since)
	if err != nil {
		log.Printf("kvstore: redis zrange failed: %v (falling back to local store)", err)
		return f.local.StampsSince(ctx, key, since)
	}
	return stamps
}

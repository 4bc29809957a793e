package kvstore

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore is the single-process backend. Plain values live in a go-cache
// instance with per-entry TTLs; timestamp trails live in a mutex-guarded map
// because appending to a slice inside go-cache is not atomic.
type memoryStore struct {
	values *gocache.Cache

	mu     sync.Mutex
	stamps map[string]stampTrail
}

type stampTrail struct {
	at        []time.Time
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		values: gocache.New(gocache.NoExpiration, 5*time.Minute),
		stamps: make(map[string]stampTrail),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := s.values.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	s.values.Set(key, value, ttl)
}

func (s *memoryStore) RecordStamp(_ context.Context, key string, at time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trail := s.stamps[key]
	if !trail.expiresAt.IsZero() && at.After(trail.expiresAt) {
		trail.at = nil
	}
	trail.at = append(trail.at, at)
	trail.expiresAt = at.Add(ttl)
	s.stamps[key] = trail
}

func (s *memoryStore) StampsSince(_ context.Context, key string, since time.Time) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	trail, ok := s.stamps[key]
	if !ok {
		return nil
	}
	if !trail.expiresAt.IsZero() && time.Now().After(trail.expiresAt) {
		delete(s.stamps, key)
		return nil
	}
	kept := trail.at[:0]
	for _, t := range trail.at {
		if !t.Before(since) {
			kept = append(kept, t)
		}
	}
	trail.at = kept
	s.stamps[key] = trail
	return append([]time.Time(nil), kept...)
}

package services

import (
	"sync"
	"time"
)

// tombstones remembers recently deleted rows so a list refetch racing
// the mutation cannot resurrect them. Entries age out after ttl; by
// then the collaborator has long since converged.
type tombstones struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]time.Time
}

func newTombstones(ttl time.Duration) *tombstones {
	return &tombstones{
		ttl: ttl,
		m:   make(map[string]time.Time),
	}
}

func (t *tombstones) add(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[key] = time.Now().Add(t.ttl)
}

func (t *tombstones) contains(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline, ok := t.m[key]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(t.m, key)
		return false
	}
	return true
}

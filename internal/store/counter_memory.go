package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/quotaguard/internal/counter"
)

type counterEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounters is an in-memory implementation of counter.Store. It is
// suitable for tests and single-instance development only; distributed
// deployments need the Redis store.
type MemoryCounters struct {
	mu      sync.RWMutex
	entries map[string]*counterEntry
	stopCh  chan struct{}
}

// NewMemoryCounters creates an in-memory counter store with a background
// sweep of expired entries.
func NewMemoryCounters() *MemoryCounters {
	m := &MemoryCounters{
		entries: make(map[string]*counterEntry),
		stopCh:  make(chan struct{}),
	}

	go m.sweep()

	return m
}

func (m *MemoryCounters) Get(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, nil
	}

	return entry.count, nil
}

func (m *MemoryCounters) IncrBy(_ context.Context, key string, amount int64, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	entry, ok := m.entries[key]
	if !ok || now.After(entry.expiresAt) {
		m.entries[key] = &counterEntry{
			count:     amount,
			expiresAt: now.Add(window),
		}

		return amount, window, nil
	}

	// Existing window: the expiry stays anchored to the first increment.
	entry.count += amount
	ttl := max(0, time.Until(entry.expiresAt))

	return entry.count, ttl, nil
}

// Close stops the background sweep.
func (m *MemoryCounters) Close() error {
	close(m.stopCh)

	return nil
}

func (m *MemoryCounters) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reclaimExpired()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemoryCounters) reclaimExpired() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Compile-time check.
var _ counter.Store = (*MemoryCounters)(nil)

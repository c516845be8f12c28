package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

/*
 * In-process cache backend.
 *
 * Thread-safe map with per-key TTL and a background janitor sweeping expired
 * entries. Expiry is also checked on read, so a stopped janitor only costs
 * memory, never correctness.
 *
 * Pattern matching for Keys/Delete uses path.Match glob semantics, the same
 * subset of patterns the Redis KEYS command accepts for the "prefix:*" shapes
 * this engine generates.
 */

const defaultCleanupInterval = time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Cache implementation.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	done    chan struct{}
	once    sync.Once
}

// NewMemory creates an in-process cache and starts its cleanup goroutine.
// Call Close to stop the janitor.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	go m.janitor(defaultCleanupInterval)
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", types.ErrCacheMiss
	}
	return entry.value, nil
}

// SetEx implements Cache.
func (m *Memory) SetEx(_ context.Context, key string, ttl time.Duration, value string) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

// Keys implements Cache.
func (m *Memory) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			continue
		}
		if ok, err := path.Match(pattern, key); err == nil && ok {
			out = append(out, key)
		}
	}
	return out, nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

// janitor periodically evicts expired entries.
func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, entry := range m.entries {
				if now.After(entry.expiresAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

package cache

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	t.Cleanup(m.Close)
	return m
}

func TestMemoryGetSet(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, types.ErrCacheMiss) {
		t.Errorf("Get on empty cache = %v, want ErrCacheMiss", err)
	}

	if err := m.SetEx(ctx, "k", time.Minute, "v"); err != nil {
		t.Fatalf("SetEx failed: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	// Overwrite replaces value and TTL.
	if err := m.SetEx(ctx, "k", time.Minute, "v2"); err != nil {
		t.Fatalf("SetEx failed: %v", err)
	}
	if got, _ = m.Get(ctx, "k"); got != "v2" {
		t.Errorf("got %q, want %q", got, "v2")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	// An already-expired entry misses on read even before the janitor runs.
	if err := m.SetEx(ctx, "k", -time.Second, "v"); err != nil {
		t.Fatalf("SetEx failed: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, types.ErrCacheMiss) {
		t.Errorf("expired Get = %v, want ErrCacheMiss", err)
	}

	keys, err := m.Keys(ctx, "*")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expired entry listed by Keys: %v", keys)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	m.SetEx(ctx, "a", time.Minute, "1")
	m.SetEx(ctx, "b", time.Minute, "2")

	// Missing keys are not an error.
	if err := m.Delete(ctx, "a", "missing"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, types.ErrCacheMiss) {
		t.Error("deleted key still readable")
	}
	if _, err := m.Get(ctx, "b"); err != nil {
		t.Errorf("unrelated key lost: %v", err)
	}
}

func TestMemoryKeysPattern(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	m.SetEx(ctx, "dynamic_questions:abc:7:en:hybrid", time.Minute, "1")
	m.SetEx(ctx, "dynamic_questions:def:no_company:ar:default", time.Minute, "2")
	m.SetEx(ctx, "other:abc", time.Minute, "3")

	keys, err := m.Keys(ctx, "dynamic_questions:*")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	sort.Strings(keys)
	want := []string{
		"dynamic_questions:abc:7:en:hybrid",
		"dynamic_questions:def:no_company:ar:default",
	}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("Keys = %v, want %v", keys, want)
	}

	keys, err = m.Keys(ctx, "nomatch:*")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys = %v, want none", keys)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := newTestMemory(t)
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				m.SetEx(ctx, "shared", time.Minute, "v")
				m.Get(ctx, "shared")
				m.Keys(ctx, "shared*")
				m.Delete(ctx, "shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

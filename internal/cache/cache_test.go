// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		capacity, want int
	}{
		{100, 100},
		{0, DefaultCapacity},
		{-5, DefaultCapacity},
	}
	for _, tt := range tests {
		c := New[string, int](tt.capacity)
		if got := c.Stats().Capacity; got != tt.want {
			t.Errorf("New(%d) capacity = %d, want %d", tt.capacity, got, tt.want)
		}
		if c.Len() != 0 {
			t.Errorf("expected empty cache, got %d entries", c.Len())
		}
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 || c.Len() != 1 {
		t.Errorf("overwrite: value %d, len %d", val, c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() (int, error) {
		calls++
		return 100, nil
	}

	for range 3 {
		val, err := c.GetOrCreate("key1", create)
		if err != nil || val != 100 {
			t.Fatalf("GetOrCreate() = %d, %v", val, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCacheGetOrCreateError(t *testing.T) {
	c := New[string, int](10)
	errCompile := errors.New("compile failed")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, errCompile }); !errors.Is(err, errCompile) {
		t.Errorf("err = %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed create was cached")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)
	if !c.Delete("key1") {
		t.Error("expected Delete to return true for existing key")
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}
	if c.Delete("nonexistent") {
		t.Error("expected Delete to return false for non-existing key")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, int](10)
	for i := range 3 {
		c.Set(strconv.Itoa(i), i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", c.Len())
	}
	c.Set("again", 1)
	if c.Len() != 1 {
		t.Error("cache unusable after Clear")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a") // b is now the oldest
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s missing", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 3 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 1)
	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %v", s.HitRate)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](32)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := (g*200 + i) % 64
				if _, err := c.GetOrCreate(key, func() (int, error) { return key * 2, nil }); err != nil {
					t.Error(err)
					return
				}
				if v, ok := c.Get(key); ok && v != key*2 {
					t.Errorf("Get(%d) = %d", key, v)
					return
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() > 32 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

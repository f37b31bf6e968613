// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
}

func TestPool_DefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.Run(work)

	if got := counter.Load(); got != 100 {
		t.Errorf("counter = %d, want 100", got)
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()

	ran := false
	pool.Run([]func(){func() { ran = true }})
	if !ran {
		t.Error("Run on a closed pool should execute inline")
	}
}

func TestPool_ForRangeCoversAll(t *testing.T) {
	pool := NewPool(3)
	defer pool.Close()

	seen := make([]atomic.Int32, 1000)
	err := pool.ForRange(context.Background(), len(seen), 64, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			seen[i].Add(1)
		}
	})
	if err != nil {
		t.Fatalf("ForRange: %v", err)
	}
	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}
}

func TestPool_ForRangeCancelled(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := pool.ForRange(ctx, 100, 10, func(lo, hi int) { calls.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ForRange error = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("%d chunks ran after cancellation", calls.Load())
	}
}

func TestPool_ForRangeEmpty(t *testing.T) {
	pool := NewPool(1)
	defer pool.Close()

	if err := pool.ForRange(context.Background(), 0, 8, func(lo, hi int) {
		t.Error("fn called for empty range")
	}); err != nil {
		t.Errorf("ForRange: %v", err)
	}
}

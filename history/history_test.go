// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package history

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
)

func TestCaptureCopies(t *testing.T) {
	m := NewTargetManager()
	if m.Ready() {
		t.Fatal("new manager is ready")
	}
	if _, ok := m.Previous(); ok {
		t.Fatal("Previous ok before capture")
	}

	g := frame.NewGBuffer(4, 3)
	g.Albedo.Set(1, 1, mgl32.Vec4{0.5, 0.25, 0.125, 1})
	if err := m.Capture(GBufferSet(g)); err != nil {
		t.Fatal(err)
	}
	if !m.Ready() {
		t.Fatal("not ready after capture")
	}

	g.Albedo.Set(1, 1, mgl32.Vec4{})
	prev, ok := m.Previous()
	if !ok {
		t.Fatal("Previous not ok")
	}
	if v := prev[GBuffer0].At(1, 1); v != (mgl32.Vec4{0.5, 0.25, 0.125, 1}) {
		t.Errorf("retained albedo = %v; capture must copy", v)
	}
	if prev[Depth] == g.Depth {
		t.Error("depth retained by reference")
	}
	pg := GBuffer(prev)
	if err := pg.Validate(); err != nil {
		t.Errorf("retained G-buffer invalid: %v", err)
	}
}

func TestCaptureReusesStorage(t *testing.T) {
	m := NewTargetManager()
	g := frame.NewGBuffer(4, 4)
	_ = m.Capture(GBufferSet(g))
	first, _ := m.Previous()
	_ = m.Capture(GBufferSet(g))
	second, _ := m.Previous()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("target %d reallocated for the same size", i)
		}
	}
}

type countingCopier struct {
	failAt   int
	calls    int
	released int
}

func (c *countingCopier) Copy(dst, src int) (int, error) {
	c.calls++
	if c.calls == c.failAt {
		return 0, errors.New("out of memory")
	}
	return src, nil
}

func (c *countingCopier) Release(v int) {
	if v != 0 {
		c.released++
	}
}

func TestCaptureAllOrNothing(t *testing.T) {
	c := &countingCopier{}
	m := NewManager[int](c)
	if err := m.Capture(Set[int]{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}

	c.failAt = c.calls + 3
	err := m.Capture(Set[int]{5, 6, 7, 8})
	if err == nil {
		t.Fatal("expected capture error")
	}
	if m.Ready() {
		t.Error("ready after failed capture")
	}
	if c.released != 4 {
		t.Errorf("released %d targets, want 4", c.released)
	}
	if prev, ok := m.Previous(); ok || prev != (Set[int]{}) {
		t.Errorf("Previous = %v, %v after failure", prev, ok)
	}
}

func TestCaptureMissingTarget(t *testing.T) {
	m := NewTargetManager()
	g := frame.NewGBuffer(2, 2)
	s := GBufferSet(g)
	s[GBuffer2] = nil
	if err := m.Capture(s); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("err = %v, want ErrMissingTarget", err)
	}
	if m.Ready() {
		t.Error("ready after missing target")
	}
}

func TestRelease(t *testing.T) {
	m := NewTargetManager()
	_ = m.Capture(GBufferSet(frame.NewGBuffer(2, 2)))
	m.Release()
	if m.Ready() {
		t.Error("ready after release")
	}
}

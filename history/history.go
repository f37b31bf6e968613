// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package history

import (
	"errors"
	"fmt"

	"github.com/gogpu/restir/frame"
)

// Target indices within a Set.
const (
	GBuffer0 = iota // albedo
	GBuffer1        // specular, metallic
	GBuffer2        // normal, roughness
	Depth

	NumTargets
)

// ErrMissingTarget is returned when a capture is given an absent target.
var ErrMissingTarget = errors.New("history: missing target")

// Set is one G-buffer in target order.
type Set[T any] [NumTargets]T

// Copier copies and releases targets of type T.
type Copier[T any] interface {
	// Copy copies src into dst, reusing dst when it fits, and returns the
	// copy. dst is the zero value on the first capture.
	Copy(dst, src T) (T, error)

	// Release frees a copy made by Copy.
	Release(T)
}

// Manager holds the previous frame's targets.
type Manager[T any] struct {
	copier Copier[T]
	prev   Set[T]
	ready  bool
}

// NewManager returns an empty manager.
func NewManager[T any](c Copier[T]) *Manager[T] {
	return &Manager[T]{copier: c}
}

// Capture copies every target of cur. On failure all retained targets are
// released and the error is returned.
func (m *Manager[T]) Capture(cur Set[T]) error {
	for i := range cur {
		c, err := m.copier.Copy(m.prev[i], cur[i])
		if err != nil {
			m.Release()
			return fmt.Errorf("history: target %d: %w", i, err)
		}
		m.prev[i] = c
	}
	m.ready = true
	return nil
}

// Ready reports whether a complete previous frame is held.
func (m *Manager[T]) Ready() bool { return m.ready }

// Previous returns the retained targets. ok is false when not ready.
func (m *Manager[T]) Previous() (Set[T], bool) {
	if !m.ready {
		return Set[T]{}, false
	}
	return m.prev, true
}

// Release frees every retained target.
func (m *Manager[T]) Release() {
	var zero T
	for i := range m.prev {
		m.copier.Release(m.prev[i])
		m.prev[i] = zero
	}
	m.ready = false
}

// TargetCopier copies CPU render targets.
type TargetCopier struct{}

// Copy implements Copier.
func (TargetCopier) Copy(dst, src *frame.Target) (*frame.Target, error) {
	if src == nil {
		return nil, ErrMissingTarget
	}
	return src.CopyInto(dst), nil
}

// Release implements Copier. Targets are garbage collected.
func (TargetCopier) Release(*frame.Target) {}

// NewTargetManager returns a manager for CPU G-buffers.
func NewTargetManager() *Manager[*frame.Target] {
	return NewManager[*frame.Target](TargetCopier{})
}

// GBufferSet returns the targets of g in history order.
func GBufferSet(g *frame.GBuffer) Set[*frame.Target] {
	return Set[*frame.Target](g.Targets())
}

// GBuffer assembles a retained set back into a G-buffer.
func GBuffer(s Set[*frame.Target]) *frame.GBuffer {
	return frame.FromTargets(s)
}

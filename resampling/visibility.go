// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import "github.com/go-gl/mathgl/mgl32"

// Visibility answers shadow queries between a surface point and a point on
// a light. Implementations must be safe for concurrent use.
type Visibility interface {
	Visible(from, to mgl32.Vec3) bool
}

// VisibilityFunc adapts a function to Visibility.
type VisibilityFunc func(from, to mgl32.Vec3) bool

// Visible calls f.
func (f VisibilityFunc) Visible(from, to mgl32.Vec3) bool { return f(from, to) }

// Unoccluded treats every light sample as visible.
type Unoccluded struct{}

// Visible always returns true.
func (Unoccluded) Visible(mgl32.Vec3, mgl32.Vec3) bool { return true }

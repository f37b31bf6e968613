// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera maps between world space and pixel coordinates. Projection uses
// the OpenGL clip convention; stored depth is window depth in [0,1].
type Camera struct {
	Position   mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4

	viewProj    mgl32.Mat4
	invViewProj mgl32.Mat4
}

// NewCamera builds a perspective camera looking from eye at center.
func NewCamera(eye, center, up mgl32.Vec3, fovyDegrees, aspect, near, far float32) Camera {
	c := Camera{
		Position:   eye,
		View:       mgl32.LookAtV(eye, center, up),
		Projection: mgl32.Perspective(mgl32.DegToRad(fovyDegrees), aspect, near, far),
	}
	c.viewProj = c.Projection.Mul4(c.View)
	c.invViewProj = c.viewProj.Inv()
	return c
}

// ViewProj returns the view-projection matrix.
func (c Camera) ViewProj() mgl32.Mat4 { return c.viewProj }

// InvViewProj returns the inverse of ViewProj.
func (c Camera) InvViewProj() mgl32.Mat4 { return c.invViewProj }

// Unproject returns the world position at continuous pixel coordinates
// (px, py) and window depth. Pixel (i, j) has its center at (i+0.5, j+0.5).
func (c Camera) Unproject(px, py, depth float32, width, height int) mgl32.Vec3 {
	ndc := mgl32.Vec4{
		2*px/float32(width) - 1,
		1 - 2*py/float32(height),
		2*depth - 1,
		1,
	}
	p := c.invViewProj.Mul4x1(ndc)
	return p.Vec3().Mul(1 / p[3])
}

// Project returns the continuous pixel coordinates and window depth of p.
// ok is false for points behind the camera.
func (c Camera) Project(p mgl32.Vec3, width, height int) (px, py, depth float32, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	px = (ndc[0] + 1) * 0.5 * float32(width)
	py = (1 - ndc[1]) * 0.5 * float32(height)
	return px, py, (ndc[2] + 1) * 0.5, true
}

// ViewDepth returns the distance of p in front of the camera plane.
func (c Camera) ViewDepth(p mgl32.Vec3) float32 {
	return -c.View.Mul4x1(p.Vec4(1))[2]
}

// Ray returns the normalized direction through pixel coordinates (px, py).
func (c Camera) Ray(px, py float32, width, height int) mgl32.Vec3 {
	far := c.Unproject(px, py, 1, width, height)
	d := far.Sub(c.Position)
	if l := d.Len(); l > 0 && !math32.IsInf(l, 0) {
		return d.Mul(1 / l)
	}
	return mgl32.Vec3{0, 0, -1}
}

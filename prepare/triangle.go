// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prepare

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TriangleLight is a decoded LightInfo.
type TriangleLight struct {
	Base     mgl32.Vec3
	Edge1    mgl32.Vec3
	Edge2    mgl32.Vec3
	Normal   mgl32.Vec3
	Radiance mgl32.Vec3
	Area     float32
}

// Luminance returns the Rec. 709 luminance of an RGB triple.
func Luminance(c mgl32.Vec3) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

// Power is proportional to the flux emitted by the triangle.
func (t TriangleLight) Power() float32 {
	return Luminance(t.Radiance) * t.Area
}

// UniformBarycentrics maps a uniform pair in [0,1)² to barycentrics (b1, b2)
// of Edge1 and Edge2 that are uniform over the triangle.
func UniformBarycentrics(r1, r2 float32) (b1, b2 float32) {
	s := math32.Sqrt(r1)
	return 1 - s, r2 * s
}

// RandomFromBarycentrics is the inverse of UniformBarycentrics.
func RandomFromBarycentrics(b1, b2 float32) (r1, r2 float32) {
	s := 1 - b1
	if s <= 0 {
		return 0, 0
	}
	return s * s, math32.Min(1, b2/s)
}

// PointAt returns the point for a random pair stored in a reservoir.
func (t TriangleLight) PointAt(r1, r2 float32) mgl32.Vec3 {
	b1, b2 := UniformBarycentrics(r1, r2)
	return t.Base.Add(t.Edge1.Mul(b1)).Add(t.Edge2.Mul(b2))
}

// Intersect returns the ray distance and barycentrics of the hit between
// origin+dir*tMin and origin+dir*tMax. Both faces are hit.
func (t TriangleLight) Intersect(origin, dir mgl32.Vec3, tMin, tMax float32) (dist, b1, b2 float32, ok bool) {
	p := dir.Cross(t.Edge2)
	det := t.Edge1.Dot(p)
	if math32.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	inv := 1 / det
	s := origin.Sub(t.Base)
	b1 = s.Dot(p) * inv
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(t.Edge1)
	b2 = dir.Dot(q) * inv
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}
	dist = t.Edge2.Dot(q) * inv
	if dist <= tMin || dist >= tMax {
		return 0, 0, 0, false
	}
	return dist, b1, b2, true
}

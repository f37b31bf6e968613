// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
)

// ShadeBRDF returns the Lambert plus GGX reflectance toward l, multiplied by
// the cosine at the surface. l points away from the surface.
func ShadeBRDF(s *frame.Surface, l mgl32.Vec3) mgl32.Vec3 {
	nl := s.Normal.Dot(l)
	nv := s.Normal.Dot(s.View)
	if nl <= 0 || nv <= 0 {
		return mgl32.Vec3{}
	}

	h := l.Add(s.View)
	if hl := h.Len(); hl > 0 {
		h = h.Mul(1 / hl)
	}
	nh := math32.Max(0, s.Normal.Dot(h))
	vh := math32.Max(0, s.View.Dot(h))

	alpha := s.Roughness * s.Roughness
	a2 := alpha * alpha
	d := nh*nh*(a2-1) + 1
	ggxD := a2 / (math32.Pi * d * d)

	// Height-correlated Smith visibility, includes the 1/(4 nl nv) term.
	vis := 0.5 / (nl*math32.Sqrt(nv*nv*(1-a2)+a2) + nv*math32.Sqrt(nl*nl*(1-a2)+a2))

	fw := math32.Pow(1-vh, 5)
	fresnel := s.F0.Mul(1 - fw).Add(mgl32.Vec3{fw, fw, fw})

	spec := fresnel.Mul(ggxD * vis)
	diffuse := s.Diffuse.Mul(1 / math32.Pi)
	return diffuse.Add(spec).Mul(nl)
}

// basis returns two tangents completing n to an orthonormal frame.
func basis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	sign := float32(1)
	if n[2] < 0 {
		sign = -1
	}
	a := -1 / (sign + n[2])
	b := n[0] * n[1] * a
	t := mgl32.Vec3{1 + sign*n[0]*n[0]*a, sign * b, -sign * n[0]}
	bt := mgl32.Vec3{b, sign + n[1]*n[1]*a, -n[1]}
	return t, bt
}

// sampleCosineHemisphere draws a direction around n with pdf cos/π.
func sampleCosineHemisphere(n mgl32.Vec3, u1, u2 float32) (mgl32.Vec3, float32) {
	r := math32.Sqrt(u1)
	phi := 2 * math32.Pi * u2
	x, y := r*math32.Cos(phi), r*math32.Sin(phi)
	z := math32.Sqrt(math32.Max(0, 1-u1))
	t, b := basis(n)
	dir := t.Mul(x).Add(b.Mul(y)).Add(n.Mul(z))
	return dir, z / math32.Pi
}

// cosineHemispherePdf is the solid-angle pdf of sampleCosineHemisphere.
func cosineHemispherePdf(n, dir mgl32.Vec3) float32 {
	return math32.Max(0, n.Dot(dir)) / math32.Pi
}

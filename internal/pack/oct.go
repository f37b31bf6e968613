// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pack

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// octScale maps [0,1] to the 16-bit code range. 0xfffe keeps the midpoint
// exactly representable.
const octScale = 0xfffe

func signNotZero(v float32) float32 {
	if v >= 0 {
		return 1
	}
	return -1
}

// OctSigned projects a unit vector onto the octahedron and unfolds it to
// the [-1,1]² square.
func OctSigned(n mgl32.Vec3) (float32, float32) {
	l1 := math32.Abs(n[0]) + math32.Abs(n[1]) + math32.Abs(n[2])
	if l1 == 0 {
		return 0, 0
	}
	x, y := n[0]/l1, n[1]/l1
	if n[2] < 0 {
		x, y = (1-math32.Abs(y))*signNotZero(x), (1-math32.Abs(x))*signNotZero(y)
	}
	return x, y
}

// FromOctSigned is the inverse of OctSigned; the result is normalized.
func FromOctSigned(x, y float32) mgl32.Vec3 {
	n := mgl32.Vec3{x, y, 1 - math32.Abs(x) - math32.Abs(y)}
	t := math32.Max(0, -n[2])
	if n[0] >= 0 {
		n[0] -= t
	} else {
		n[0] += t
	}
	if n[1] >= 0 {
		n[1] -= t
	} else {
		n[1] += t
	}
	return n.Normalize()
}

// EncodeOct packs a unit vector into one word: x code in the low half,
// y code in the high half. Codes are truncated the same way the shader's
// u32() conversion truncates.
func EncodeOct(n mgl32.Vec3) uint32 {
	x, y := OctSigned(n)
	ux := uint32(saturate(x*0.5+0.5) * octScale)
	uy := uint32(saturate(y*0.5+0.5) * octScale)
	return ux | uy<<16
}

// DecodeOct is the inverse of EncodeOct.
func DecodeOct(u uint32) mgl32.Vec3 {
	x := saturate(float32(u&0xffff)/octScale)*2 - 1
	y := saturate(float32(u>>16)/octScale)*2 - 1
	return FromOctSigned(x, y)
}

func saturate(v float32) float32 {
	return math32.Min(1, math32.Max(0, v))
}

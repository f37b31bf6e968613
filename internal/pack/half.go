// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pack

import "github.com/x448/float16"

// MaxHalf is the largest finite binary16 value.
const MaxHalf = 65504.0

// Half converts f to binary16 bits. Values beyond the half range saturate to
// ±MaxHalf instead of becoming infinities, so large radiance stays finite.
func Half(f float32) uint16 {
	switch {
	case f > MaxHalf:
		f = MaxHalf
	case f < -MaxHalf:
		f = -MaxHalf
	}
	return float16.Fromfloat32(f).Bits()
}

// HalfToFloat expands binary16 bits to float32.
func HalfToFloat(h uint16) float32 {
	return float16.Frombits(h).Float32()
}

// Half2 packs lo into the low 16 bits and hi into the high 16 bits.
func Half2(lo, hi float32) uint32 {
	return uint32(Half(lo)) | uint32(Half(hi))<<16
}

// UnpackHalf2 is the inverse of Half2.
func UnpackHalf2(u uint32) (lo, hi float32) {
	return HalfToFloat(uint16(u & 0xffff)), HalfToFloat(uint16(u >> 16))
}

// RGBA16F packs four channels as two words of half pairs (R|G, B|A).
func RGBA16F(r, g, b, a float32) [2]uint32 {
	return [2]uint32{Half2(r, g), Half2(b, a)}
}

// UnpackRGBA16F is the inverse of RGBA16F.
func UnpackRGBA16F(w [2]uint32) [4]float32 {
	r, g := UnpackHalf2(w[0])
	b, a := UnpackHalf2(w[1])
	return [4]float32{r, g, b, a}
}

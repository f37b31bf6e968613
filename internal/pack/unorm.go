// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pack

// Unorm16x2 packs two values in [0,1] into 16-bit fixed point, x low.
// Out-of-range inputs are clamped.
func Unorm16x2(x, y float32) uint32 {
	return uint32(saturate(x)*0xffff) | uint32(saturate(y)*0xffff)<<16
}

// UnpackUnorm16x2 is the inverse of Unorm16x2.
func UnpackUnorm16x2(u uint32) (x, y float32) {
	return float32(u&0xffff) / 0xffff, float32(u>>16) / 0xffff
}

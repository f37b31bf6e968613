// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pack implements the bit-level encodings shared by the CPU
// reference path and the GPU shaders: half-float pairs, RGBA16F colors,
// octahedral unit vectors and unorm16 pairs.
//
// Every encoder here has a WGSL counterpart in prepare/shaders and must stay
// bit-compatible with it.
package pack

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resampling implements ReSTIR direct lighting: the per-frame
// constant block shared with the GPU kernels, the packed reservoir format
// and its block-tiled triple buffer, and a CPU [Engine] that runs initial,
// temporal and spatial resampling followed by final shading.
//
// Reservoir slots 0 and 1 alternate between frames: frame N writes slot
// N&1 and reads the other, so the output of frame N is the input of frame
// N+1. Slot 2 holds the temporal results that spatial reuse reads from.
package resampling

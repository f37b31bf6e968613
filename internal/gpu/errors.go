// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

var (
	// ErrNilAdapter is returned when a Renderer is created without an adapter.
	ErrNilAdapter = errors.New("gpu: nil adapter")

	// ErrNoCompute is returned when the adapter cannot run compute shaders.
	ErrNoCompute = errors.New("gpu: compute shaders not supported")

	// ErrNoResampleKernel is returned by Resample when no resampling kernel
	// was supplied.
	ErrNoResampleKernel = errors.New("gpu: no resampling kernel")

	// ErrNoLights is returned by Resample before any light was prepared.
	ErrNoLights = errors.New("gpu: no prepared lights")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("gpu: renderer closed")

	// ErrBufferTooLarge is returned when a buffer exceeds the adapter limit.
	ErrBufferTooLarge = errors.New("gpu: buffer exceeds adapter limit")

	// ErrReadback is returned when a readback has an unexpected size.
	ErrReadback = errors.New("gpu: short readback")
)

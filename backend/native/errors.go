// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNoVulkan is returned when the Vulkan HAL backend is not compiled in.
	ErrNoVulkan = errors.New("native: vulkan backend not available")

	// ErrBadProvider is returned when a device provider does not expose HAL
	// handles.
	ErrBadProvider = errors.New("native: device provider does not expose HAL device and queue")

	// ErrTimeout is returned when the GPU does not finish in time.
	ErrTimeout = errors.New("native: GPU timeout")

	// ErrUnknownResource is returned for destroyed or foreign resource IDs.
	ErrUnknownResource = errors.New("native: unknown resource")

	// ErrInvalidSize is returned for out-of-range sizes and offsets.
	ErrInvalidSize = errors.New("native: invalid size")

	// ErrEmptyShader is returned for an empty SPIR-V module.
	ErrEmptyShader = errors.New("native: empty SPIR-V module")
)

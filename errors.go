// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import "errors"

var (
	// ErrNotExecutable is the persistent state of a feature whose backend
	// could not be initialized. Frames are skipped, never failed.
	ErrNotExecutable = errors.New("restir: not executable")

	// ErrDisabled is the reason reported for frames while Settings.Enable
	// is false.
	ErrDisabled = errors.New("restir: disabled")

	// ErrNoLights is the reason reported for frames without a valid light.
	ErrNoLights = errors.New("restir: no polymorphic lights")

	// ErrNilInput is returned by RenderFrame for a nil frame input.
	ErrNilInput = errors.New("restir: nil frame input")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("restir: feature closed")
)

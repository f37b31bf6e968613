// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides the pluggable execution backends of the light
// preparation and resampling pipeline.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import:
//
//	import _ "github.com/gogpu/restir/backend"
//
// The GPU backend registers itself when its package is imported:
//
//	import _ "github.com/gogpu/restir/backend/native"
//
// # Backend Selection
//
// Use InitDefault() to initialize the best backend that works on this
// machine, or Get() to request a specific backend by name:
//
//	b := backend.Get(backend.BackendSoftware)
//	if err := b.Init(backend.Config{}); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
// # Available Backends
//
//   - "software": CPU reference implementation (always available)
//   - "native": gogpu/wgpu HAL, needs a resampling kernel
package backend

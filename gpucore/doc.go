// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore provides the GPU abstraction shared by the restir GPU
// backend.
//
// [GPUAdapter] hides the concrete device API behind opaque resource IDs so
// the feature-level resource set in internal/gpu can be exercised against
// real hardware (backend/native, built on gogpu/wgpu/hal) or against an
// in-memory recorder in tests.
//
//	               +-----------------+
//	               |   internal/gpu  |
//	               | (Resources,     |
//	               |  prepare pass)  |
//	               +--------+--------+
//	                        |
//	               +--------v--------+
//	               |    gpucore      |
//	               |  (GPUAdapter)   |
//	               +--------+--------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	| backend/native  |          | gpu/gputest     |
//	|  (hal.Device)   |          |  (recorder)     |
//	+-----------------+          +-----------------+
//
// # Resource Management
//
// Buffers, shader modules, layouts, pipelines and bind groups are addressed
// by IDs. Adapters map IDs to backend resources and must release a resource
// only after the GPU has finished using it.
//
// # Bindings
//
// The Binding* constants name the slots of the light preparation shader and
// the Resample* constants name the slots of the host resampling kernel, so
// shader sources and bind groups agree on one table.
package gpucore

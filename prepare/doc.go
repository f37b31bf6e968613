// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package prepare converts collected light geometry into packed light
// records, one [LightInfo] per emissive triangle.
//
// The same conversion exists twice: [Preparer] runs it on the CPU, and
// [ShaderSource] is the WGSL compute shader that runs it on the GPU with one
// invocation per triangle. Both produce bit-compatible records.
package prepare

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lights gathers emissive triangle meshes into the merged buffers
// consumed by light preparation.
//
// A [Collector] walks the light sources in enumeration order and produces a
// [Collection]: one merged vertex buffer, one merged index buffer, one
// [Task] per valid light and the emissive texture array. The light buffer
// offset of each task is the prefix sum of the triangle counts before it,
// so triangle t of light i lands at light index Tasks[i].LightBufferOffset+t.
package lights

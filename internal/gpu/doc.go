// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements the GPU side of the light preparation and
// resampling pipeline on top of [gpucore.GPUAdapter].
//
// [Renderer] owns every buffer the feature needs: the light geometry
// inputs, the packed light data, the reservoir triple buffer, the shading
// output and two G-buffer sets (current and history). Buffers are
// reallocated only when their size changes; contents are uploaded every
// frame.
//
// Light preparation runs the embedded WGSL shader from package prepare,
// compiled to SPIR-V with naga. Resampling dispatches a host-supplied
// SPIR-V kernel against the binding table in gpucore; the kernel reads the
// current and previous cameras from the ResampleCamera uniform (see
// [CameraBytes]). Without a kernel the renderer still prepares lights but
// cannot resample.
//
// History captured at one frame size is never bound at another: the
// renderer releases it and uploads constants with EnableResampling = 0.
package gpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native runs the light preparation and resampling pipeline on the
// GPU with gogpu/wgpu's HAL.
//
// Importing the package registers the "native" backend:
//
//	import _ "github.com/gogpu/restir/backend/native"
//
// [HALAdapter] implements gpucore.GPUAdapter over a hal.Device and
// hal.Queue. [OpenDevice] opens a Vulkan device; [NewFromProvider] shares
// the device of a gpucontext.DeviceProvider such as a gogpu application.
//
// Build with -tags nogpu to leave the GPU code out.
package native

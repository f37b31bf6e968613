// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package restir implements ReSTIR DI (Reservoir-based Spatiotemporal
// Importance Resampling for Direct Illumination) light preparation and
// resampling for dynamic emissive triangle lights.
//
// # Overview
//
// Every frame runs an explicit list of stages:
//
//	collect → prepare → resample → composite → history-copy
//
// collect merges the emissive meshes into one vertex/index set and one
// task per light; prepare turns each emissive triangle into a packed
// 32-byte light record; resample draws, reuses and shades one reservoir
// per pixel; composite adds the shading onto the scene color; history-copy
// retains the G-buffer for the next frame's temporal reuse.
//
// # Quick Start
//
//	f, err := restir.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	cube := lights.NewCube("lamp", mgl32.Vec3{0, 2, 0}, 0.5, mgl32.Vec3{8, 2, 2})
//	report, err := f.RenderFrame(ctx, &restir.FrameInput{
//	    Lights:  []lights.Source{cube},
//	    GBuffer: gbuf,
//	    Camera:  cam,
//	})
//
// # Backends
//
// The CPU reference backend (backend.BackendSoftware) executes the whole
// protocol in Go over the GPU data formats. The GPU backend in
// backend/native runs the light preparation compute shader and dispatches
// a host-supplied resampling kernel; import it for its side effect and
// pass WithResampleKernel:
//
//	import _ "github.com/gogpu/restir/backend/native"
//
// # Executable state
//
// A backend that fails to initialize leaves the feature not executable for
// its lifetime (Err reports why). Frames that are disabled, have no valid
// light or have no backend are skipped and reported, never failed. Invalid
// light sources are dropped from the frame, not reported as errors.
//
// # Logging
//
// restir is silent by default. Use SetLogger or WithLogger to enable
// structured logging through log/slog.
package restir

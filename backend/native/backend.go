// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"context"
	"fmt"

	"github.com/gogpu/restir/backend"
	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/internal/gpu"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
)

func init() {
	backend.Register(backend.BackendNative, func() backend.Backend {
		return &Backend{}
	})
}

// Backend runs the pipeline on the GPU through a gpucore.GPUAdapter.
type Backend struct {
	device   *Device
	renderer *gpu.Renderer
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendNative }

// Init acquires an adapter, from cfg.Adapter, cfg.Provider or a newly
// opened Vulkan device in that order, and builds the GPU pipelines. A
// resampling kernel is required.
func (b *Backend) Init(cfg backend.Config) error {
	if b.renderer != nil {
		return nil
	}
	if len(cfg.ResampleKernel) == 0 {
		return backend.ErrNoResampleKernel
	}

	var adapter gpucore.GPUAdapter
	switch {
	case cfg.Adapter != nil:
		adapter = cfg.Adapter
	case cfg.Provider != nil:
		d, err := NewFromProvider(cfg.Provider)
		if err != nil {
			return err
		}
		b.device, adapter = d, d
	default:
		d, err := OpenDevice()
		if err != nil {
			return err
		}
		b.device, adapter = d, d
	}

	r, err := gpu.NewRenderer(adapter, gpu.Config{
		ResampleKernel: cfg.ResampleKernel,
		Compiler:       cfg.Compile,
	})
	if err != nil {
		b.closeDevice()
		return fmt.Errorf("native: %w", err)
	}
	b.renderer = r
	return nil
}

func (b *Backend) closeDevice() {
	if b.device == nil {
		return
	}
	if err := b.device.Close(); err != nil {
		backend.Logger().Warn("native: close device", "err", err)
	}
	b.device = nil
}

// Close releases the GPU resources and any device the backend opened.
func (b *Backend) Close() {
	if b.renderer != nil {
		b.renderer.Close()
		b.renderer = nil
	}
	b.closeDevice()
}

// Prepare uploads the light geometry and dispatches light preparation.
func (b *Backend) Prepare(ctx context.Context, col *lights.Collection) (backend.PrepareResult, error) {
	if b.renderer == nil {
		return backend.PrepareResult{}, backend.ErrNotInitialized
	}
	dispatched, err := b.renderer.Prepare(ctx, col)
	if err != nil {
		return backend.PrepareResult{}, err
	}
	return backend.PrepareResult{NumLights: b.renderer.NumLights(), Dispatched: dispatched}, nil
}

// Resample dispatches the resampling kernel and reads the shading back.
func (b *Backend) Resample(ctx context.Context, f *backend.Frame) (*frame.Target, error) {
	if b.renderer == nil {
		return nil, backend.ErrNotInitialized
	}
	if f == nil {
		return nil, fmt.Errorf("native: nil frame")
	}
	return b.renderer.Resample(ctx, gpu.Frame{
		Constants:  f.Constants,
		GBuffer:    f.GBuffer,
		Camera:     f.Camera,
		PrevCamera: f.PrevCamera,
	})
}

// CaptureHistory copies the G-buffer uploaded by the last Resample, which
// is g, into the history buffers.
func (b *Backend) CaptureHistory(*frame.GBuffer) error {
	if b.renderer == nil {
		return backend.ErrNotInitialized
	}
	return b.renderer.CaptureHistory()
}

// HistoryReady reports whether history buffers hold a previous frame of
// width×height.
func (b *Backend) HistoryReady(width, height int) bool {
	return b.renderer != nil && b.renderer.HistoryReady(width, height)
}

// ReleaseHistory drops the history buffers.
func (b *Backend) ReleaseHistory() {
	if b.renderer != nil {
		b.renderer.ReleaseHistory()
	}
}

// LightData reads the light records back from the GPU.
func (b *Backend) LightData(ctx context.Context) ([]prepare.LightInfo, error) {
	if b.renderer == nil {
		return nil, backend.ErrNotInitialized
	}
	return b.renderer.LightData(ctx)
}

var _ backend.Backend = (*Backend)(nil)

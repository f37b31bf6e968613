// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"context"
	"slices"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/history"
	"github.com/gogpu/restir/internal/parallel"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
	"github.com/gogpu/restir/resampling"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendNative = "native"
)

// SoftwareBackend runs light preparation and resampling on the CPU over
// the GPU data formats. It is the reference for GPU backends and the
// fallback when no GPU is available.
type SoftwareBackend struct {
	initialized bool
	pool        *parallel.Pool
	preparer    *prepare.Preparer
	engine      *resampling.Engine
	history     *history.Manager[*frame.Target]
	lights      []prepare.LightInfo
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() Backend {
		return &SoftwareBackend{}
	})
}

// NewSoftwareBackend creates a new software backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init starts the worker pool.
func (b *SoftwareBackend) Init(cfg Config) error {
	if b.initialized {
		return nil
	}
	b.pool = parallel.NewPool(cfg.Workers)
	b.preparer = prepare.NewPreparer(b.pool)
	b.engine = resampling.NewEngine(b.pool, cfg.Visibility)
	b.history = history.NewTargetManager()
	b.initialized = true
	Logger().Debug("backend: software ready", "workers", b.pool.Workers())
	return nil
}

// Close releases all backend resources.
func (b *SoftwareBackend) Close() {
	if !b.initialized {
		return
	}
	b.history.Release()
	b.engine.Release()
	b.pool.Close()
	b.lights = nil
	b.initialized = false
}

// Prepare converts the collection into light records on the worker pool.
func (b *SoftwareBackend) Prepare(ctx context.Context, col *lights.Collection) (PrepareResult, error) {
	if !b.initialized {
		return PrepareResult{}, ErrNotInitialized
	}
	res, err := b.preparer.Prepare(ctx, col)
	if err != nil {
		return PrepareResult{}, err
	}
	b.lights = res.Lights
	return PrepareResult{NumLights: uint32(len(res.Lights)), Dispatched: res.HasLights()}, nil
}

// Resample runs the resampling engine.
func (b *SoftwareBackend) Resample(ctx context.Context, f *Frame) (*frame.Target, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if f == nil {
		return nil, resampling.ErrNoGBuffer
	}
	in := &resampling.Input{
		Constants:  f.Constants,
		Settings:   f.Settings,
		Lights:     b.lights,
		GBuffer:    f.GBuffer,
		Camera:     f.Camera,
		PrevCamera: f.PrevCamera,
	}
	if prev, ok := b.history.Previous(); ok {
		in.PrevGBuffer = history.GBuffer(prev)
	}
	return b.engine.Resample(ctx, in)
}

// CaptureHistory copies g into the history targets.
func (b *SoftwareBackend) CaptureHistory(g *frame.GBuffer) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if err := g.Validate(); err != nil {
		b.history.Release()
		return err
	}
	return b.history.Capture(history.GBufferSet(g))
}

// HistoryReady reports whether a previous G-buffer of width×height is
// retained.
func (b *SoftwareBackend) HistoryReady(width, height int) bool {
	if !b.initialized {
		return false
	}
	prev, ok := b.history.Previous()
	return ok && prev[0].Width == width && prev[0].Height == height
}

// ReleaseHistory drops the retained G-buffer.
func (b *SoftwareBackend) ReleaseHistory() {
	if b.initialized {
		b.history.Release()
	}
}

// LightData returns a copy of the prepared light records.
func (b *SoftwareBackend) LightData(ctx context.Context) ([]prepare.LightInfo, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(b.lights), nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/restir/backend"
	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
	"github.com/gogpu/restir/resampling"
)

// FrameInput is what the host hands to one frame.
type FrameInput struct {
	// Lights are the candidate emissive meshes in a stable order. The
	// order assigns light indices and must not change between frames for
	// temporal reuse to stay valid.
	Lights []lights.Source

	// GBuffer is the current frame's G-buffer. Its size is the render size.
	GBuffer *frame.GBuffer

	// Camera produced GBuffer.
	Camera frame.Camera

	// SceneColor, when set, receives the shading output additively in the
	// composite stage.
	SceneColor *frame.Target
}

// FrameReport describes one rendered frame.
type FrameReport struct {
	FrameIndex uint32

	// Executable reports whether prepare and resample ran. Reason holds
	// why not.
	Executable bool
	Reason     error

	// NoLights is set when no valid light triangle was collected.
	NoLights bool

	// LightOffsets holds the first light index of every collected light.
	LightOffsets   []uint32
	TotalTriangles uint32
	Skipped        []lights.Skipped

	// PrepareDispatched reports whether light preparation work ran.
	PrepareDispatched bool

	// HistoryReady reports whether the previous G-buffer was available to
	// this frame.
	HistoryReady bool

	Constants resampling.Constants

	// Shading is the HDR shading output, owned by the feature and valid
	// until the next RenderFrame.
	Shading *frame.Target
}

// Feature drives the light preparation and resampling pipeline frame by
// frame. Methods are serialized by a mutex; a Feature is meant to be
// driven from one goroutine.
type Feature struct {
	mu sync.Mutex

	settings  Settings
	collector lights.Collector
	stages    []stage

	backend backend.Backend
	// initErr is the persistent reason the backend is unavailable.
	initErr error

	frameIndex uint32
	prevCamera frame.Camera
	executable bool
	closed     bool
}

// New creates a Feature and initializes its backend. A backend that fails
// to initialize does not fail New: the feature is then not executable for
// its whole lifetime and Err reports why.
func New(opts ...Option) (*Feature, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	f := &Feature{
		settings: o.settings.Clamped(),
		stages:   defaultStages(),
	}
	f.collector.ResizeMismatchedTextures = f.settings.ResizeMismatchedTextures

	var (
		b   backend.Backend
		err error
	)
	if o.backendName != "" {
		b = backend.Get(o.backendName)
		if b == nil {
			return nil, fmt.Errorf("%w: %q", backend.ErrBackendNotAvailable, o.backendName)
		}
		if err = b.Init(o.cfg); err != nil {
			b.Close()
		}
	} else {
		b, err = backend.InitDefault(o.cfg)
	}
	if err != nil {
		f.initErr = fmt.Errorf("%w: %w", ErrNotExecutable, err)
		Logger().Warn("restir: backend unavailable, feature disabled", "err", err)
		return f, nil
	}

	f.backend = b
	f.executable = f.settings.Enable
	Logger().Info("restir: backend selected", "backend", b.Name())
	return f, nil
}

// Err returns the persistent reason the feature is not executable, or nil.
func (f *Feature) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initErr
}

// Backend returns the name of the active backend, empty when none.
func (f *Feature) Backend() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.backend == nil {
		return ""
	}
	return f.backend.Name()
}

// Executable reports whether the last frame ran prepare and resample.
// Before the first frame it reports whether the feature can run at all.
func (f *Feature) Executable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executable
}

// Settings returns the current, clamped settings.
func (f *Feature) Settings() Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// SetSettings replaces the settings from the next frame on. Values are
// clamped.
func (f *Feature) SetSettings(s Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = s.Clamped()
	f.collector.ResizeMismatchedTextures = f.settings.ResizeMismatchedTextures
}

// Stages returns the names of the per-frame stages in execution order.
func (f *Feature) Stages() []string {
	names := make([]string, len(f.stages))
	for i, s := range f.stages {
		names[i] = s.name
	}
	return names
}

// RenderFrame runs the stages over in. A frame that is not executable is
// skipped and releases the history; it is reported, not failed.
func (f *Feature) RenderFrame(ctx context.Context, in *FrameInput) (*FrameReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if in == nil {
		return nil, ErrNilInput
	}
	if err := in.GBuffer.Validate(); err != nil {
		return nil, fmt.Errorf("restir: frame %d: %w", f.frameIndex, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := &frameState{
		in:     in,
		report: &FrameReport{FrameIndex: f.frameIndex},
	}
	defer func() { f.frameIndex++ }()

	for _, s := range f.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.run(ctx, f, st); err != nil {
			return nil, fmt.Errorf("restir: frame %d: %s: %w", st.report.FrameIndex, s.name, err)
		}
		if st.skip {
			break
		}
	}
	f.executable = st.report.Executable
	return st.report, nil
}

// DebugLightData reads the prepared light records back out of band and
// logs each at debug level. It stalls until the GPU is idle and is meant
// for diagnostics only.
func (f *Feature) DebugLightData(ctx context.Context) ([]prepare.LightInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	if f.backend == nil {
		return nil, f.initErr
	}
	infos, err := f.backend.LightData(ctx)
	if err != nil {
		return nil, fmt.Errorf("restir: light data: %w", err)
	}
	log := Logger()
	for i, l := range infos {
		log.Debug("restir: light", "triangle", i+1, "info", l.String())
	}
	return infos, nil
}

// Close releases the backend. Close is idempotent.
func (f *Feature) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.executable = false
	if f.backend != nil {
		f.backend.Close()
		f.backend = nil
	}
}

// reason returns why a frame cannot execute, or nil.
func (f *Feature) reason(col *lights.Collection) error {
	switch {
	case f.backend == nil:
		return f.initErr
	case !f.settings.Enable:
		return ErrDisabled
	case col.Empty():
		return ErrNoLights
	}
	return nil
}

// IsSkipped reports whether err is one of the reasons a frame is skipped
// rather than failed.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrNotExecutable) || errors.Is(err, ErrDisabled) || errors.Is(err, ErrNoLights)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"context"
	"fmt"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/history"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
	"github.com/gogpu/restir/resampling"
)

// Config configures a Renderer.
type Config struct {
	// ResampleKernel is the SPIR-V of the resampling kernel. It must export
	// ResampleEntryPoint with the gpucore Resample* bindings in group 0 and
	// a ResampleWorkgroupSize square workgroup. Without it the renderer
	// prepares lights but cannot resample.
	ResampleKernel []uint32

	// Compiler compiles the light preparation shader. Defaults to
	// CompileWGSL.
	Compiler Compiler
}

// Frame is what one resampling dispatch reads.
type Frame struct {
	Constants resampling.Constants
	GBuffer   *frame.GBuffer

	// Camera rendered GBuffer; PrevCamera rendered the history.
	Camera     frame.Camera
	PrevCamera frame.Camera
}

// Renderer owns the GPU resources of the feature and records its passes.
//
// A Renderer is driven by one goroutine at a time.
type Renderer struct {
	adapter  gpucore.GPUAdapter
	res      *resources
	history  *history.Manager[Buffer]
	prepare  *pipeline
	resample *pipeline

	numLights uint32
	shading   *frame.Target
	closed    bool

	// size of the G-buffer last uploaded and of the one held as history.
	frameW, frameH     int
	historyW, historyH int
}

// NewRenderer compiles the light preparation shader and, when a kernel is
// configured, builds the resampling pipeline.
func NewRenderer(adapter gpucore.GPUAdapter, cfg Config) (*Renderer, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	if !adapter.SupportsCompute() {
		return nil, ErrNoCompute
	}
	compile := cfg.Compiler
	if compile == nil {
		compile = CompileWGSL
	}
	r := &Renderer{adapter: adapter, res: newResources(adapter)}
	r.history = history.NewManager[Buffer](bufferCopier{s: r.res})

	var err error
	if r.prepare, err = newPreparePass(adapter, compile); err != nil {
		return nil, err
	}
	if len(cfg.ResampleKernel) > 0 {
		if r.resample, err = newResamplePass(adapter, cfg.ResampleKernel); err != nil {
			r.prepare.destroy()
			return nil, err
		}
	}
	slogger().Debug("gpu: renderer ready", "resample", r.resample != nil)
	return r, nil
}

// CanResample reports whether a resampling kernel is available.
func (r *Renderer) CanResample() bool { return r.resample != nil }

// NumLights returns the light count of the last Prepare.
func (r *Renderer) NumLights() uint32 { return r.numLights }

// Prepare uploads the merged light geometry and dispatches the light
// preparation shader. Nothing is dispatched for an empty collection;
// dispatched reports whether work was submitted.
func (r *Renderer) Prepare(ctx context.Context, col *lights.Collection) (dispatched bool, err error) {
	if r.closed {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if col.Empty() {
		r.numLights = 0
		return false, nil
	}
	if err := r.res.uploadLights(col); err != nil {
		return false, err
	}
	group, err := r.prepare.bind(r.res.generation, r.res.prepareEntries)
	if err != nil {
		return false, err
	}
	groups := prepare.DispatchGroups(col.TotalTriangles)
	r.prepare.dispatch(group, groups, 1)
	if err := r.adapter.Submit(); err != nil {
		return false, fmt.Errorf("gpu: submit prepare: %w", err)
	}
	r.numLights = col.TotalTriangles
	slogger().Debug("gpu: prepare lights", "triangles", col.TotalTriangles, "groups", groups)
	return true, nil
}

// Resample uploads the frame, dispatches the resampling kernel and reads
// the shading output back. History captured at another size is released
// and the uploaded constants then carry EnableResampling = 0, whatever
// f.Constants says.
func (r *Renderer) Resample(ctx context.Context, f Frame) (*frame.Target, error) {
	g := f.GBuffer
	switch {
	case r.closed:
		return nil, ErrClosed
	case r.resample == nil:
		return nil, ErrNoResampleKernel
	case r.numLights == 0:
		return nil, ErrNoLights
	case g == nil:
		return nil, resampling.ErrNoGBuffer
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := g.Size()
	ready := r.HistoryReady(w, h)
	if !ready && r.history.Ready() {
		slogger().Debug("gpu: history size mismatch", "history", [2]int{r.historyW, r.historyH}, "frame", [2]int{w, h})
		r.history.Release()
	}
	c := f.Constants
	if !ready {
		c.EnableResampling = 0
	}
	if err := r.res.uploadFrame(c, f); err != nil {
		return nil, err
	}
	r.frameW, r.frameH = w, h
	prev, _ := r.history.Previous()
	group, err := r.resample.bind(r.res.generation, func() []gpucore.BindGroupEntry {
		return r.res.resampleEntries(prev, ready)
	})
	if err != nil {
		return nil, err
	}
	x, y := ResampleDispatch(w, h)
	r.resample.dispatch(group, x, y)
	if err := r.adapter.Submit(); err != nil {
		return nil, fmt.Errorf("gpu: submit resample: %w", err)
	}

	size := uint64(w * h * shadingTexelSize)
	b, err := r.adapter.ReadBuffer(r.res.get(roleShading).ID, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: read shading output: %w", err)
	}
	if r.shading == nil || r.shading.Width != w || r.shading.Height != h {
		r.shading = frame.NewTarget(w, h)
	}
	if err := decodeShading(b, r.shading); err != nil {
		return nil, err
	}
	slogger().Debug("gpu: resample", "width", w, "height", h, "groups_x", x, "groups_y", y)
	return r.shading, nil
}

// CaptureHistory copies the G-buffer uploaded by the last Resample into
// the history buffers.
func (r *Renderer) CaptureHistory() error {
	if r.closed {
		return ErrClosed
	}
	var cur history.Set[Buffer]
	for i, role := range gbufferRoles {
		cur[i] = r.res.get(role)
	}
	if err := r.history.Capture(cur); err != nil {
		return err
	}
	if err := r.adapter.Submit(); err != nil {
		r.history.Release()
		return fmt.Errorf("gpu: submit history copy: %w", err)
	}
	r.historyW, r.historyH = r.frameW, r.frameH
	return nil
}

// HistoryReady reports whether history buffers hold a previous frame of
// width×height.
func (r *Renderer) HistoryReady(width, height int) bool {
	return r.history.Ready() && r.historyW == width && r.historyH == height
}

// ReleaseHistory drops the history buffers.
func (r *Renderer) ReleaseHistory() { r.history.Release() }

// LightData reads the prepared light records back. It stalls until the GPU
// is idle and is meant for debugging.
func (r *Renderer) LightData(ctx context.Context) ([]prepare.LightInfo, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.numLights == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := uint64(r.numLights) * prepare.LightInfoSize
	b, err := r.adapter.ReadBuffer(r.res.get(roleLightData).ID, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: read light data: %w", err)
	}
	if uint64(len(b)) < size {
		return nil, fmt.Errorf("%w: light data has %d bytes, want %d", ErrReadback, len(b), size)
	}
	return prepare.ParseLightInfos(b[:size])
}

// Close releases every resource. It is safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if err := r.adapter.WaitIdle(); err != nil {
		slogger().Warn("gpu: wait idle on close", "err", err)
	}
	r.history.Release()
	if r.resample != nil {
		r.resample.destroy()
	}
	r.prepare.destroy()
	r.res.destroy()
	r.shading = nil
}

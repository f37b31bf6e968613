// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import (
	"context"

	"github.com/gogpu/restir/backend"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/resampling"
)

// Stage names, in execution order.
const (
	StageCollect     = "collect"
	StagePrepare     = "prepare"
	StageResample    = "resample"
	StageComposite   = "composite"
	StageHistoryCopy = "history-copy"
)

// frameState is the per-frame data passed between stages.
type frameState struct {
	in     *FrameInput
	report *FrameReport

	col       *lights.Collection
	numLights uint32

	// skip ends the frame after the current stage.
	skip bool
}

type stage struct {
	name string
	run  func(ctx context.Context, f *Feature, st *frameState) error
}

func defaultStages() []stage {
	return []stage{
		{StageCollect, collectStage},
		{StagePrepare, prepareStage},
		{StageResample, resampleStage},
		{StageComposite, compositeStage},
		{StageHistoryCopy, historyCopyStage},
	}
}

// collectStage merges the light geometry and decides whether the frame
// executes. A skipped frame releases the history so that reuse never
// spans a gap.
func collectStage(_ context.Context, f *Feature, st *frameState) error {
	col := f.collector.Collect(st.in.Lights)
	st.col = col

	r := st.report
	r.LightOffsets = col.GeometryInstanceToLight
	r.TotalTriangles = col.TotalTriangles
	r.Skipped = col.Skipped
	r.NoLights = col.Empty()

	log := Logger()
	for _, s := range col.Skipped {
		log.Debug("restir: light skipped", "index", s.Index, "reason", s.Reason.String())
	}
	if col.TextureErr != nil {
		log.Warn("restir: emissive textures dropped", "err", col.TextureErr)
	}

	if reason := f.reason(col); reason != nil {
		r.Reason = reason
		st.skip = true
		if f.backend != nil {
			f.backend.ReleaseHistory()
		}
		if f.executable {
			log.Warn("restir: frame not executable", "frame", r.FrameIndex, "reason", reason)
		}
		return nil
	}
	r.Executable = true
	return nil
}

func prepareStage(ctx context.Context, f *Feature, st *frameState) error {
	res, err := f.backend.Prepare(ctx, st.col)
	if err != nil {
		return err
	}
	st.numLights = res.NumLights
	st.report.PrepareDispatched = res.Dispatched
	return nil
}

func resampleStage(ctx context.Context, f *Feature, st *frameState) error {
	r := st.report
	w, h := st.in.GBuffer.Size()
	r.HistoryReady = f.backend.HistoryReady(w, h)

	s := f.settings.Resampling()
	r.Constants = resampling.BuildConstants(s, resampling.FrameState{
		Width:        uint32(w),
		Height:       uint32(h),
		FrameIndex:   r.FrameIndex,
		NumLights:    st.numLights,
		HistoryReady: r.HistoryReady,
	})

	shading, err := f.backend.Resample(ctx, &backend.Frame{
		Constants:  r.Constants,
		Settings:   s,
		GBuffer:    st.in.GBuffer,
		Camera:     st.in.Camera,
		PrevCamera: f.prevCamera,
	})
	if err != nil {
		return err
	}
	r.Shading = shading
	return nil
}

// compositeStage adds the shading output onto the scene color.
func compositeStage(_ context.Context, _ *Feature, st *frameState) error {
	if st.in.SceneColor == nil {
		return nil
	}
	return st.in.SceneColor.Add(st.report.Shading)
}

// historyCopyStage retains the current G-buffer and camera for the next
// frame's temporal reuse.
func historyCopyStage(_ context.Context, f *Feature, st *frameState) error {
	if err := f.backend.CaptureHistory(st.in.GBuffer); err != nil {
		return err
	}
	f.prevCamera = st.in.Camera
	return nil
}

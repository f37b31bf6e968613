// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/gogpu/restir/frame"
)

// temporal merges the reservoir of the reprojected pixel from the previous
// frame into cur. The history sample is ignored when the surfaces differ,
// when it has aged out, or when its light no longer exists.
func (e *Engine) temporal(f *frameCtx, s *frame.Surface, cur Reservoir, rng *rand.Rand) Reservoir {
	in := f.in
	if f.prev == nil {
		return cur
	}
	fx, fy, _, ok := in.PrevCamera.Project(s.Position, f.width, f.height)
	if !ok {
		return cur
	}
	tx, ty := ActivateCheckerboardPixel(int(math32.Floor(fx)), int(math32.Floor(fy)), true, f.field)
	if tx < 0 || ty < 0 || tx >= f.width || ty >= f.height {
		return cur
	}
	prevSurface, ok := f.prev.Surface(tx, ty, in.PrevCamera)
	if !ok || !frame.Similar(*s, prevSurface) {
		return cur
	}

	rx, ry := PixelToReservoir(uint32(tx), uint32(ty), f.field)
	prev := e.buf.Load(rx, ry, f.c.InputBufferIndex)
	if prev.Valid() {
		prev.Age++
		if prev.Age > MaxAge || int(prev.LightIndex()) >= len(f.tris) {
			return cur
		}
	}
	historyLimit := max(1, f.in.Settings.MaxHistoryLength) * cur.M
	prev.M = min(prev.M, historyLimit)

	var state Reservoir
	state.Combine(cur, rng.Float32(), cur.TargetPdf)

	var prevTarget float32
	if prev.Valid() {
		prevTarget = f.eval(s, prev.LightIndex(), prev.UV).target
	}
	selectedPrev := state.Combine(prev, rng.Float32(), prevTarget)

	if f.c.UnbiasedMode == 0 {
		state.Finalize(1, float32(state.M))
		return state
	}

	pi := state.TargetPdf
	piSum := state.TargetPdf * float32(cur.M)
	if state.Valid() {
		ev := f.eval(&prevSurface, state.LightIndex(), state.UV)
		p := ev.target
		if p > 0 && !e.vis.Visible(biasedOrigin(&prevSurface), ev.point) {
			p = 0
		}
		if selectedPrev {
			pi = p
		}
		piSum += p * float32(prev.M)
	}
	state.Finalize(pi, piSum)
	return state
}

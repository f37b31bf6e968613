// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/gogpu/restir/frame"
)

type neighbor struct {
	surface *frame.Surface
	m       uint32
}

// spatial merges the temporal results of random neighbors into center.
// Neighbors are taken from the offset table starting at a random index and
// must lie on a similar surface in the active checkerboard field.
func (e *Engine) spatial(f *frameCtx, px, py int, s *frame.Surface, center Reservoir, rng *rand.Rand) Reservoir {
	var state Reservoir
	state.Combine(center, rng.Float32(), center.TargetPdf)

	radius := f.in.Settings.SpatialRadius
	count := min(f.c.NumSpatialSamples, maxSamples)
	start := rng.Uint32()

	var neighbors [maxSamples]neighbor
	used := 0
	selected := -1
	for i := range count {
		o := f.offsets[(start+i)&NeighborOffsetMask]
		dx := int(math32.Round(o[0] * radius))
		dy := int(math32.Round(o[1] * radius))
		nx, ny := ActivateCheckerboardPixel(px+dx, py+dy, false, f.field)
		if nx == px && ny == py {
			continue
		}
		ns, ok := f.surface(nx, ny)
		if !ok || !frame.Similar(*s, *ns) {
			continue
		}
		rx, ry := PixelToReservoir(uint32(nx), uint32(ny), f.field)
		nr := e.buf.Load(rx, ry, ScratchBufferIndex)

		var target float32
		if nr.Valid() {
			target = f.eval(s, nr.LightIndex(), nr.UV).target
		}
		if state.Combine(nr, rng.Float32(), target) {
			selected = used
			state.SpatialDistance = [2]int8{clampInt8(nx - px), clampInt8(ny - py)}
		}
		neighbors[used] = neighbor{surface: ns, m: nr.M}
		used++
	}

	if f.c.UnbiasedMode == 0 {
		state.Finalize(1, float32(state.M))
		return state
	}

	pi := state.TargetPdf
	piSum := state.TargetPdf * float32(center.M)
	if state.Valid() {
		for j := range used {
			n := &neighbors[j]
			ev := f.eval(n.surface, state.LightIndex(), state.UV)
			p := ev.target
			if p > 0 && !e.vis.Visible(biasedOrigin(n.surface), ev.point) {
				p = 0
			}
			if j == selected {
				pi = p
			}
			piSum += p * float32(n.m)
		}
	}
	state.Finalize(pi, piSum)
	return state
}

func clampInt8(v int) int8 {
	return int8(max(-128, min(127, v)))
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
)

type candidate struct {
	light  uint32
	uv     mgl32.Vec2
	target float32
	pdfL   float32
	pdfB   float32
}

// brdfRayCount returns how many of n BRDF rays to cast when the best light
// candidate has target pdf best. A zero cutoff means no cutoff.
func brdfRayCount(n uint32, cutoff, best float32) uint32 {
	if cutoff > 0 && best >= cutoff {
		return 0
	}
	return n
}

// initialSample draws light and BRDF candidates for s and resamples them
// into a single-sample reservoir. Candidates are weighted with the balance
// heuristic over both strategies. BRDF rays are only cast when the best
// light candidate is dimmer than the BRDF cutoff.
func (f *frameCtx) initialSample(s *frame.Surface, rng *rand.Rand) Reservoir {
	if len(f.tris) == 0 {
		return EmptyReservoir()
	}
	numLight := min(f.c.NumInitialSamples, maxSamples)
	numBRDF := min(f.c.NumInitialBRDFSamples, maxSamples)

	var cands [maxSamples]candidate
	var best float32
	for i := range numLight {
		idx, _ := f.sampler.Sample(rng.Float32())
		uv := mgl32.Vec2{rng.Float32(), rng.Float32()}
		ev := f.eval(s, uint32(idx), uv)
		cands[i] = candidate{
			light:  uint32(idx),
			uv:     uv,
			target: ev.target,
			pdfL:   f.lightPdf(uint32(idx)),
			pdfB:   brdfPdf(s, &ev),
		}
		best = max(best, ev.target)
	}
	numBRDF = brdfRayCount(numBRDF, f.c.BRDFCutoff, best)

	var r Reservoir
	for i := range numLight {
		c := &cands[i]
		r.Stream(c.light, c.uv, rng.Float32(), c.target, misWeight(c, numLight, numBRDF))
	}

	origin := biasedOrigin(s)
	for range numBRDF {
		dir, _ := sampleCosineHemisphere(s.Normal, rng.Float32(), rng.Float32())
		light, uv, hit := f.trace(origin, dir)
		if !hit {
			r.Stream(0, mgl32.Vec2{}, rng.Float32(), 0, 0)
			continue
		}
		ev := f.eval(s, light, uv)
		c := candidate{
			light:  light,
			uv:     uv,
			target: ev.target,
			pdfL:   f.lightPdf(light),
			pdfB:   brdfPdf(s, &ev),
		}
		r.Stream(c.light, c.uv, rng.Float32(), c.target, misWeight(&c, numLight, numBRDF))
	}

	r.Finalize(1, 1)
	r.M = 1
	return r
}

func misWeight(c *candidate, numLight, numBRDF uint32) float32 {
	denom := float32(numLight)*c.pdfL + float32(numBRDF)*c.pdfB
	if denom <= 0 || c.target <= 0 {
		return 0
	}
	return c.target / denom
}

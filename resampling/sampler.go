// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"sort"

	"github.com/gogpu/restir/prepare"
)

// LightSampler picks triangle lights with probability proportional to their
// emitted power, falling back to uniform selection when no light has power.
type LightSampler struct {
	cdf []float32
	pmf []float32
}

// NewLightSampler builds the distribution over tris.
func NewLightSampler(tris []prepare.TriangleLight) *LightSampler {
	s := &LightSampler{
		cdf: make([]float32, len(tris)),
		pmf: make([]float32, len(tris)),
	}
	var total float32
	for i, t := range tris {
		p := max(0, t.Power())
		s.pmf[i] = p
		total += p
		s.cdf[i] = total
	}
	n := float32(len(tris))
	for i := range s.cdf {
		if total > 0 {
			s.pmf[i] /= total
			s.cdf[i] /= total
		} else {
			s.pmf[i] = 1 / n
			s.cdf[i] = float32(i+1) / n
		}
	}
	return s
}

// Len returns the number of lights.
func (s *LightSampler) Len() int { return len(s.cdf) }

// Sample maps u in [0,1) to a light index and its probability.
func (s *LightSampler) Sample(u float32) (int, float32) {
	if len(s.cdf) == 0 {
		return -1, 0
	}
	i := sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > u })
	if i == len(s.cdf) {
		i--
	}
	for i > 0 && s.pmf[i] == 0 {
		i--
	}
	return i, s.pmf[i]
}

// Pmf returns the selection probability of light i.
func (s *LightSampler) Pmf(i int) float32 {
	if i < 0 || i >= len(s.pmf) {
		return 0
	}
	return s.pmf[i]
}

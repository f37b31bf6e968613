// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/prepare"
)

func tri(radiance float32, area float32) prepare.TriangleLight {
	return prepare.TriangleLight{Radiance: mgl32.Vec3{radiance, radiance, radiance}, Area: area}
}

func TestLightSamplerPower(t *testing.T) {
	s := NewLightSampler([]prepare.TriangleLight{tri(1, 1), tri(0, 5), tri(3, 1)})
	if s.Len() != 3 {
		t.Fatalf("Len = %d", s.Len())
	}
	if p := s.Pmf(0); math.Abs(float64(p-0.25)) > 1e-6 {
		t.Errorf("pmf(0) = %v, want 0.25", p)
	}
	if p := s.Pmf(1); p != 0 {
		t.Errorf("pmf(1) = %v, want 0", p)
	}
	if p := s.Pmf(2); math.Abs(float64(p-0.75)) > 1e-6 {
		t.Errorf("pmf(2) = %v, want 0.75", p)
	}
	for _, u := range []float32{0, 0.1, 0.2499, 0.25, 0.6, 0.99999} {
		i, pmf := s.Sample(u)
		if i == 1 || pmf == 0 {
			t.Errorf("Sample(%v) = %d, %v", u, i, pmf)
		}
	}
	if s.Pmf(-1) != 0 || s.Pmf(3) != 0 {
		t.Error("out-of-range pmf not zero")
	}
}

func TestLightSamplerUniformFallback(t *testing.T) {
	s := NewLightSampler([]prepare.TriangleLight{tri(0, 1), tri(0, 1)})
	if i, p := s.Sample(0.75); i != 1 || p != 0.5 {
		t.Errorf("Sample(0.75) = %d, %v; want 1, 0.5", i, p)
	}
	empty := NewLightSampler(nil)
	if i, p := empty.Sample(0.5); i != -1 || p != 0 {
		t.Errorf("empty Sample = %d, %v", i, p)
	}
}

func flatSurface(albedo float32, roughness float32) *frame.Surface {
	return &frame.Surface{
		Normal:    mgl32.Vec3{0, 1, 0},
		View:      mgl32.Vec3{0, 1, 1}.Normalize(),
		Diffuse:   mgl32.Vec3{albedo, albedo, albedo},
		F0:        mgl32.Vec3{0.04, 0.04, 0.04},
		Roughness: roughness,
	}
}

func TestShadeBRDF(t *testing.T) {
	s := flatSurface(0.5, 1)
	if f := ShadeBRDF(s, mgl32.Vec3{0, -1, 0}); f != (mgl32.Vec3{}) {
		t.Errorf("below horizon = %v, want 0", f)
	}
	if f := ShadeBRDF(s, mgl32.Vec3{0, 1, 0}); f[0] <= 0.5/math.Pi {
		t.Errorf("normal incidence = %v, want above the diffuse term", f)
	}

	// Cosine sampling estimates the directional albedo, which a passive
	// surface keeps below one.
	rng := rand.New(rand.NewPCG(1, 2))
	var sum float32
	const n = 20000
	for range n {
		dir, pdf := sampleCosineHemisphere(s.Normal, rng.Float32(), rng.Float32())
		if pdf <= 0 {
			continue
		}
		sum += ShadeBRDF(s, dir)[1] / pdf
	}
	if albedo := sum / n; albedo <= 0.4 || albedo >= 1 {
		t.Errorf("directional albedo = %v, want in (0.4, 1)", albedo)
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, n := range []mgl32.Vec3{{0, 1, 0}, {0, 0, -1}, mgl32.Vec3{1, 1, 1}.Normalize()} {
		for range 500 {
			dir, pdf := sampleCosineHemisphere(n, rng.Float32(), rng.Float32())
			if math.Abs(float64(dir.Len()-1)) > 1e-3 {
				t.Fatalf("normal %v: |dir| = %v", n, dir.Len())
			}
			if dir.Dot(n) < -1e-4 {
				t.Fatalf("normal %v: dir %v below the surface", n, dir)
			}
			if math.Abs(float64(pdf-cosineHemispherePdf(n, dir))) > 1e-3 {
				t.Fatalf("normal %v: pdf %v vs %v", n, pdf, cosineHemispherePdf(n, dir))
			}
		}
	}
}

func TestBRDFRayCount(t *testing.T) {
	tests := []struct {
		name         string
		n            uint32
		cutoff, best float32
		want         uint32
	}{
		{"no cutoff casts always", 2, 0, 10, 2},
		{"no cutoff dark pixel", 2, 0, 0, 2},
		{"bright light skips", 2, 0.5, 0.75, 0},
		{"at cutoff skips", 1, 0.5, 0.5, 0},
		{"dim light casts", 3, 0.5, 0.25, 3},
		{"no rays requested", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := brdfRayCount(tt.n, tt.cutoff, tt.best); got != tt.want {
				t.Errorf("brdfRayCount(%d, %v, %v) = %d, want %d", tt.n, tt.cutoff, tt.best, got, tt.want)
			}
		})
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrIncompleteGBuffer is returned when a G-buffer lacks a target.
var ErrIncompleteGBuffer = errors.New("frame: incomplete G-buffer")

// FarDepth is the cleared depth value: no surface.
const FarDepth = 1.0

// MinRoughness keeps the specular lobe finite for mirror surfaces.
const MinRoughness = 0.05

// GBuffer is the deferred geometry of one frame.
//
//	Albedo           RGB diffuse albedo
//	Specular         RGB specular color, A metallic
//	NormalRoughness  RGB world normal, A perceptual roughness
//	Depth            R window depth, 1 where nothing was drawn
type GBuffer struct {
	Albedo          *Target
	Specular        *Target
	NormalRoughness *Target
	Depth           *Target
}

// NewGBuffer allocates a cleared G-buffer.
func NewGBuffer(width, height int) *GBuffer {
	g := &GBuffer{
		Albedo:          NewTarget(width, height),
		Specular:        NewTarget(width, height),
		NormalRoughness: NewTarget(width, height),
		Depth:           NewTarget(width, height),
	}
	g.Depth.Fill(mgl32.Vec4{FarDepth, 0, 0, 0})
	return g
}

// Size returns the G-buffer dimensions.
func (g *GBuffer) Size() (int, int) {
	return g.Depth.Width, g.Depth.Height
}

// Validate checks that all four targets exist and agree in size.
func (g *GBuffer) Validate() error {
	if g == nil || g.Albedo == nil || g.Specular == nil || g.NormalRoughness == nil || g.Depth == nil {
		return ErrIncompleteGBuffer
	}
	for _, t := range []*Target{g.Specular, g.NormalRoughness, g.Depth} {
		if !g.Albedo.SameSize(t) {
			return fmt.Errorf("%w: G-buffer targets", ErrSizeMismatch)
		}
	}
	return nil
}

// Targets returns the four targets in history order.
func (g *GBuffer) Targets() [4]*Target {
	return [4]*Target{g.Albedo, g.Specular, g.NormalRoughness, g.Depth}
}

// FromTargets assembles a G-buffer from targets in history order.
func FromTargets(t [4]*Target) *GBuffer {
	return &GBuffer{Albedo: t[0], Specular: t[1], NormalRoughness: t[2], Depth: t[3]}
}

// Surface is the shading point reconstructed from one G-buffer pixel.
type Surface struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	View      mgl32.Vec3 // toward the camera
	Diffuse   mgl32.Vec3
	F0        mgl32.Vec3
	Roughness float32
	ViewDepth float32
}

// Surface reconstructs the surface at pixel (x, y). ok is false outside the
// image and where nothing was drawn.
func (g *GBuffer) Surface(x, y int, cam Camera) (s Surface, ok bool) {
	w, h := g.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return s, false
	}
	depth := g.Depth.At(x, y)[0]
	if depth >= FarDepth {
		return s, false
	}
	nr := g.NormalRoughness.At(x, y)
	n := nr.Vec3()
	nl := n.Len()
	if nl == 0 {
		return s, false
	}

	albedo := g.Albedo.At(x, y).Vec3()
	spec := g.Specular.At(x, y)
	metallic := math32.Min(1, math32.Max(0, spec[3]))

	s.Position = cam.Unproject(float32(x)+0.5, float32(y)+0.5, depth, w, h)
	s.Normal = n.Mul(1 / nl)
	s.View = cam.Position.Sub(s.Position).Normalize()
	s.Diffuse = albedo.Mul(1 - metallic)
	s.F0 = lerp(spec.Vec3(), albedo, metallic)
	s.Roughness = math32.Max(MinRoughness, math32.Min(1, nr[3]))
	s.ViewDepth = cam.ViewDepth(s.Position)
	return s, true
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Similar reports whether two surfaces are close enough to share samples:
// normals within 60 degrees and view depths within 10 percent.
func Similar(a, b Surface) bool {
	if a.Normal.Dot(b.Normal) < 0.5 {
		return false
	}
	maxDepth := math32.Max(a.ViewDepth, b.ViewDepth)
	return math32.Abs(a.ViewDepth-b.ViewDepth) <= 0.1*maxDepth
}

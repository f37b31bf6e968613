// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is the surface description written into a G-buffer.
type Material struct {
	Albedo    mgl32.Vec3
	Specular  mgl32.Vec3
	Metallic  float32
	Roughness float32
}

// DrawPlane ray-casts the front side of an infinite plane into g, keeping
// the nearest depth per pixel.
func DrawPlane(g *GBuffer, cam Camera, point, normal mgl32.Vec3, m Material) {
	n := normal.Normalize()
	w, h := g.Size()
	for y := range h {
		for x := range w {
			dir := cam.Ray(float32(x)+0.5, float32(y)+0.5, w, h)
			denom := dir.Dot(n)
			if denom >= 0 {
				continue
			}
			t := point.Sub(cam.Position).Dot(n) / denom
			if t <= 0 {
				continue
			}
			writeHit(g, cam, x, y, cam.Position.Add(dir.Mul(t)), n, m)
		}
	}
}

// DrawSphere ray-casts a sphere into g.
func DrawSphere(g *GBuffer, cam Camera, center mgl32.Vec3, radius float32, m Material) {
	w, h := g.Size()
	for y := range h {
		for x := range w {
			dir := cam.Ray(float32(x)+0.5, float32(y)+0.5, w, h)
			oc := cam.Position.Sub(center)
			b := oc.Dot(dir)
			c := oc.Dot(oc) - radius*radius
			disc := b*b - c
			if disc < 0 {
				continue
			}
			t := -b - math32.Sqrt(disc)
			if t <= 0 {
				continue
			}
			p := cam.Position.Add(dir.Mul(t))
			writeHit(g, cam, x, y, p, p.Sub(center).Normalize(), m)
		}
	}
}

func writeHit(g *GBuffer, cam Camera, x, y int, p, n mgl32.Vec3, m Material) {
	w, h := g.Size()
	_, _, depth, ok := cam.Project(p, w, h)
	if !ok || depth < 0 || depth >= g.Depth.At(x, y)[0] {
		return
	}
	g.Depth.Set(x, y, mgl32.Vec4{depth, 0, 0, 0})
	g.Albedo.Set(x, y, m.Albedo.Vec4(1))
	g.Specular.Set(x, y, m.Specular.Vec4(m.Metallic))
	g.NormalRoughness.Set(x, y, n.Vec4(m.Roughness))
}

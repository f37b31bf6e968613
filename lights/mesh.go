// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import "github.com/go-gl/mathgl/mgl32"

// Front faces wind counter-clockwise: cross(v1-v0, v2-v0) points away from
// the emitting side.

type face struct{ n, u, v mgl32.Vec3 }

var cubeFaces = [6]face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
}

// appendQuad adds four vertices and two triangles spanning center±u±v.
func appendQuad(verts []Vertex, idx []uint32, center, u, v mgl32.Vec3) ([]Vertex, []uint32) {
	n := u.Cross(v).Normalize()
	tangent := u.Normalize()
	base := uint32(len(verts))
	corners := [4]struct {
		su, sv float32
		uv     mgl32.Vec2
	}{
		{-1, -1, mgl32.Vec2{0, 0}},
		{1, -1, mgl32.Vec2{1, 0}},
		{1, 1, mgl32.Vec2{1, 1}},
		{-1, 1, mgl32.Vec2{0, 1}},
	}
	for _, c := range corners {
		verts = append(verts, Vertex{
			Position: center.Add(u.Mul(c.su)).Add(v.Mul(c.sv)),
			Normal:   n,
			Tangent:  tangent.Vec4(1),
			UV:       c.uv,
		})
	}
	idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	return verts, idx
}

// NewCube returns a unit cube light (12 triangles) scaled by size and
// placed at center, emitting color outward from every face.
func NewCube(name string, center mgl32.Vec3, size float32, color mgl32.Vec3) *MeshLight {
	var verts []Vertex
	var idx []uint32
	for _, f := range cubeFaces {
		verts, idx = appendQuad(verts, idx, f.n.Mul(0.5), f.u.Mul(0.5), f.v.Mul(0.5))
	}
	return &MeshLight{
		Name:       name,
		Attributes: Layout,
		Verts:      verts,
		Idx:        idx,
		Transform:  mgl32.Translate3D(center[0], center[1], center[2]).Mul4(mgl32.Scale3D(size, size, size)),
		Material:   &Material{Color: color},
	}
}

// NewQuad returns a two-triangle area light spanning center±u±v. It emits
// along u×v.
func NewQuad(name string, center, u, v mgl32.Vec3, color mgl32.Vec3) *MeshLight {
	verts, idx := appendQuad(nil, nil, mgl32.Vec3{}, u, v)
	return &MeshLight{
		Name:       name,
		Attributes: Layout,
		Verts:      verts,
		Idx:        idx,
		Transform:  mgl32.Translate3D(center[0], center[1], center[2]),
		Material:   &Material{Color: color},
	}
}

// NewStrip returns a light made of n quads laid along +X, 2n triangles,
// facing +Y. It exists to build lights with a chosen triangle count.
func NewStrip(name string, origin mgl32.Vec3, quads int, color mgl32.Vec3) *MeshLight {
	var verts []Vertex
	var idx []uint32
	for i := range quads {
		c := mgl32.Vec3{float32(i) + 0.5, 0, 0}
		verts, idx = appendQuad(verts, idx, c, mgl32.Vec3{0, 0, 0.5}, mgl32.Vec3{0.5, 0, 0})
	}
	return &MeshLight{
		Name:       name,
		Attributes: Layout,
		Verts:      verts,
		Idx:        idx,
		Transform:  mgl32.Translate3D(origin[0], origin[1], origin[2]),
		Material:   &Material{Color: color},
	}
}

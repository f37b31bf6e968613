// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Source is an emissive mesh in the scene.
type Source interface {
	// Valid reports whether the light is enabled and has a material.
	Valid() bool

	// VertexLayout lists the mesh's vertex attributes in stream order.
	VertexLayout() []VertexAttribute

	Vertices() []Vertex

	// Indices are triangle-list indices into Vertices.
	Indices() []uint32

	LocalToWorld() mgl32.Mat4

	// Emission returns the emissive color and the optional emissive texture.
	Emission() (mgl32.Vec3, *image.RGBA)
}

// Material is the emissive material of a MeshLight.
type Material struct {
	Color   mgl32.Vec3
	Texture *image.RGBA
}

// MeshLight is a Source backed by plain slices.
type MeshLight struct {
	Name       string
	Disabled   bool
	Attributes []VertexAttribute
	Verts      []Vertex
	Idx        []uint32
	Transform  mgl32.Mat4
	Material   *Material
}

var _ Source = (*MeshLight)(nil)

func (m *MeshLight) Valid() bool                     { return m != nil && !m.Disabled && m.Material != nil }
func (m *MeshLight) VertexLayout() []VertexAttribute { return m.Attributes }
func (m *MeshLight) Vertices() []Vertex              { return m.Verts }
func (m *MeshLight) Indices() []uint32               { return m.Idx }
func (m *MeshLight) LocalToWorld() mgl32.Mat4        { return m.Transform }

func (m *MeshLight) Emission() (mgl32.Vec3, *image.RGBA) {
	if m.Material == nil {
		return mgl32.Vec3{}, nil
	}
	return m.Material.Color, m.Material.Texture
}

// TriangleCount returns the number of whole triangles in the mesh.
func (m *MeshLight) TriangleCount() int { return len(m.Idx) / 3 }

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexAttribute names one stream of a mesh vertex layout.
type VertexAttribute uint8

const (
	AttributePosition VertexAttribute = iota
	AttributeNormal
	AttributeTangent
	AttributeTexCoord0
)

// String returns the attribute name.
func (a VertexAttribute) String() string {
	switch a {
	case AttributePosition:
		return "Position"
	case AttributeNormal:
		return "Normal"
	case AttributeTangent:
		return "Tangent"
	case AttributeTexCoord0:
		return "TexCoord0"
	default:
		return "Unknown"
	}
}

// Layout is the only vertex layout a light mesh may use.
var Layout = []VertexAttribute{
	AttributePosition,
	AttributeNormal,
	AttributeTangent,
	AttributeTexCoord0,
}

// LayoutMatches reports whether attrs is exactly Layout.
func LayoutMatches(attrs []VertexAttribute) bool {
	if len(attrs) != len(Layout) {
		return false
	}
	for i, a := range attrs {
		if a != Layout[i] {
			return false
		}
	}
	return true
}

// VertexSize is the byte size of one Vertex on the GPU.
const VertexSize = 48

// Vertex is one light mesh vertex in object space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec4
	UV       mgl32.Vec2
}

// AppendBytes appends the little-endian GPU encoding of v.
func (v Vertex) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, v.Position[:]...)
	dst = appendFloats(dst, v.Normal[:]...)
	dst = appendFloats(dst, v.Tangent[:]...)
	return appendFloats(dst, v.UV[:]...)
}

func appendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// VerticesBytes encodes a vertex slice.
func VerticesBytes(vs []Vertex) []byte {
	buf := make([]byte, 0, len(vs)*VertexSize)
	for _, v := range vs {
		buf = v.AppendBytes(buf)
	}
	return buf
}

// IndicesBytes encodes an index slice as little-endian u32.
func IndicesBytes(idx []uint32) []byte {
	buf := make([]byte, 0, len(idx)*4)
	for _, i := range idx {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}

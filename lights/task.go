// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// TaskSize is the byte size of one Task on the GPU.
const TaskSize = 96

// NoTexture marks a task without an emissive texture.
const NoTexture int32 = -1

// Task describes the preparation of one light mesh.
type Task struct {
	EmissiveColor mgl32.Vec3

	// TriangleCount is the number of triangles in the mesh.
	TriangleCount uint32

	// LightBufferOffset is the index of the mesh's first light record.
	LightBufferOffset uint32

	// VertexOffset is added to the mesh's local indices to address the
	// merged vertex buffer.
	VertexOffset uint32

	// EmissiveTextureIndex is a texture array layer or NoTexture.
	EmissiveTextureIndex int32

	LocalToWorld mgl32.Mat4
}

// AppendBytes appends the little-endian GPU encoding of t. The matrix is
// column-major.
func (t Task) AppendBytes(dst []byte) []byte {
	dst = appendFloats(dst, t.EmissiveColor[:]...)
	dst = binary.LittleEndian.AppendUint32(dst, t.TriangleCount)
	dst = binary.LittleEndian.AppendUint32(dst, t.LightBufferOffset)
	dst = binary.LittleEndian.AppendUint32(dst, t.VertexOffset)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(t.EmissiveTextureIndex))
	dst = binary.LittleEndian.AppendUint32(dst, 0) // padding
	return appendFloats(dst, t.LocalToWorld[:]...)
}

// TasksBytes encodes a task slice.
func TasksBytes(ts []Task) []byte {
	buf := make([]byte, 0, len(ts)*TaskSize)
	for _, t := range ts {
		buf = t.AppendBytes(buf)
	}
	return buf
}

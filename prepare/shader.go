// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prepare

import (
	_ "embed"
	"encoding/binary"
)

// ShaderSource is the WGSL light preparation compute shader.
//
//go:embed shaders/prepare_lights.wgsl
var ShaderSource string

// ShaderEntryPoint is the compute entry point of ShaderSource.
const ShaderEntryPoint = "main"

// ConstantsSize is the byte size of the shader's uniform block.
const ConstantsSize = 32

// Constants is the uniform block of the preparation shader.
type Constants struct {
	TotalTriangles uint32
	NumTasks       uint32
	TextureWidth   uint32
	TextureHeight  uint32
	TextureLayers  uint32
}

// Bytes returns the little-endian uniform encoding, padded to
// ConstantsSize.
func (c Constants) Bytes() []byte {
	buf := make([]byte, ConstantsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], c.TotalTriangles)
	le.PutUint32(buf[4:], c.NumTasks)
	le.PutUint32(buf[8:], c.TextureWidth)
	le.PutUint32(buf[12:], c.TextureHeight)
	le.PutUint32(buf[16:], c.TextureLayers)
	return buf
}

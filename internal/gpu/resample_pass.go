// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/history"
	"github.com/gogpu/restir/internal/pack"
	"github.com/gogpu/restir/resampling"
)

// ResampleWorkgroupSize is the edge of the resampling kernel's square
// workgroup.
const ResampleWorkgroupSize = 8

// ResampleEntryPoint is the entry point the resampling kernel must export.
const ResampleEntryPoint = "main"

// shadingTexelSize is one RGBA16F texel.
const shadingTexelSize = 8

var resampleLayout = layoutEntries(
	uniform,   // ResampleConstants
	readOnly,  // ResampleLightDataBuffer
	readOnly,  // ResampleGeometryInstanceToLight
	readOnly,  // ResampleNeighborOffsets
	readWrite, // ResampleLightReservoirs
	readWrite, // ResampleShadingOutput
	readOnly,  // ResamplePreviousGBuffer0
	readOnly,  // ResamplePreviousGBuffer1
	readOnly,  // ResamplePreviousGBuffer2
	readOnly,  // ResamplePreviousDepth
	readOnly,  // ResampleGBuffer0
	readOnly,  // ResampleGBuffer1
	readOnly,  // ResampleGBuffer2
	readOnly,  // ResampleDepth
	uniform,   // ResampleCamera
)

var gbufferRoles = [history.NumTargets]role{roleGBuffer0, roleGBuffer1, roleGBuffer2, roleDepth}

func newResamplePass(adapter gpucore.GPUAdapter, spirv []uint32) (*pipeline, error) {
	return newPipeline(adapter, "restir-resample", spirv, ResampleEntryPoint, resampleLayout)
}

// ResampleDispatch returns the workgroup grid covering a width×height frame.
func ResampleDispatch(width, height int) (x, y uint32) {
	const n = ResampleWorkgroupSize
	return uint32((width + n - 1) / n), uint32((height + n - 1) / n)
}

func floatBytes(fs []float32) []byte {
	return appendFloats(make([]byte, 0, len(fs)*4), fs)
}

func appendFloats(buf []byte, fs []float32) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// CameraUniformSize is the byte size of the ResampleCamera uniform: the
// current and previous view-projection matrices and their inverses
// (column-major), then the current and previous eye positions as vec4.
const CameraUniformSize = 4*64 + 2*16

// CameraBytes encodes the ResampleCamera uniform.
func CameraBytes(cur, prev frame.Camera) []byte {
	buf := make([]byte, 0, CameraUniformSize)
	for _, m := range [...]mgl32.Mat4{cur.ViewProj(), cur.InvViewProj(), prev.ViewProj(), prev.InvViewProj()} {
		buf = appendFloats(buf, m[:])
	}
	for _, p := range [...]mgl32.Vec3{cur.Position, prev.Position} {
		buf = appendFloats(buf, p[:])
		buf = appendFloats(buf, []float32{1})
	}
	return buf
}

// uploadFrame writes the constants, cameras and current G-buffer and sizes
// the per-pixel buffers for f.
func (s *resources) uploadFrame(c resampling.Constants, f Frame) error {
	g := f.GBuffer
	w, h := g.Size()
	if _, err := s.upload(roleResampleConstants, c.Bytes()); err != nil {
		return err
	}
	if _, err := s.upload(roleCamera, CameraBytes(f.Camera, f.PrevCamera)); err != nil {
		return err
	}
	if s.get(roleNeighborOffsets).ID == gpucore.InvalidID {
		if _, err := s.upload(roleNeighborOffsets, resampling.NeighborOffsetsBytes()); err != nil {
			return err
		}
	}
	const packedSize = 24
	if _, err := s.ensure(roleReservoirs, int(c.ReservoirBufferParams.ReservoirCount())*packedSize); err != nil {
		return err
	}
	if _, err := s.ensure(roleShading, w*h*shadingTexelSize); err != nil {
		return err
	}
	for i, t := range g.Targets() {
		if _, err := s.upload(gbufferRoles[i], floatBytes(t.Pix)); err != nil {
			return err
		}
	}
	return nil
}

// resampleEntries binds prev as the previous G-buffer. Before history is
// captured the current G-buffer stands in; the kernel does not read it
// while EnableResampling is off.
func (s *resources) resampleEntries(prev history.Set[Buffer], ready bool) []gpucore.BindGroupEntry {
	entries := []gpucore.BindGroupEntry{
		{Binding: gpucore.ResampleConstants, Buffer: s.get(roleResampleConstants).ID},
		{Binding: gpucore.ResampleLightDataBuffer, Buffer: s.get(roleLightData).ID},
		{Binding: gpucore.ResampleGeometryInstanceToLight, Buffer: s.get(roleGeometryToLight).ID},
		{Binding: gpucore.ResampleNeighborOffsets, Buffer: s.get(roleNeighborOffsets).ID},
		{Binding: gpucore.ResampleLightReservoirs, Buffer: s.get(roleReservoirs).ID},
		{Binding: gpucore.ResampleShadingOutput, Buffer: s.get(roleShading).ID},
	}
	for i, r := range gbufferRoles {
		id := s.get(r).ID
		if ready {
			id = prev[i].ID
		}
		entries = append(entries, gpucore.BindGroupEntry{Binding: gpucore.ResamplePreviousGBuffer0 + uint32(i), Buffer: id})
	}
	for i, r := range gbufferRoles {
		entries = append(entries, gpucore.BindGroupEntry{Binding: gpucore.ResampleGBuffer0 + uint32(i), Buffer: s.get(r).ID})
	}
	return append(entries, gpucore.BindGroupEntry{Binding: gpucore.ResampleCamera, Buffer: s.get(roleCamera).ID})
}

// decodeShading converts RGBA16F texels into dst.
func decodeShading(b []byte, dst *frame.Target) error {
	n := dst.Width * dst.Height
	if len(b) < n*shadingTexelSize {
		return fmt.Errorf("%w: shading output has %d bytes, want %d", ErrReadback, len(b), n*shadingTexelSize)
	}
	for i := range n {
		w := [2]uint32{
			binary.LittleEndian.Uint32(b[i*8:]),
			binary.LittleEndian.Uint32(b[i*8+4:]),
		}
		px := pack.UnpackRGBA16F(w)
		copy(dst.Pix[i*4:i*4+4], px[:])
	}
	return nil
}

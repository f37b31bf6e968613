// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"encoding/binary"
	"math"
)

const (
	// NeighborOffsetCount is the length of the spatial offset table.
	NeighborOffsetCount = 8192

	// NeighborOffsetMask wraps indices into the offset table.
	NeighborOffsetMask = NeighborOffsetCount - 1

	// ReservoirBlockSize is the edge of one square block of reservoirs.
	ReservoirBlockSize = 16

	// NumReservoirBuffers is the number of reservoir slots.
	NumReservoirBuffers = 3

	// ScratchBufferIndex is the slot holding temporal results.
	ScratchBufferIndex = 2

	// InvalidLightIndex marks an absent light.
	InvalidLightIndex = 0xffffffff

	// ConstantsSize is the byte size of Constants on the GPU.
	ConstantsSize = 128
)

// LightBufferRegion is a contiguous range of the light buffer.
type LightBufferRegion struct {
	FirstLightIndex uint32
	NumLights       uint32
}

// EnvironmentLightParams locates the environment light, if any.
type EnvironmentLightParams struct {
	LightPresent uint32
	LightIndex   uint32
}

// LightBufferParams partitions the light buffer. Only local lights exist
// here; the infinite region is empty and no environment light is present.
type LightBufferParams struct {
	LocalLightBufferRegion    LightBufferRegion
	InfiniteLightBufferRegion LightBufferRegion
	EnvironmentLightParams    EnvironmentLightParams
}

// NewLightBufferParams describes a buffer of numLocal triangle lights.
func NewLightBufferParams(numLocal uint32) LightBufferParams {
	return LightBufferParams{
		LocalLightBufferRegion: LightBufferRegion{NumLights: numLocal},
		EnvironmentLightParams: EnvironmentLightParams{LightIndex: InvalidLightIndex},
	}
}

// AllLightsCount counts every light the buffer exposes.
func (p LightBufferParams) AllLightsCount() uint32 {
	n := p.LocalLightBufferRegion.NumLights + p.InfiniteLightBufferRegion.NumLights
	if p.EnvironmentLightParams.LightPresent != 0 {
		n++
	}
	return n
}

// ReservoirBufferParams describes the block-tiled reservoir layout.
type ReservoirBufferParams struct {
	ReservoirBlockRowPitch uint32
	ReservoirArrayPitch    uint32
}

// NewReservoirBufferParams computes pitches for a width×height image:
// one 16×16 block per tile, rows of ceil(width/16) blocks.
func NewReservoirBufferParams(width, height uint32) ReservoirBufferParams {
	blocksX := (width + ReservoirBlockSize - 1) / ReservoirBlockSize
	blocksY := (height + ReservoirBlockSize - 1) / ReservoirBlockSize
	row := blocksX * ReservoirBlockSize * ReservoirBlockSize
	return ReservoirBufferParams{
		ReservoirBlockRowPitch: row,
		ReservoirArrayPitch:    row * blocksY,
	}
}

// ReservoirCount is the number of reservoirs across all slots.
func (p ReservoirBufferParams) ReservoirCount() uint32 {
	return p.ReservoirArrayPitch * NumReservoirBuffers
}

// RuntimeParams are frame-varying sampling parameters.
type RuntimeParams struct {
	NeighborOffsetMask      uint32
	ActiveCheckerboardField uint32
}

// Constants is the resampling constant block, rebuilt every frame.
type Constants struct {
	RuntimeParams         RuntimeParams
	LightBufferParams     LightBufferParams
	ReservoirBufferParams ReservoirBufferParams

	FrameIndex            uint32
	NumInitialSamples     uint32
	NumSpatialSamples     uint32
	NumInitialBRDFSamples uint32
	BRDFCutoff            float32

	EnableResampling  uint32
	UnbiasedMode      uint32
	InputBufferIndex  uint32
	OutputBufferIndex uint32
}

// Bytes returns the little-endian GPU encoding. Each group is padded to 16
// bytes.
func (c Constants) Bytes() []byte {
	w := make([]uint32, 0, ConstantsSize/4)
	w = append(w,
		c.RuntimeParams.NeighborOffsetMask, c.RuntimeParams.ActiveCheckerboardField, 0, 0,
		c.LightBufferParams.LocalLightBufferRegion.FirstLightIndex, c.LightBufferParams.LocalLightBufferRegion.NumLights, 0, 0,
		c.LightBufferParams.InfiniteLightBufferRegion.FirstLightIndex, c.LightBufferParams.InfiniteLightBufferRegion.NumLights, 0, 0,
		c.LightBufferParams.EnvironmentLightParams.LightPresent, c.LightBufferParams.EnvironmentLightParams.LightIndex, 0, 0,
		c.ReservoirBufferParams.ReservoirBlockRowPitch, c.ReservoirBufferParams.ReservoirArrayPitch, 0, 0,
		c.FrameIndex, c.NumInitialSamples, c.NumSpatialSamples, 0,
		c.NumInitialBRDFSamples, math.Float32bits(c.BRDFCutoff), 0, 0,
		c.EnableResampling, c.UnbiasedMode, c.InputBufferIndex, c.OutputBufferIndex,
	)
	buf := make([]byte, 0, ConstantsSize)
	for _, v := range w {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

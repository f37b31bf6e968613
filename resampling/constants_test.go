// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestReservoirBufferParams(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		row, array    uint32
	}{
		{"one block", 16, 16, 256, 256},
		{"partial block", 17, 17, 512, 1024},
		{"hd", 1920, 1080, 120 * 256, 120 * 256 * 68},
		{"single pixel", 1, 1, 256, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewReservoirBufferParams(tt.width, tt.height)
			if p.ReservoirBlockRowPitch != tt.row {
				t.Errorf("row pitch = %d, want %d", p.ReservoirBlockRowPitch, tt.row)
			}
			if p.ReservoirArrayPitch != tt.array {
				t.Errorf("array pitch = %d, want %d", p.ReservoirArrayPitch, tt.array)
			}
			if got := p.ReservoirCount(); got != tt.array*NumReservoirBuffers {
				t.Errorf("count = %d, want %d", got, tt.array*NumReservoirBuffers)
			}
		})
	}
}

func TestLightBufferParams(t *testing.T) {
	p := NewLightBufferParams(36)
	if p.LocalLightBufferRegion.NumLights != 36 || p.LocalLightBufferRegion.FirstLightIndex != 0 {
		t.Errorf("local region = %+v", p.LocalLightBufferRegion)
	}
	if p.InfiniteLightBufferRegion.NumLights != 0 {
		t.Errorf("infinite region = %+v, want empty", p.InfiniteLightBufferRegion)
	}
	if p.EnvironmentLightParams.LightPresent != 0 || p.EnvironmentLightParams.LightIndex != InvalidLightIndex {
		t.Errorf("environment = %+v", p.EnvironmentLightParams)
	}
	if got := p.AllLightsCount(); got != 36 {
		t.Errorf("AllLightsCount = %d, want 36", got)
	}
}

func TestBufferIndicesAlternate(t *testing.T) {
	for frame := range uint32(6) {
		in, out := BufferIndices(frame)
		if out != frame%2 {
			t.Errorf("frame %d: output = %d, want %d", frame, out, frame%2)
		}
		if in == out || in > 1 {
			t.Errorf("frame %d: input = %d, output = %d", frame, in, out)
		}
		_, prevOut := BufferIndices(frame + 1)
		if prevOut != in {
			t.Errorf("frame %d reads %d but frame %d writes %d", frame+1, prevOut, frame, in)
		}
	}
}

func TestCheckerboardField(t *testing.T) {
	if f := CheckerboardField(false, 7); f != 0 {
		t.Errorf("disabled field = %d, want 0", f)
	}
	if a, b := CheckerboardField(true, 0), CheckerboardField(true, 1); a == b || a == 0 || b == 0 {
		t.Errorf("fields = %d, %d; want alternating 1 and 2", a, b)
	}
}

func TestBuildConstants(t *testing.T) {
	s := Settings{
		EnableResampling:      true,
		UnbiasedMode:          true,
		NumInitialSamples:     8,
		NumInitialBRDFSamples: 1,
		NumSpatialSamples:     2,
		BRDFCutoff:            0.25,
		SpatialRadius:         30,
		MaxHistoryLength:      20,
	}

	c := BuildConstants(s, FrameState{Width: 64, Height: 32, FrameIndex: 0, NumLights: 12})
	if c.EnableResampling != 0 {
		t.Error("resampling enabled without history")
	}
	c = BuildConstants(s, FrameState{Width: 64, Height: 32, FrameIndex: 3, NumLights: 12, HistoryReady: true})
	if c.EnableResampling != 1 {
		t.Error("resampling disabled with history")
	}
	if c.UnbiasedMode != 1 || c.NumInitialSamples != 8 || c.NumSpatialSamples != 2 || c.NumInitialBRDFSamples != 1 {
		t.Errorf("sample settings not copied: %+v", c)
	}
	if c.InputBufferIndex != 0 || c.OutputBufferIndex != 1 {
		t.Errorf("frame 3 buffers = (%d, %d), want (0, 1)", c.InputBufferIndex, c.OutputBufferIndex)
	}
	if c.LightBufferParams.LocalLightBufferRegion.NumLights != 12 {
		t.Errorf("NumLights = %d, want 12", c.LightBufferParams.LocalLightBufferRegion.NumLights)
	}
	if c.RuntimeParams.NeighborOffsetMask != NeighborOffsetMask {
		t.Errorf("mask = %#x", c.RuntimeParams.NeighborOffsetMask)
	}
	if c.ReservoirBufferParams != NewReservoirBufferParams(64, 32) {
		t.Errorf("reservoir params = %+v", c.ReservoirBufferParams)
	}
}

func TestConstantsBytesLayout(t *testing.T) {
	c := Constants{
		RuntimeParams:         RuntimeParams{NeighborOffsetMask: NeighborOffsetMask, ActiveCheckerboardField: 2},
		LightBufferParams:     NewLightBufferParams(5),
		ReservoirBufferParams: ReservoirBufferParams{ReservoirBlockRowPitch: 512, ReservoirArrayPitch: 1024},
		FrameIndex:            9,
		NumInitialSamples:     8,
		NumSpatialSamples:     1,
		NumInitialBRDFSamples: 1,
		BRDFCutoff:            0.5,
		EnableResampling:      1,
		UnbiasedMode:          0,
		InputBufferIndex:      0,
		OutputBufferIndex:     1,
	}
	b := c.Bytes()
	if len(b) != ConstantsSize {
		t.Fatalf("len = %d, want %d", len(b), ConstantsSize)
	}
	word := func(i int) uint32 { return binary.LittleEndian.Uint32(b[i*4:]) }
	checks := []struct {
		index int
		want  uint32
	}{
		{0, NeighborOffsetMask},
		{1, 2},
		{5, 5},
		{13, InvalidLightIndex},
		{16, 512},
		{17, 1024},
		{20, 9},
		{21, 8},
		{22, 1},
		{24, 1},
		{25, math.Float32bits(0.5)},
		{28, 1},
		{31, 1},
	}
	for _, c := range checks {
		if got := word(c.index); got != c.want {
			t.Errorf("word %d = %#x, want %#x", c.index, got, c.want)
		}
	}
}

func TestNeighborOffsets(t *testing.T) {
	table := NeighborOffsets()
	if len(table) != NeighborOffsetCount {
		t.Fatalf("len = %d, want %d", len(table), NeighborOffsetCount)
	}
	if &NeighborOffsets()[0] != &table[0] {
		t.Error("table rebuilt on second call")
	}
	for i, o := range table {
		if o.Len() > 1 {
			t.Fatalf("offset %d = %v outside the unit disc", i, o)
		}
	}
	if got := len(NeighborOffsetsBytes()); got != NeighborOffsetCount*8 {
		t.Errorf("bytes = %d, want %d", got, NeighborOffsetCount*8)
	}
	if NeighborOffsetMask+1 != NeighborOffsetCount || NeighborOffsetCount&NeighborOffsetMask != 0 {
		t.Error("offset count is not a power of two")
	}
}

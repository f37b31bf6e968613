// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

// Settings are the user-facing resampling parameters, already clamped to
// their valid ranges.
type Settings struct {
	EnableResampling      bool
	UnbiasedMode          bool
	NumInitialSamples     uint32
	NumInitialBRDFSamples uint32
	NumSpatialSamples     uint32

	// BRDFCutoff is the target pdf at which BRDF rays are skipped; 0 always
	// casts them. See brdfRayCount.
	BRDFCutoff float32

	// Checkerboard shades half of the pixels per frame, alternating fields.
	Checkerboard bool

	// SpatialRadius is the neighbor search radius in pixels.
	SpatialRadius float32

	// MaxHistoryLength caps temporal M at this multiple of the current M.
	MaxHistoryLength uint32
}

// FrameState is what the builder needs to know about the current frame.
type FrameState struct {
	Width, Height uint32
	FrameIndex    uint32
	NumLights     uint32
	HistoryReady  bool
}

// BufferIndices returns the reservoir slots read and written in a frame.
func BufferIndices(frameIndex uint32) (input, output uint32) {
	output = frameIndex & 1
	return output ^ 1, output
}

// CheckerboardField returns the active field for a frame: 0 when
// checkerboard rendering is off, otherwise 1 and 2 on alternate frames.
func CheckerboardField(enabled bool, frameIndex uint32) uint32 {
	if !enabled {
		return 0
	}
	return 1 + frameIndex&1
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// BuildConstants fills the constant block for one frame. Temporal and
// spatial reuse stay off until the history is ready.
func BuildConstants(s Settings, f FrameState) Constants {
	input, output := BufferIndices(f.FrameIndex)
	return Constants{
		RuntimeParams: RuntimeParams{
			NeighborOffsetMask:      NeighborOffsetMask,
			ActiveCheckerboardField: CheckerboardField(s.Checkerboard, f.FrameIndex),
		},
		LightBufferParams:     NewLightBufferParams(f.NumLights),
		ReservoirBufferParams: NewReservoirBufferParams(f.Width, f.Height),
		FrameIndex:            f.FrameIndex,
		NumInitialSamples:     s.NumInitialSamples,
		NumSpatialSamples:     s.NumSpatialSamples,
		NumInitialBRDFSamples: s.NumInitialBRDFSamples,
		BRDFCutoff:            s.BRDFCutoff,
		EnableResampling:      b2u(s.EnableResampling && f.HistoryReady),
		UnbiasedMode:          b2u(s.UnbiasedMode),
		InputBufferIndex:      input,
		OutputBufferIndex:     output,
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/restir/resampling"
)

// Limits of the clamped settings.
const (
	MaxInitialSamples     = 16
	MaxInitialBRDFSamples = 16
	MaxSpatialSamples     = 16
	MaxSpatialRadius      = 250
	MaxHistoryLimit       = 100
)

// Settings are the user-facing parameters of the feature. Out-of-range
// values are clamped, never rejected.
type Settings struct {
	// Enable turns the whole pipeline on.
	Enable bool `toml:"enable"`

	// EnableResampling enables temporal and spatial reuse once history is
	// available.
	EnableResampling bool `toml:"enable_resampling"`

	// UnbiasedMode selects MIS-weighted reuse with visibility
	// confirmation over the cheaper biased combination.
	UnbiasedMode bool `toml:"unbiased_mode"`

	NumInitialSamples     int `toml:"num_initial_samples"`
	NumInitialBRDFSamples int `toml:"num_initial_brdf_samples"`

	// BRDFCutoff skips the BRDF rays of a pixel whose best light candidate
	// reaches this target pdf. Zero disables the cutoff: BRDF rays are then
	// always cast, never skipped.
	BRDFCutoff float32 `toml:"brdf_cutoff"`

	NumSpatialSamples int `toml:"num_spatial_samples"`

	// Checkerboard shades alternating pixel fields on alternating frames.
	Checkerboard bool `toml:"checkerboard"`

	// SpatialSamplingRadius is the neighbor search radius in pixels.
	SpatialSamplingRadius float32 `toml:"spatial_sampling_radius"`

	// MaxHistoryLength caps temporal reuse at this multiple of the current
	// sample count.
	MaxHistoryLength int `toml:"max_history_length"`

	// ResizeMismatchedTextures rescales emissive textures of differing
	// sizes into the texture array instead of dropping emissive texturing.
	ResizeMismatchedTextures bool `toml:"resize_mismatched_textures"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Enable:                true,
		EnableResampling:      true,
		NumInitialSamples:     8,
		NumInitialBRDFSamples: 1,
		NumSpatialSamples:     1,
		SpatialSamplingRadius: 30,
		MaxHistoryLength:      20,
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float32) float32 {
	if v != v { // NaN
		return lo
	}
	return min(max(v, lo), hi)
}

// Clamped returns s with every value moved into its valid range.
func (s Settings) Clamped() Settings {
	s.NumInitialSamples = clampInt(s.NumInitialSamples, 0, MaxInitialSamples)
	s.NumInitialBRDFSamples = clampInt(s.NumInitialBRDFSamples, 0, MaxInitialBRDFSamples)
	s.NumSpatialSamples = clampInt(s.NumSpatialSamples, 0, MaxSpatialSamples)
	s.BRDFCutoff = clampFloat(s.BRDFCutoff, 0, 1)
	s.SpatialSamplingRadius = clampFloat(s.SpatialSamplingRadius, 1, MaxSpatialRadius)
	s.MaxHistoryLength = clampInt(s.MaxHistoryLength, 1, MaxHistoryLimit)
	return s
}

// Resampling converts the clamped settings into resampling parameters.
func (s Settings) Resampling() resampling.Settings {
	s = s.Clamped()
	return resampling.Settings{
		EnableResampling:      s.EnableResampling,
		UnbiasedMode:          s.UnbiasedMode,
		NumInitialSamples:     uint32(s.NumInitialSamples),
		NumInitialBRDFSamples: uint32(s.NumInitialBRDFSamples),
		NumSpatialSamples:     uint32(s.NumSpatialSamples),
		BRDFCutoff:            s.BRDFCutoff,
		Checkerboard:          s.Checkerboard,
		SpatialRadius:         s.SpatialSamplingRadius,
		MaxHistoryLength:      uint32(s.MaxHistoryLength),
	}
}

// LoadSettings decodes TOML settings from r. Keys that are absent keep
// their defaults; unknown keys are an error.
//
// Example:
//
//	enable = true
//	num_initial_samples = 16
//	unbiased_mode = true
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("restir: load settings: %w", err)
	}
	return s.Clamped(), nil
}

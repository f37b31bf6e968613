// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.Enable || !s.EnableResampling || s.UnbiasedMode {
		t.Errorf("flags = %+v", s)
	}
	if s.NumInitialSamples != 8 || s.NumInitialBRDFSamples != 1 || s.NumSpatialSamples != 1 {
		t.Errorf("sample counts = %d/%d/%d", s.NumInitialSamples, s.NumInitialBRDFSamples, s.NumSpatialSamples)
	}
	if s.BRDFCutoff != 0 || s.SpatialSamplingRadius != 30 || s.MaxHistoryLength != 20 {
		t.Errorf("cutoff/radius/history = %v/%v/%v", s.BRDFCutoff, s.SpatialSamplingRadius, s.MaxHistoryLength)
	}
	if s.Clamped() != s {
		t.Error("defaults are not within range")
	}
}

func TestSettingsClamped(t *testing.T) {
	tests := []struct {
		name  string
		in    Settings
		check func(Settings) bool
	}{
		{"samples high", Settings{NumInitialSamples: 99}, func(s Settings) bool { return s.NumInitialSamples == MaxInitialSamples }},
		{"samples negative", Settings{NumInitialSamples: -3}, func(s Settings) bool { return s.NumInitialSamples == 0 }},
		{"brdf samples", Settings{NumInitialBRDFSamples: 17}, func(s Settings) bool { return s.NumInitialBRDFSamples == 16 }},
		{"spatial samples", Settings{NumSpatialSamples: 40}, func(s Settings) bool { return s.NumSpatialSamples == 16 }},
		{"cutoff high", Settings{BRDFCutoff: 2}, func(s Settings) bool { return s.BRDFCutoff == 1 }},
		{"cutoff negative", Settings{BRDFCutoff: -1}, func(s Settings) bool { return s.BRDFCutoff == 0 }},
		{"cutoff NaN", Settings{BRDFCutoff: float32(math.NaN())}, func(s Settings) bool { return s.BRDFCutoff == 0 }},
		{"radius", Settings{SpatialSamplingRadius: 1000}, func(s Settings) bool { return s.SpatialSamplingRadius == MaxSpatialRadius }},
		{"history zero", Settings{}, func(s Settings) bool { return s.MaxHistoryLength == 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamped(); !tt.check(got) {
				t.Errorf("Clamped() = %+v", got)
			}
		})
	}
}

func TestSettingsResampling(t *testing.T) {
	s := DefaultSettings()
	s.UnbiasedMode = true
	s.Checkerboard = true
	s.NumSpatialSamples = 20
	r := s.Resampling()
	if !r.EnableResampling || !r.UnbiasedMode || !r.Checkerboard {
		t.Errorf("flags = %+v", r)
	}
	if r.NumInitialSamples != 8 || r.NumSpatialSamples != 16 || r.NumInitialBRDFSamples != 1 {
		t.Errorf("counts = %+v", r)
	}
	if r.SpatialRadius != 30 || r.MaxHistoryLength != 20 {
		t.Errorf("radius/history = %v/%v", r.SpatialRadius, r.MaxHistoryLength)
	}
}

func TestLoadSettings(t *testing.T) {
	const doc = `
enable = true
unbiased_mode = true
num_initial_samples = 32
brdf_cutoff = 0.25
checkerboard = true
resize_mismatched_textures = true
`
	s, err := LoadSettings(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if !s.UnbiasedMode || !s.Checkerboard || !s.ResizeMismatchedTextures {
		t.Errorf("flags = %+v", s)
	}
	if s.NumInitialSamples != MaxInitialSamples {
		t.Errorf("NumInitialSamples = %d, want clamped %d", s.NumInitialSamples, MaxInitialSamples)
	}
	if s.BRDFCutoff != 0.25 {
		t.Errorf("BRDFCutoff = %v", s.BRDFCutoff)
	}
	// Absent keys keep their defaults.
	if !s.EnableResampling || s.NumSpatialSamples != 1 || s.MaxHistoryLength != 20 {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "num_samples = 4\n"},
		{"wrong type", "enable = \"yes\"\n"},
		{"syntax", "enable = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSettings(strings.NewReader(tt.doc)); err == nil {
				t.Error("LoadSettings() succeeded")
			}
		})
	}
}

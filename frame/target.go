// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame holds the per-frame images the resampling stages read and
// write: HDR targets, the G-buffer and the camera that produced it.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrSizeMismatch is returned when images of one frame disagree in size.
var ErrSizeMismatch = errors.New("frame: image sizes differ")

// Target is a float RGBA image, row-major from the top-left pixel.
type Target struct {
	Width, Height int
	Pix           []float32
}

// NewTarget allocates a zeroed target.
func NewTarget(width, height int) *Target {
	return &Target{Width: width, Height: height, Pix: make([]float32, width*height*4)}
}

func (t *Target) offset(x, y int) int { return (y*t.Width + x) * 4 }

// At returns the pixel at (x, y).
func (t *Target) At(x, y int) mgl32.Vec4 {
	i := t.offset(x, y)
	return mgl32.Vec4{t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3]}
}

// Set stores the pixel at (x, y).
func (t *Target) Set(x, y int, v mgl32.Vec4) {
	i := t.offset(x, y)
	copy(t.Pix[i:i+4], v[:])
}

// SameSize reports whether o has the dimensions of t.
func (t *Target) SameSize(o *Target) bool {
	return t != nil && o != nil && t.Width == o.Width && t.Height == o.Height
}

// CopyInto copies t into dst and returns it. A nil or differently sized dst
// is replaced by a new target.
func (t *Target) CopyInto(dst *Target) *Target {
	if !t.SameSize(dst) {
		dst = NewTarget(t.Width, t.Height)
	}
	copy(dst.Pix, t.Pix)
	return dst
}

// Fill sets every pixel to v.
func (t *Target) Fill(v mgl32.Vec4) {
	for i := 0; i < len(t.Pix); i += 4 {
		copy(t.Pix[i:i+4], v[:])
	}
}

// Add accumulates o into t.
func (t *Target) Add(o *Target) error {
	if !t.SameSize(o) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, t.Width, t.Height, o.Width, o.Height)
	}
	for i, v := range o.Pix {
		t.Pix[i] += v
	}
	return nil
}

// Mean returns the average RGB over all pixels.
func (t *Target) Mean() mgl32.Vec3 {
	var sum mgl32.Vec3
	n := t.Width * t.Height
	if n == 0 {
		return sum
	}
	for i := 0; i < len(t.Pix); i += 4 {
		sum = sum.Add(mgl32.Vec3{t.Pix[i], t.Pix[i+1], t.Pix[i+2]})
	}
	return sum.Mul(1 / float32(n))
}

// ToImage tone-maps the target with exposure and Reinhard, then encodes
// sRGB.
func (t *Target) ToImage(exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		for x := range t.Width {
			c := t.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: encodeSRGB(reinhard(c[0] * exposure)),
				G: encodeSRGB(reinhard(c[1] * exposure)),
				B: encodeSRGB(reinhard(c[2] * exposure)),
				A: 255,
			})
		}
	}
	return img
}

func reinhard(v float32) float32 {
	if v <= 0 || math32.IsNaN(v) {
		return 0
	}
	return v / (1 + v)
}

func encodeSRGB(v float32) uint8 {
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math32.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math32.Min(255, math32.Max(0, v*255+0.5)))
}

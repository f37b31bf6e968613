// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// ErrTextureSizeMismatch is returned when emissive textures that share one
// texture array have different dimensions.
var ErrTextureSizeMismatch = errors.New("lights: emissive textures differ in size")

// TextureArray holds every distinct emissive texture as one RGBA8 layer.
type TextureArray struct {
	Width, Height int
	Layers        []*image.RGBA
}

// BuildTextureArray packs textures into layers in the given order. All
// textures must match the first one's size; with resize set, mismatching
// textures are rescaled with Catmull-Rom filtering instead.
func BuildTextureArray(textures []*image.RGBA, resize bool) (*TextureArray, error) {
	if len(textures) == 0 {
		return &TextureArray{}, nil
	}
	size := textures[0].Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: texture 0 is empty", ErrTextureSizeMismatch)
	}

	arr := &TextureArray{Width: size.X, Height: size.Y, Layers: make([]*image.RGBA, len(textures))}
	rect := image.Rect(0, 0, size.X, size.Y)
	for i, tex := range textures {
		layer := image.NewRGBA(rect)
		b := tex.Bounds()
		switch {
		case b.Size() == size:
			draw.Draw(layer, rect, tex, b.Min, draw.Src)
		case resize && !b.Empty():
			draw.CatmullRom.Scale(layer, rect, tex, b, draw.Src, nil)
		default:
			return nil, fmt.Errorf("%w: texture %d is %dx%d, want %dx%d",
				ErrTextureSizeMismatch, i, b.Dx(), b.Dy(), size.X, size.Y)
		}
		arr.Layers[i] = layer
	}
	return arr, nil
}

// Len returns the number of layers.
func (a *TextureArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Layers)
}

// Texels returns all layers back to back as RGBA8 bytes.
func (a *TextureArray) Texels() []byte {
	if a.Len() == 0 {
		return nil
	}
	layerSize := a.Width * a.Height * 4
	out := make([]byte, 0, layerSize*len(a.Layers))
	for _, l := range a.Layers {
		out = append(out, l.Pix[:layerSize]...)
	}
	return out
}

// Sample returns the linear RGB of layer at uv using nearest filtering and
// repeat addressing. Out-of-range layers sample white.
func (a *TextureArray) Sample(layer int, uv mgl32.Vec2) mgl32.Vec3 {
	if layer < 0 || layer >= a.Len() {
		return mgl32.Vec3{1, 1, 1}
	}
	x := wrap(uv[0], a.Width)
	y := wrap(uv[1], a.Height)
	c := a.Layers[layer].RGBAAt(x, y)
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func wrap(t float32, n int) int {
	f := t - math32.Floor(t)
	return min(int(f*float32(n)), n-1)
}

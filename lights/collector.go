// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lights

import (
	"image"
)

// SkipReason explains why a source did not contribute lights.
type SkipReason uint8

const (
	SkipInvalid SkipReason = iota + 1
	SkipLayout
	SkipEmpty
	SkipIndexCount
	SkipIndexRange
)

// String returns a short reason.
func (r SkipReason) String() string {
	switch r {
	case SkipInvalid:
		return "disabled or no material"
	case SkipLayout:
		return "unsupported vertex layout"
	case SkipEmpty:
		return "no vertices or indices"
	case SkipIndexCount:
		return "index count not a multiple of 3"
	case SkipIndexRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// Skipped records one source that was left out of a collection.
type Skipped struct {
	Index  int
	Reason SkipReason
}

// Collection is the merged light geometry of one frame.
type Collection struct {
	Vertices []Vertex
	Indices  []uint32
	Tasks    []Task

	// GeometryInstanceToLight holds, per collected light, its first light
	// index.
	GeometryInstanceToLight []uint32

	// TriangleTask maps every light index to its task.
	TriangleTask []uint32

	Textures *TextureArray

	// TextureErr is set when the emissive textures could not share one
	// array; the frame's lights are then untextured.
	TextureErr error

	TotalTriangles uint32
	Skipped        []Skipped

	// Resized reports whether any merged buffer changed length since the
	// previous Collect.
	Resized bool
}

// Empty reports whether the frame has no light triangles.
func (c *Collection) Empty() bool { return c == nil || c.TotalTriangles == 0 }

// Collector builds a Collection per frame. It remembers the previous frame's
// buffer lengths to report reallocation needs.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	// ResizeMismatchedTextures rescales emissive textures to the first
	// texture's size instead of dropping texturing.
	ResizeMismatchedTextures bool

	lastVertices, lastIndices, lastTasks int
	collected                            bool
}

// Collect merges sources in the given order.
func (c *Collector) Collect(sources []Source) *Collection {
	out := &Collection{}

	var textures []*image.RGBA
	layerOf := make(map[*image.RGBA]int32)

	for i, src := range sources {
		if reason := check(src); reason != 0 {
			out.Skipped = append(out.Skipped, Skipped{Index: i, Reason: reason})
			continue
		}

		verts, idx := src.Vertices(), src.Indices()
		color, tex := src.Emission()
		layer := NoTexture
		if tex != nil {
			l, ok := layerOf[tex]
			if !ok {
				l = int32(len(textures))
				layerOf[tex] = l
				textures = append(textures, tex)
			}
			layer = l
		}

		triangles := uint32(len(idx) / 3)
		task := Task{
			EmissiveColor:        color,
			TriangleCount:        triangles,
			LightBufferOffset:    out.TotalTriangles,
			VertexOffset:         uint32(len(out.Vertices)),
			EmissiveTextureIndex: layer,
			LocalToWorld:         src.LocalToWorld(),
		}
		taskIndex := uint32(len(out.Tasks))
		out.Tasks = append(out.Tasks, task)
		out.GeometryInstanceToLight = append(out.GeometryInstanceToLight, task.LightBufferOffset)
		for range triangles {
			out.TriangleTask = append(out.TriangleTask, taskIndex)
		}
		out.Vertices = append(out.Vertices, verts...)
		out.Indices = append(out.Indices, idx...)
		out.TotalTriangles += triangles
	}

	if len(textures) > 0 {
		arr, err := BuildTextureArray(textures, c.ResizeMismatchedTextures)
		if err != nil {
			out.TextureErr = err
			for i := range out.Tasks {
				out.Tasks[i].EmissiveTextureIndex = NoTexture
			}
		} else {
			out.Textures = arr
		}
	}

	out.Resized = !c.collected ||
		len(out.Vertices) != c.lastVertices ||
		len(out.Indices) != c.lastIndices ||
		len(out.Tasks) != c.lastTasks
	c.lastVertices, c.lastIndices, c.lastTasks = len(out.Vertices), len(out.Indices), len(out.Tasks)
	c.collected = true

	return out
}

func check(src Source) SkipReason {
	if src == nil || !src.Valid() {
		return SkipInvalid
	}
	if !LayoutMatches(src.VertexLayout()) {
		return SkipLayout
	}
	verts, idx := src.Vertices(), src.Indices()
	if len(verts) == 0 || len(idx) == 0 {
		return SkipEmpty
	}
	if len(idx)%3 != 0 {
		return SkipIndexCount
	}
	for _, i := range idx {
		if int(i) >= len(verts) {
			return SkipIndexRange
		}
	}
	return 0
}

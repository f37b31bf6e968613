// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prepare

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/internal/parallel"
	"github.com/gogpu/restir/lights"
)

// ThreadsPerGroup is the workgroup size of the preparation shader.
const ThreadsPerGroup = 256

// DispatchGroups returns the number of workgroups that cover n triangles.
func DispatchGroups(n uint32) uint32 {
	return (n + ThreadsPerGroup - 1) / ThreadsPerGroup
}

// Result holds the prepared light records of one frame.
type Result struct {
	Lights         []LightInfo
	DispatchGroups uint32
}

// HasLights reports whether any light record was produced.
func (r *Result) HasLights() bool { return r != nil && len(r.Lights) > 0 }

// Preparer runs light preparation on the CPU.
type Preparer struct {
	pool *parallel.Pool
}

// NewPreparer returns a Preparer that fans work out over pool.
func NewPreparer(pool *parallel.Pool) *Preparer {
	return &Preparer{pool: pool}
}

// Prepare converts every collected triangle into a LightInfo, in light
// index order. Work is split in batches of ThreadsPerGroup triangles,
// mirroring the shader's workgroups.
func (p *Preparer) Prepare(ctx context.Context, col *lights.Collection) (*Result, error) {
	if col.Empty() {
		return &Result{}, ctx.Err()
	}
	n := int(col.TotalTriangles)
	out := make([]LightInfo, n)
	err := p.pool.ForRange(ctx, n, ThreadsPerGroup, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = prepareTriangle(col, uint32(i))
		}
	})
	if err != nil {
		return nil, err
	}
	return &Result{Lights: out, DispatchGroups: DispatchGroups(col.TotalTriangles)}, nil
}

func prepareTriangle(col *lights.Collection, lightIndex uint32) LightInfo {
	task := col.Tasks[col.TriangleTask[lightIndex]]

	var pos [3]mgl32.Vec3
	var uv mgl32.Vec2
	for k := range 3 {
		v := col.Vertices[col.Indices[lightIndex*3+uint32(k)]+task.VertexOffset]
		pos[k] = task.LocalToWorld.Mul4x1(v.Position.Vec4(1)).Vec3()
		uv = uv.Add(v.UV)
	}

	radiance := task.EmissiveColor
	if task.EmissiveTextureIndex >= 0 && col.Textures != nil {
		texel := col.Textures.Sample(int(task.EmissiveTextureIndex), uv.Mul(1.0/3))
		radiance = mgl32.Vec3{radiance[0] * texel[0], radiance[1] * texel[1], radiance[2] * texel[2]}
	}
	return EncodeTriangle(pos[0], pos[1], pos[2], radiance)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
)

const (
	uniform   = gpucore.BindingTypeUniformBuffer
	readOnly  = gpucore.BindingTypeReadOnlyStorageBuffer
	readWrite = gpucore.BindingTypeStorageBuffer
)

var prepareLayout = layoutEntries(
	uniform,   // BindingPrepareConstants
	readOnly,  // BindingTaskBuffer
	readOnly,  // BindingLightVertexBuffer
	readOnly,  // BindingLightIndexBuffer
	readOnly,  // BindingTriangleTaskBuffer
	readOnly,  // BindingEmissiveTexels
	readWrite, // BindingLightDataBuffer
)

var prepareRoles = [...]struct {
	binding uint32
	role    role
}{
	{gpucore.BindingPrepareConstants, rolePrepareConstants},
	{gpucore.BindingTaskBuffer, roleTasks},
	{gpucore.BindingLightVertexBuffer, roleVertices},
	{gpucore.BindingLightIndexBuffer, roleIndices},
	{gpucore.BindingTriangleTaskBuffer, roleTriangleTasks},
	{gpucore.BindingEmissiveTexels, roleTexels},
	{gpucore.BindingLightDataBuffer, roleLightData},
}

func newPreparePass(adapter gpucore.GPUAdapter, compile Compiler) (*pipeline, error) {
	spirv, err := compile(prepare.ShaderSource)
	if err != nil {
		return nil, err
	}
	return newPipeline(adapter, "restir-prepare-lights", spirv, prepare.ShaderEntryPoint, prepareLayout)
}

// uploadLights writes the merged light geometry and sizes the light data
// buffer for col.TotalTriangles records.
func (s *resources) uploadLights(col *lights.Collection) error {
	uploads := []struct {
		r    role
		data []byte
	}{
		{roleTasks, lights.TasksBytes(col.Tasks)},
		{roleVertices, lights.VerticesBytes(col.Vertices)},
		{roleIndices, lights.IndicesBytes(col.Indices)},
		{roleTriangleTasks, lights.IndicesBytes(col.TriangleTask)},
		{roleTexels, col.Textures.Texels()},
		{roleGeometryToLight, lights.IndicesBytes(col.GeometryInstanceToLight)},
	}
	for _, u := range uploads {
		if _, err := s.upload(u.r, u.data); err != nil {
			return err
		}
	}
	var c prepare.Constants
	c.TotalTriangles = col.TotalTriangles
	c.NumTasks = uint32(len(col.Tasks))
	if n := col.Textures.Len(); n > 0 {
		c.TextureWidth = uint32(col.Textures.Width)
		c.TextureHeight = uint32(col.Textures.Height)
		c.TextureLayers = uint32(n)
	}
	if _, err := s.upload(rolePrepareConstants, c.Bytes()); err != nil {
		return err
	}
	_, err := s.ensure(roleLightData, int(col.TotalTriangles)*prepare.LightInfoSize)
	return err
}

func (s *resources) prepareEntries() []gpucore.BindGroupEntry {
	out := make([]gpucore.BindGroupEntry, len(prepareRoles))
	for i, pr := range prepareRoles {
		out[i] = gpucore.BindGroupEntry{Binding: pr.binding, Buffer: s.get(pr.role).ID}
	}
	return out
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/restir/gpucore"
)

// pipeline is a compute pipeline with a single bind group. The bind group
// is rebuilt whenever the resource generation moves.
type pipeline struct {
	adapter gpucore.GPUAdapter
	label   string

	module   gpucore.ShaderModuleID
	layout   gpucore.BindGroupLayoutID
	pipeLay  gpucore.PipelineLayoutID
	pipeline gpucore.ComputePipelineID

	group      gpucore.BindGroupID
	generation uint64
}

func newPipeline(adapter gpucore.GPUAdapter, label string, spirv []uint32, entryPoint string, entries []gpucore.BindGroupLayoutEntry) (*pipeline, error) {
	p := &pipeline{adapter: adapter, label: label}
	var err error
	if p.module, err = adapter.CreateShaderModule(spirv, label); err != nil {
		return nil, fmt.Errorf("gpu: %s shader module: %w", label, err)
	}
	p.layout, err = adapter.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{Label: label, Entries: entries})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("gpu: %s bind group layout: %w", label, err)
	}
	if p.pipeLay, err = adapter.CreatePipelineLayout([]gpucore.BindGroupLayoutID{p.layout}); err != nil {
		p.destroy()
		return nil, fmt.Errorf("gpu: %s pipeline layout: %w", label, err)
	}
	p.pipeline, err = adapter.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        label,
		Layout:       p.pipeLay,
		ShaderModule: p.module,
		EntryPoint:   entryPoint,
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("gpu: %s compute pipeline: %w", label, err)
	}
	return p, nil
}

// bind returns the bind group for generation, creating it from entries when
// the cached one is stale.
func (p *pipeline) bind(generation uint64, entries func() []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	if p.group != gpucore.InvalidID && p.generation == generation {
		return p.group, nil
	}
	if p.group != gpucore.InvalidID {
		p.adapter.DestroyBindGroup(p.group)
		p.group = gpucore.InvalidID
	}
	g, err := p.adapter.CreateBindGroup(p.layout, entries())
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("gpu: %s bind group: %w", p.label, err)
	}
	p.group, p.generation = g, generation
	return g, nil
}

func (p *pipeline) dispatch(group gpucore.BindGroupID, x, y uint32) {
	pass := p.adapter.BeginComputePass(p.label)
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, group)
	pass.Dispatch(x, y, 1)
	pass.End()
}

func (p *pipeline) destroy() {
	if p.group != gpucore.InvalidID {
		p.adapter.DestroyBindGroup(p.group)
	}
	if p.pipeline != gpucore.InvalidID {
		p.adapter.DestroyComputePipeline(p.pipeline)
	}
	if p.pipeLay != gpucore.InvalidID {
		p.adapter.DestroyPipelineLayout(p.pipeLay)
	}
	if p.layout != gpucore.InvalidID {
		p.adapter.DestroyBindGroupLayout(p.layout)
	}
	if p.module != gpucore.InvalidID {
		p.adapter.DestroyShaderModule(p.module)
	}
	*p = pipeline{adapter: p.adapter, label: p.label}
}

func layoutEntries(types ...gpucore.BindingType) []gpucore.BindGroupLayoutEntry {
	out := make([]gpucore.BindGroupLayoutEntry, len(types))
	for i, t := range types {
		out[i] = gpucore.BindGroupLayoutEntry{Binding: uint32(i), Type: t}
	}
	return out
}

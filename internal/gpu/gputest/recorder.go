// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides an in-memory gpucore.GPUAdapter for tests.
package gputest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/restir/gpucore"
)

// ErrUnknownBuffer is returned for operations on destroyed or unknown
// buffers.
var ErrUnknownBuffer = errors.New("gputest: unknown buffer")

// Dispatch is one recorded dispatch.
type Dispatch struct {
	Pass     string
	Pipeline gpucore.ComputePipelineID
	Group    gpucore.BindGroupID
	X, Y, Z  uint32
}

// BufferInfo describes a live buffer.
type BufferInfo struct {
	Label string
	Usage gpucore.BufferUsage
	Data  []byte
}

// Recorder is a GPUAdapter that keeps buffers in memory and records every
// call. Shaders never run; OnDispatch can emulate one.
type Recorder struct {
	// OnDispatch runs at every dispatch with the bound group entries.
	OnDispatch func(r *Recorder, d Dispatch, entries []gpucore.BindGroupEntry)

	// FailCreateBuffer makes CreateBuffer fail for labels it returns true for.
	FailCreateBuffer func(label string) bool

	// BufferLimit overrides MaxBufferSize when non-zero.
	BufferLimit uint64

	mu         sync.Mutex
	next       uint64
	buffers    map[gpucore.BufferID]*BufferInfo
	groups     map[gpucore.BindGroupID][]gpucore.BindGroupEntry
	live       map[uint64]string
	dispatches []Dispatch
	created    map[string]int
	destroyed  int
	submits    int
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		buffers: make(map[gpucore.BufferID]*BufferInfo),
		groups:  make(map[gpucore.BindGroupID][]gpucore.BindGroupEntry),
		live:    make(map[uint64]string),
		created: make(map[string]int),
	}
}

var _ gpucore.GPUAdapter = (*Recorder)(nil)

func (r *Recorder) newID(kind string) uint64 {
	r.next++
	r.live[r.next] = kind
	r.created[kind]++
	return r.next
}

func (r *Recorder) release(id uint64) {
	if _, ok := r.live[id]; ok {
		delete(r.live, id)
		r.destroyed++
	}
}

func (r *Recorder) SupportsCompute() bool { return true }

func (r *Recorder) MaxWorkgroupSize() [3]uint32 { return [3]uint32{256, 256, 64} }

func (r *Recorder) MaxBufferSize() uint64 {
	if r.BufferLimit != 0 {
		return r.BufferLimit
	}
	return 1 << 30
}

func (r *Recorder) CreateShaderModule(spirv []uint32, _ string) (gpucore.ShaderModuleID, error) {
	if len(spirv) == 0 {
		return gpucore.InvalidID, errors.New("gputest: empty shader")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return gpucore.ShaderModuleID(r.newID("shader")), nil
}

func (r *Recorder) DestroyShaderModule(id gpucore.ShaderModuleID) { r.destroy(uint64(id)) }

func (r *Recorder) CreateBuffer(size int, usage gpucore.BufferUsage, label string) (gpucore.BufferID, error) {
	if r.FailCreateBuffer != nil && r.FailCreateBuffer(label) {
		return gpucore.InvalidID, fmt.Errorf("gputest: create %s refused", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := gpucore.BufferID(r.newID("buffer:" + label))
	r.buffers[id] = &BufferInfo{Label: label, Usage: usage, Data: make([]byte, size)}
	return id, nil
}

func (r *Recorder) DestroyBuffer(id gpucore.BufferID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, id)
	r.release(uint64(id))
}

func (r *Recorder) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buffers[id]; ok {
		copy(b.Data[offset:], data)
	}
}

func (r *Recorder) ReadBuffer(id gpucore.BufferID, offset, size uint64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[id]
	if !ok {
		return nil, ErrUnknownBuffer
	}
	if offset+size > uint64(len(b.Data)) {
		return nil, fmt.Errorf("gputest: read %d bytes at %d from %d-byte buffer", size, offset, len(b.Data))
	}
	return append([]byte(nil), b.Data[offset:offset+size]...), nil
}

func (r *Recorder) CopyBuffer(src, dst gpucore.BufferID, size uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok1 := r.buffers[src]
	d, ok2 := r.buffers[dst]
	if ok1 && ok2 {
		copy(d.Data[:size], s.Data[:size])
	}
}

func (r *Recorder) CreateBindGroupLayout(*gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gpucore.BindGroupLayoutID(r.newID("bind-group-layout")), nil
}

func (r *Recorder) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) { r.destroy(uint64(id)) }

func (r *Recorder) CreatePipelineLayout([]gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gpucore.PipelineLayoutID(r.newID("pipeline-layout")), nil
}

func (r *Recorder) DestroyPipelineLayout(id gpucore.PipelineLayoutID) { r.destroy(uint64(id)) }

func (r *Recorder) CreateComputePipeline(*gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gpucore.ComputePipelineID(r.newID("compute-pipeline")), nil
}

func (r *Recorder) DestroyComputePipeline(id gpucore.ComputePipelineID) { r.destroy(uint64(id)) }

func (r *Recorder) CreateBindGroup(_ gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if _, ok := r.buffers[e.Buffer]; !ok {
			return gpucore.InvalidID, fmt.Errorf("%w: binding %d", ErrUnknownBuffer, e.Binding)
		}
	}
	id := gpucore.BindGroupID(r.newID("bind-group"))
	r.groups[id] = append([]gpucore.BindGroupEntry(nil), entries...)
	return id, nil
}

func (r *Recorder) DestroyBindGroup(id gpucore.BindGroupID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, id)
	r.release(uint64(id))
}

func (r *Recorder) destroy(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release(id)
}

func (r *Recorder) BeginComputePass(label string) gpucore.ComputePassEncoder {
	return &pass{r: r, label: label}
}

func (r *Recorder) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submits++
	return nil
}

func (r *Recorder) WaitIdle() error { return nil }

// Dispatches returns every recorded dispatch in order.
func (r *Recorder) Dispatches() []Dispatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Dispatch(nil), r.dispatches...)
}

// Created returns how many buffers with label were created.
func (r *Recorder) Created(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created["buffer:"+label]
}

// Live returns the number of resources not yet destroyed.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Submits returns the number of submissions.
func (r *Recorder) Submits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submits
}

// Buffer returns a live buffer.
func (r *Recorder) Buffer(id gpucore.BufferID) (*BufferInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[id]
	return b, ok
}

// BufferByLabel returns the live buffer with label.
func (r *Recorder) BufferByLabel(label string) (gpucore.BufferID, *BufferInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.buffers {
		if b.Label == label {
			return id, b, true
		}
	}
	return gpucore.InvalidID, nil, false
}

// Write stores data into a live buffer, for OnDispatch emulation.
func (r *Recorder) Write(id gpucore.BufferID, offset int, data []byte) {
	r.WriteBuffer(id, uint64(offset), data)
}

type pass struct {
	r        *Recorder
	label    string
	pipeline gpucore.ComputePipelineID
	group    gpucore.BindGroupID
}

func (p *pass) SetPipeline(id gpucore.ComputePipelineID) { p.pipeline = id }

func (p *pass) SetBindGroup(_ uint32, g gpucore.BindGroupID) { p.group = g }

func (p *pass) Dispatch(x, y, z uint32) {
	d := Dispatch{Pass: p.label, Pipeline: p.pipeline, Group: p.group, X: x, Y: y, Z: z}
	p.r.mu.Lock()
	p.r.dispatches = append(p.r.dispatches, d)
	entries := p.r.groups[p.group]
	hook := p.r.OnDispatch
	p.r.mu.Unlock()
	if hook != nil {
		hook(p.r, d, entries)
	}
}

func (p *pass) End() {}

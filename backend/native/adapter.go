// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/restir/gpucore"
)

// fenceTimeout bounds every wait for GPU completion.
const fenceTimeout = 5 * time.Second

// halBuffer is a HAL buffer and its byte size.
type halBuffer struct {
	buf  hal.Buffer
	size uint64
}

// submission is the command buffer in flight and its fence.
type submission struct {
	cmdBuf hal.CommandBuffer
	fence  hal.Fence
}

// HALAdapter implements gpucore.GPUAdapter using gogpu/wgpu/hal directly.
//
// Commands are recorded into one pending encoder until Submit. At most one
// submission is in flight: Submit, WriteBuffer and ReadBuffer first wait for
// it. Destroying a resource while commands may still reference it defers
// the HAL destroy until those commands have completed.
//
// HALAdapter is safe for concurrent use from multiple goroutines.
type HALAdapter struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue

	hasCompute   bool
	maxBufferSz  uint64
	maxWorkgroup [3]uint32

	nextID atomic.Uint64

	buffers          map[gpucore.BufferID]halBuffer
	shaderModules    map[gpucore.ShaderModuleID]hal.ShaderModule
	computePipelines map[gpucore.ComputePipelineID]hal.ComputePipeline
	bindGroupLayouts map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	pipelineLayouts  map[gpucore.PipelineLayoutID]hal.PipelineLayout
	bindGroups       map[gpucore.BindGroupID]hal.BindGroup

	encoder  hal.CommandEncoder
	inflight *submission
	deferred []func()

	// recordErr is the first recording failure since the last Submit.
	recordErr error
}

// NewHALAdapter wraps device and queue. A nil limits uses
// gputypes.DefaultLimits.
func NewHALAdapter(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *HALAdapter {
	lim := gputypes.DefaultLimits()
	if limits != nil {
		lim = *limits
	}
	a := &HALAdapter{
		device:           device,
		queue:            queue,
		hasCompute:       true,
		maxBufferSz:      lim.MaxBufferSize,
		maxWorkgroup:     [3]uint32{lim.MaxComputeWorkgroupSizeX, lim.MaxComputeWorkgroupSizeY, lim.MaxComputeWorkgroupSizeZ},
		buffers:          make(map[gpucore.BufferID]halBuffer),
		shaderModules:    make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		computePipelines: make(map[gpucore.ComputePipelineID]hal.ComputePipeline),
		bindGroupLayouts: make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		pipelineLayouts:  make(map[gpucore.PipelineLayoutID]hal.PipelineLayout),
		bindGroups:       make(map[gpucore.BindGroupID]hal.BindGroup),
	}
	// 0 is InvalidID.
	a.nextID.Store(1)
	return a
}

func (a *HALAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// === Capabilities ===

// SupportsCompute returns whether compute shaders are supported.
func (a *HALAdapter) SupportsCompute() bool { return a.hasCompute }

// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
func (a *HALAdapter) MaxWorkgroupSize() [3]uint32 { return a.maxWorkgroup }

// MaxBufferSize returns the maximum buffer size in bytes.
func (a *HALAdapter) MaxBufferSize() uint64 { return a.maxBufferSz }

// === Resource lifetime ===

// release destroys now when no command can reference the resource, and
// otherwise after the commands that may have recorded it complete.
// Must be called with mu held.
func (a *HALAdapter) release(destroy func()) {
	if a.encoder == nil && a.inflight == nil {
		destroy()
		return
	}
	a.deferred = append(a.deferred, destroy)
}

// retire waits for the submission in flight and frees it. Deferred
// destroys run once no pending commands remain. Must be called with mu held.
func (a *HALAdapter) retire() error {
	if s := a.inflight; s != nil {
		ok, err := a.device.Wait(s.fence, 1, fenceTimeout)
		if err != nil {
			return fmt.Errorf("native: wait for GPU: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w after %v", ErrTimeout, fenceTimeout)
		}
		a.device.FreeCommandBuffer(s.cmdBuf)
		a.device.DestroyFence(s.fence)
		a.inflight = nil
	}
	if a.encoder == nil && len(a.deferred) > 0 {
		for _, destroy := range a.deferred {
			destroy()
		}
		a.deferred = nil
	}
	return nil
}

// === Shader Compilation ===

// CreateShaderModule creates a shader module from SPIR-V words.
func (a *HALAdapter) CreateShaderModule(spirv []uint32, label string) (gpucore.ShaderModuleID, error) {
	if len(spirv) == 0 {
		return gpucore.InvalidID, ErrEmptyShader
	}
	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create shader module %q: %w", label, err)
	}
	id := gpucore.ShaderModuleID(a.newID())
	a.mu.Lock()
	a.shaderModules[id] = module
	a.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *HALAdapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if module, ok := a.shaderModules[id]; ok {
		delete(a.shaderModules, id)
		a.release(func() { a.device.DestroyShaderModule(module) })
	}
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (a *HALAdapter) CreateBuffer(size int, usage gpucore.BufferUsage, label string) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q size %d", ErrInvalidSize, label, size)
	}
	if uint64(size) > a.maxBufferSz {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q size %d exceeds %d", ErrInvalidSize, label, size, a.maxBufferSz)
	}
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q: %w", label, err)
	}
	id := gpucore.BufferID(a.newID())
	a.mu.Lock()
	a.buffers[id] = halBuffer{buf: buf, size: uint64(size)}
	a.mu.Unlock()
	return id, nil
}

// DestroyBuffer releases a GPU buffer.
func (a *HALAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.buffers[id]; ok {
		delete(a.buffers, id)
		a.release(func() { a.device.DestroyBuffer(b.buf) })
	}
}

// WriteBuffer uploads data at offset, after the submission in flight has
// completed.
func (a *HALAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.buffers[id]
	if !ok {
		a.noteErr(fmt.Errorf("%w: write to buffer %d", ErrUnknownResource, id))
		return
	}
	if offset+uint64(len(data)) > b.size {
		a.noteErr(fmt.Errorf("%w: write of %d bytes at %d to %d-byte buffer", ErrInvalidSize, len(data), offset, b.size))
		return
	}
	if err := a.retire(); err != nil {
		a.noteErr(err)
		return
	}
	a.queue.WriteBuffer(b.buf, offset, data)
}

// ReadBuffer submits pending commands, copies the range into a staging
// buffer and reads it back.
func (a *HALAdapter) ReadBuffer(id gpucore.BufferID, offset, size uint64) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: read from buffer %d", ErrUnknownResource, id)
	}
	if size == 0 || offset+size > b.size {
		return nil, fmt.Errorf("%w: read of %d bytes at %d from %d-byte buffer", ErrInvalidSize, size, offset, b.size)
	}
	if err := a.submitLocked(); err != nil {
		return nil, err
	}
	if err := a.retire(); err != nil {
		return nil, err
	}

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "restir-readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(staging)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "restir-readback"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("restir-readback"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(b.buf, staging, []hal.BufferCopy{{SrcOffset: offset, DstOffset: 0, Size: size}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("native: end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("native: create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("native: submit readback: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return nil, fmt.Errorf("native: wait for readback: %w", err)
	}
	if !fenceOK {
		return nil, fmt.Errorf("%w after %v", ErrTimeout, fenceTimeout)
	}

	out := make([]byte, size)
	if err := a.queue.ReadBuffer(staging, 0, out); err != nil {
		return nil, fmt.Errorf("native: readback: %w", err)
	}
	return out, nil
}

// CopyBuffer records a copy of size bytes from the start of src to dst.
func (a *HALAdapter) CopyBuffer(src, dst gpucore.BufferID, size uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok1 := a.buffers[src]
	d, ok2 := a.buffers[dst]
	if !ok1 || !ok2 {
		a.noteErr(fmt.Errorf("%w: copy %d -> %d", ErrUnknownResource, src, dst))
		return
	}
	if size > s.size || size > d.size {
		a.noteErr(fmt.Errorf("%w: copy of %d bytes", ErrInvalidSize, size))
		return
	}
	enc, err := a.pendingEncoder()
	if err != nil {
		a.noteErr(err)
		return
	}
	enc.CopyBufferToBuffer(s.buf, d.buf, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}})
}

// === Pipeline Management ===

// CreateBindGroupLayout creates a compute-visible bind group layout.
func (a *HALAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("native: nil bind group layout descriptor")
	}
	entries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = convertBindGroupLayoutEntry(e)
	}
	layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group layout %q: %w", desc.Label, err)
	}
	id := gpucore.BindGroupLayoutID(a.newID())
	a.mu.Lock()
	a.bindGroupLayouts[id] = layout
	a.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (a *HALAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if layout, ok := a.bindGroupLayouts[id]; ok {
		delete(a.bindGroupLayouts, id)
		a.release(func() { a.device.DestroyBindGroupLayout(layout) })
	}
}

// CreatePipelineLayout creates a pipeline layout with one group per entry.
func (a *HALAdapter) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	a.mu.Lock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		layout, ok := a.bindGroupLayouts[id]
		if !ok {
			a.mu.Unlock()
			return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, id)
		}
		halLayouts[i] = layout
	}
	a.mu.Unlock()

	pl, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "restir-pipeline-layout",
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create pipeline layout: %w", err)
	}
	id := gpucore.PipelineLayoutID(a.newID())
	a.mu.Lock()
	a.pipelineLayouts[id] = pl
	a.mu.Unlock()
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (a *HALAdapter) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pl, ok := a.pipelineLayouts[id]; ok {
		delete(a.pipelineLayouts, id)
		a.release(func() { a.device.DestroyPipelineLayout(pl) })
	}
}

// CreateComputePipeline creates a compute pipeline.
func (a *HALAdapter) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("native: nil compute pipeline descriptor")
	}
	a.mu.Lock()
	layout, layoutOK := a.pipelineLayouts[desc.Layout]
	module, moduleOK := a.shaderModules[desc.ShaderModule]
	a.mu.Unlock()
	if !layoutOK {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", ErrUnknownResource, desc.Layout)
	}
	if !moduleOK {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", ErrUnknownResource, desc.ShaderModule)
	}

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create compute pipeline %q: %w", desc.Label, err)
	}
	id := gpucore.ComputePipelineID(a.newID())
	a.mu.Lock()
	a.computePipelines[id] = pipeline
	a.mu.Unlock()
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (a *HALAdapter) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.computePipelines[id]; ok {
		delete(a.computePipelines, id)
		a.release(func() { a.device.DestroyComputePipeline(p) })
	}
}

// CreateBindGroup binds buffer ranges to layout.
func (a *HALAdapter) CreateBindGroup(layout gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	a.mu.Lock()
	halLayout, ok := a.bindGroupLayouts[layout]
	if !ok {
		a.mu.Unlock()
		return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, layout)
	}
	halEntries := make([]gputypes.BindGroupEntry, len(entries))
	for i, e := range entries {
		he, err := a.convertBindGroupEntry(e)
		if err != nil {
			a.mu.Unlock()
			return gpucore.InvalidID, err
		}
		halEntries[i] = he
	}
	a.mu.Unlock()

	group, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "restir-bind-group",
		Layout:  halLayout,
		Entries: halEntries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group: %w", err)
	}
	id := gpucore.BindGroupID(a.newID())
	a.mu.Lock()
	a.bindGroups[id] = group
	a.mu.Unlock()
	return id, nil
}

// DestroyBindGroup releases a bind group.
func (a *HALAdapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g, ok := a.bindGroups[id]; ok {
		delete(a.bindGroups, id)
		a.release(func() { a.device.DestroyBindGroup(g) })
	}
}

// === Command Recording and Execution ===

// pendingEncoder returns the open encoder, creating it on first use.
// Must be called with mu held.
func (a *HALAdapter) pendingEncoder() (hal.CommandEncoder, error) {
	if a.encoder != nil {
		return a.encoder, nil
	}
	enc, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "restir-frame"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("restir-frame"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	a.encoder = enc
	return enc, nil
}

// noteErr keeps the first recording error for Submit to report.
// Must be called with mu held.
func (a *HALAdapter) noteErr(err error) {
	if a.recordErr == nil {
		a.recordErr = err
	}
}

// BeginComputePass begins a compute pass in the pending encoder. On
// failure the returned encoder records nothing and Submit reports the error.
func (a *HALAdapter) BeginComputePass(label string) gpucore.ComputePassEncoder {
	a.mu.Lock()
	defer a.mu.Unlock()
	enc, err := a.pendingEncoder()
	if err != nil {
		a.noteErr(err)
		return &halComputePassEncoder{adapter: a}
	}
	return &halComputePassEncoder{
		adapter: a,
		pass:    enc.BeginComputePass(&hal.ComputePassDescriptor{Label: label}),
	}
}

// Submit submits the pending commands after the previous submission has
// completed.
func (a *HALAdapter) Submit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitLocked()
}

func (a *HALAdapter) submitLocked() error {
	if err := a.recordErr; err != nil {
		a.recordErr = nil
		a.discardEncoder()
		return err
	}
	if a.encoder == nil {
		return nil
	}
	if err := a.retire(); err != nil {
		return err
	}
	cmdBuf, err := a.encoder.EndEncoding()
	a.encoder = nil
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	fence, err := a.device.CreateFence()
	if err != nil {
		a.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("native: create fence: %w", err)
	}
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		a.device.FreeCommandBuffer(cmdBuf)
		a.device.DestroyFence(fence)
		return fmt.Errorf("native: submit: %w", err)
	}
	a.inflight = &submission{cmdBuf: cmdBuf, fence: fence}
	return nil
}

// discardEncoder drops the pending commands. Must be called with mu held.
func (a *HALAdapter) discardEncoder() {
	if a.encoder == nil {
		return
	}
	if cmdBuf, err := a.encoder.EndEncoding(); err == nil {
		a.device.FreeCommandBuffer(cmdBuf)
	}
	a.encoder = nil
}

// WaitIdle submits pending commands and waits for them to complete.
func (a *HALAdapter) WaitIdle() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.submitLocked(); err != nil {
		return err
	}
	return a.retire()
}

// Close waits for the GPU and releases every resource still owned by the
// adapter. The device itself belongs to the caller.
func (a *HALAdapter) Close() error {
	err := a.WaitIdle()
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, g := range a.bindGroups {
		a.device.DestroyBindGroup(g)
		delete(a.bindGroups, id)
	}
	for id, p := range a.computePipelines {
		a.device.DestroyComputePipeline(p)
		delete(a.computePipelines, id)
	}
	for id, pl := range a.pipelineLayouts {
		a.device.DestroyPipelineLayout(pl)
		delete(a.pipelineLayouts, id)
	}
	for id, l := range a.bindGroupLayouts {
		a.device.DestroyBindGroupLayout(l)
		delete(a.bindGroupLayouts, id)
	}
	for id, m := range a.shaderModules {
		a.device.DestroyShaderModule(m)
		delete(a.shaderModules, id)
	}
	for id, b := range a.buffers {
		a.device.DestroyBuffer(b.buf)
		delete(a.buffers, id)
	}
	for _, destroy := range a.deferred {
		destroy()
	}
	a.deferred = nil
	return err
}

// === Type Conversion Helpers ===

func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage
	if usage&gpucore.BufferUsageMapRead != 0 {
		result |= gputypes.BufferUsageMapRead
	}
	if usage&gpucore.BufferUsageMapWrite != 0 {
		result |= gputypes.BufferUsageMapWrite
	}
	if usage&gpucore.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpucore.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpucore.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpucore.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}
	return result
}

func convertBindGroupLayoutEntry(entry gpucore.BindGroupLayoutEntry) gputypes.BindGroupLayoutEntry {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: gputypes.ShaderStageCompute,
	}
	switch entry.Type {
	case gpucore.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpucore.BindingTypeStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	default:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	}
	return result
}

// convertBindGroupEntry resolves a buffer binding. A zero size binds the
// rest of the buffer. Must be called with mu held.
func (a *HALAdapter) convertBindGroupEntry(entry gpucore.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	b, ok := a.buffers[entry.Buffer]
	if !ok {
		return gputypes.BindGroupEntry{}, fmt.Errorf("%w: buffer %d at binding %d", ErrUnknownResource, entry.Buffer, entry.Binding)
	}
	if entry.Offset >= b.size {
		return gputypes.BindGroupEntry{}, fmt.Errorf("%w: binding %d offset %d", ErrInvalidSize, entry.Binding, entry.Offset)
	}
	size := entry.Size
	if size == 0 {
		size = b.size - entry.Offset
	}
	return gputypes.BindGroupEntry{
		Binding: entry.Binding,
		Resource: gputypes.BufferBinding{
			Buffer: b.buf.NativeHandle(),
			Offset: entry.Offset,
			Size:   size,
		},
	}, nil
}

// === Compute Pass Encoder ===

// halComputePassEncoder implements gpucore.ComputePassEncoder. A nil pass
// records nothing.
type halComputePassEncoder struct {
	adapter *HALAdapter
	pass    hal.ComputePassEncoder
}

func (e *halComputePassEncoder) SetPipeline(pipeline gpucore.ComputePipelineID) {
	if e.pass == nil {
		return
	}
	e.adapter.mu.Lock()
	p, ok := e.adapter.computePipelines[pipeline]
	if !ok {
		e.adapter.noteErr(fmt.Errorf("%w: compute pipeline %d", ErrUnknownResource, pipeline))
	}
	e.adapter.mu.Unlock()
	if ok {
		e.pass.SetPipeline(p)
	}
}

func (e *halComputePassEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	if e.pass == nil {
		return
	}
	e.adapter.mu.Lock()
	g, ok := e.adapter.bindGroups[group]
	if !ok {
		e.adapter.noteErr(fmt.Errorf("%w: bind group %d", ErrUnknownResource, group))
	}
	e.adapter.mu.Unlock()
	if ok {
		e.pass.SetBindGroup(index, g, nil)
	}
}

func (e *halComputePassEncoder) Dispatch(x, y, z uint32) {
	if e.pass == nil {
		return
	}
	e.pass.Dispatch(x, y, z)
}

func (e *halComputePassEncoder) End() {
	if e.pass == nil {
		return
	}
	e.pass.End()
	e.pass = nil
}

var _ gpucore.GPUAdapter = (*HALAdapter)(nil)

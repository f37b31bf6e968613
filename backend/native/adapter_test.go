// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/restir/gpucore"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newNoopAdapter(t *testing.T) *HALAdapter {
	t.Helper()
	device, queue := createNoopDevice(t)
	a := NewHALAdapter(device, queue, nil)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestHALAdapterCapabilities(t *testing.T) {
	a := newNoopAdapter(t)
	lim := gputypes.DefaultLimits()
	if !a.SupportsCompute() {
		t.Error("SupportsCompute() = false")
	}
	if a.MaxBufferSize() != lim.MaxBufferSize {
		t.Errorf("MaxBufferSize() = %d, want %d", a.MaxBufferSize(), lim.MaxBufferSize)
	}
	if a.MaxWorkgroupSize()[0] != lim.MaxComputeWorkgroupSizeX {
		t.Errorf("MaxWorkgroupSize() = %v", a.MaxWorkgroupSize())
	}
}

func TestHALAdapterBuffer(t *testing.T) {
	a := newNoopAdapter(t)
	usage := gpucore.BufferUsageStorage | gpucore.BufferUsageCopySrc | gpucore.BufferUsageCopyDst

	id, err := a.CreateBuffer(64, usage, "test")
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateBuffer returned InvalidID")
	}
	a.WriteBuffer(id, 0, make([]byte, 32))
	data, err := a.ReadBuffer(id, 16, 32)
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	if len(data) != 32 {
		t.Errorf("ReadBuffer returned %d bytes, want 32", len(data))
	}

	a.DestroyBuffer(id)
	if _, err := a.ReadBuffer(id, 0, 4); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("read after destroy: err = %v", err)
	}
}

func TestHALAdapterBufferErrors(t *testing.T) {
	a := newNoopAdapter(t)
	tests := []struct {
		name string
		size int
	}{
		{"zero", 0},
		{"negative", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.CreateBuffer(tt.size, gpucore.BufferUsageStorage, tt.name); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("err = %v, want ErrInvalidSize", err)
			}
		})
	}

	id, err := a.CreateBuffer(16, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc, "small")
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if _, err := a.ReadBuffer(id, 8, 16); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("out-of-range read: err = %v", err)
	}
	a.WriteBuffer(id, 8, make([]byte, 16))
	if err := a.Submit(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Submit after out-of-range write: err = %v", err)
	}
	if err := a.Submit(); err != nil {
		t.Errorf("error should be reported once, got %v", err)
	}
}

func TestHALAdapterComputePipeline(t *testing.T) {
	a := newNoopAdapter(t)

	module, err := a.CreateShaderModule([]uint32{0x07230203, 0x00010000}, "test")
	if err != nil {
		t.Fatalf("CreateShaderModule: %v", err)
	}
	layout, err := a.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "test",
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeUniformBuffer},
			{Binding: 1, Type: gpucore.BindingTypeStorageBuffer},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout: %v", err)
	}
	pl, err := a.CreatePipelineLayout([]gpucore.BindGroupLayoutID{layout})
	if err != nil {
		t.Fatalf("CreatePipelineLayout: %v", err)
	}
	pipeline, err := a.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label: "test", Layout: pl, ShaderModule: module, EntryPoint: "main",
	})
	if err != nil {
		t.Fatalf("CreateComputePipeline: %v", err)
	}
	uniform, _ := a.CreateBuffer(16, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst, "uniform")
	storage, _ := a.CreateBuffer(256, gpucore.BufferUsageStorage, "storage")
	group, err := a.CreateBindGroup(layout, []gpucore.BindGroupEntry{
		{Binding: 0, Buffer: uniform},
		{Binding: 1, Buffer: storage},
	})
	if err != nil {
		t.Fatalf("CreateBindGroup: %v", err)
	}

	pass := a.BeginComputePass("test")
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, group)
	pass.Dispatch(4, 1, 1)
	pass.End()
	if err := a.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := a.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}

	if _, err := a.CreateBindGroup(layout, []gpucore.BindGroupEntry{{Binding: 0, Buffer: 9999}}); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("unknown buffer: err = %v", err)
	}
	if _, err := a.CreatePipelineLayout([]gpucore.BindGroupLayoutID{9999}); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("unknown layout: err = %v", err)
	}
	if _, err := a.CreateShaderModule(nil, "empty"); !errors.Is(err, ErrEmptyShader) {
		t.Errorf("empty shader: err = %v", err)
	}
}

func TestHALAdapterDeferredDestroy(t *testing.T) {
	a := newNoopAdapter(t)
	src, _ := a.CreateBuffer(64, gpucore.BufferUsageCopySrc, "src")
	dst, _ := a.CreateBuffer(64, gpucore.BufferUsageCopyDst, "dst")

	a.CopyBuffer(src, dst, 64)
	a.DestroyBuffer(src)
	a.mu.Lock()
	pending := len(a.deferred)
	a.mu.Unlock()
	if pending != 1 {
		t.Fatalf("deferred = %d while commands are pending, want 1", pending)
	}

	if err := a.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	a.mu.Lock()
	pending = len(a.deferred)
	a.mu.Unlock()
	if pending != 0 {
		t.Errorf("deferred = %d after WaitIdle, want 0", pending)
	}

	// Idle adapter destroys immediately.
	a.DestroyBuffer(dst)
	a.mu.Lock()
	pending = len(a.deferred)
	a.mu.Unlock()
	if pending != 0 {
		t.Errorf("deferred = %d on an idle adapter, want 0", pending)
	}
}

func TestHALAdapterCopyUnknown(t *testing.T) {
	a := newNoopAdapter(t)
	a.CopyBuffer(1234, 5678, 4)
	if err := a.Submit(); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("err = %v, want ErrUnknownResource", err)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// halProvider also exposes HAL handles, like a gogpu application.
type halProvider struct {
	mockProvider
	device, queue any
}

func (p halProvider) HalDevice() any { return p.device }
func (p halProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  bool
	}{
		{"no HAL access", mockProvider{}, true},
		{"wrong device type", halProvider{device: "device", queue: queue}, true},
		{"wrong queue type", halProvider{device: device, queue: 42}, true},
		{"HAL handles", halProvider{device: device, queue: queue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewFromProvider(tt.provider)
			if tt.wantErr {
				if !errors.Is(err, ErrBadProvider) {
					t.Errorf("err = %v, want ErrBadProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromProvider: %v", err)
			}
			if d.owned {
				t.Error("shared device must not be owned")
			}
			if err := d.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestOpenDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping GPU device test in short mode")
	}
	d, err := OpenDevice()
	if err != nil {
		t.Skipf("no GPU available: %v", err)
	}
	defer d.Close()
	if !d.owned {
		t.Error("opened device should be owned")
	}
	if d.Name == "" {
		t.Log("adapter reported an empty name")
	}
}

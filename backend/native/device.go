// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/restir/backend"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is a HAL device wrapped in a HALAdapter. A Device opened by
// OpenDevice owns its instance and device; one built from a provider or
// from HAL handles only owns the adapter's resources.
type Device struct {
	*HALAdapter

	// Name is the adapter name, empty for shared devices.
	Name string

	instance hal.Instance
	device   hal.Device
	owned    bool
}

// OpenDevice opens the first discrete or integrated Vulkan GPU, falling
// back to any adapter.
func OpenDevice() (*Device, error) {
	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoVulkan
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}
	backend.Logger().Info("native: GPU device opened", "adapter", selected.Info.Name)
	return &Device{
		HALAdapter: NewHALAdapter(openDev.Device, openDev.Queue, &limits),
		Name:       selected.Info.Name,
		instance:   instance,
		device:     openDev.Device,
		owned:      true,
	}, nil
}

// NewFromHAL wraps a device and queue owned by the caller.
func NewFromHAL(device hal.Device, queue hal.Queue) *Device {
	return &Device{HALAdapter: NewHALAdapter(device, queue, nil), device: device}
}

// NewFromProvider shares the device of a gpucontext.DeviceProvider. The
// provider must also implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrBadProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrBadProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrBadProvider)
	}
	return NewFromHAL(device, queue), nil
}

// Close releases the adapter's resources and, for an owned device, the
// device and instance.
func (d *Device) Close() error {
	err := d.HALAdapter.Close()
	if d.owned {
		d.device.Destroy()
		d.instance.Destroy()
		d.owned = false
	}
	return err
}

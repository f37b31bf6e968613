// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"context"
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/lights"
	"github.com/gogpu/restir/prepare"
	"github.com/gogpu/restir/resampling"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoResampleKernel is returned by GPU backends configured without a
	// resampling kernel.
	ErrNoResampleKernel = errors.New("backend: no resampling kernel")
)

// Config configures a backend at Init.
type Config struct {
	// Workers is the CPU worker count. Zero uses GOMAXPROCS.
	Workers int

	// Visibility answers shadow queries on the CPU. Nil treats every sample
	// as visible.
	Visibility resampling.Visibility

	// ResampleKernel is the SPIR-V resampling kernel for GPU backends.
	ResampleKernel []uint32

	// Compile overrides the WGSL compiler of GPU backends.
	Compile func(wgsl string) ([]uint32, error)

	// Provider shares a host GPU device with GPU backends.
	Provider gpucontext.DeviceProvider

	// Adapter runs GPU backends on an existing adapter. It takes precedence
	// over Provider.
	Adapter gpucore.GPUAdapter
}

// Frame is what one resampling frame reads.
type Frame struct {
	Constants resampling.Constants
	Settings  resampling.Settings

	GBuffer *frame.GBuffer
	Camera  frame.Camera

	// PrevCamera produced the history G-buffer.
	PrevCamera frame.Camera
}

// PrepareResult reports a light preparation.
type PrepareResult struct {
	// NumLights is the number of light records now in the light buffer.
	NumLights uint32

	// Dispatched reports whether preparation work ran.
	Dispatched bool
}

// Backend executes light preparation and resampling. It owns the light
// buffer, the reservoirs, the shading output and the G-buffer history.
//
// Backends must be registered via Register() and are selected via
// Get() or Default(). A Backend is driven by one goroutine at a time.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init acquires the backend's resources.
	Init(cfg Config) error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Prepare converts the collected light geometry into light records.
	// Nothing runs for an empty collection.
	Prepare(ctx context.Context, col *lights.Collection) (PrepareResult, error)

	// Resample runs the resampling protocol over the prepared lights and
	// returns the shading output. The target is owned by the backend and
	// valid until the next call.
	Resample(ctx context.Context, f *Frame) (*frame.Target, error)

	// CaptureHistory retains g as the previous frame's G-buffer.
	CaptureHistory(g *frame.GBuffer) error

	// HistoryReady reports whether a previous G-buffer of width×height is
	// retained. History of any other size is unusable for the frame.
	HistoryReady(width, height int) bool

	// ReleaseHistory drops the retained G-buffer.
	ReleaseHistory()

	// LightData returns the prepared light records out of band.
	LightData(ctx context.Context) ([]prepare.LightInfo, error)
}

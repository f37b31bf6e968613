// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package restir

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/restir/backend"
	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/resampling"
)

// Option configures a Feature during creation.
// Use functional options to customize Feature behavior.
//
// Example:
//
//	// Default settings, best available backend
//	f, err := restir.New()
//
//	// CPU reference backend with a custom visibility oracle
//	f, err := restir.New(
//	    restir.WithBackend(backend.BackendSoftware),
//	    restir.WithVisibility(scene),
//	)
type Option func(*options)

// options holds optional configuration for Feature creation.
type options struct {
	settings    Settings
	backendName string
	logger      *slog.Logger
	cfg         backend.Config
}

// defaultOptions returns the default feature options.
func defaultOptions() options {
	return options{
		settings: DefaultSettings(),
	}
}

// WithSettings sets the initial settings. Values are clamped.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithBackend selects a registered backend by name instead of the best
// available one.
//
// Example:
//
//	import _ "github.com/gogpu/restir/backend/native"
//
//	f, err := restir.New(restir.WithBackend(backend.BackendNative))
func WithBackend(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithVisibility sets the shadow-ray oracle of the CPU backend.
func WithVisibility(v resampling.Visibility) Option {
	return func(o *options) {
		o.cfg.Visibility = v
	}
}

// WithWorkers sets the CPU worker count. Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithLogger installs l via SetLogger when the feature is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithResampleKernel sets the SPIR-V resampling kernel that GPU backends
// dispatch. GPU backends are not ready without one.
func WithResampleKernel(spirv []uint32) Option {
	return func(o *options) {
		o.cfg.ResampleKernel = spirv
	}
}

// WithCompiler overrides the WGSL compiler used by GPU backends.
func WithCompiler(compile func(wgsl string) ([]uint32, error)) Option {
	return func(o *options) {
		o.cfg.Compile = compile
	}
}

// WithDeviceProvider shares the GPU device of a host application, such as
// a gogpu window.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.cfg.Provider = p
	}
}

// WithAdapter runs GPU backends on an existing adapter.
func WithAdapter(a gpucore.GPUAdapter) Option {
	return func(o *options) {
		o.cfg.Adapter = a
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each adapter implementation
// maintains a mapping between IDs and actual backend resources.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	BufferUsageMapRead  BufferUsage = 1 << 0
	BufferUsageMapWrite BufferUsage = 1 << 1
	BufferUsageCopySrc  BufferUsage = 1 << 2
	BufferUsageCopyDst  BufferUsage = 1 << 3
	BufferUsageUniform  BufferUsage = 1 << 6
	BufferUsageStorage  BufferUsage = 1 << 7
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a storage buffer binding (read-write).
	BindingTypeStorageBuffer

	// BindingTypeReadOnlyStorageBuffer is a read-only storage buffer binding.
	BindingTypeReadOnlyStorageBuffer
)

// String returns the WGSL address space of the binding type.
func (t BindingType) String() string {
	switch t {
	case BindingTypeUniformBuffer:
		return "uniform"
	case BindingTypeStorageBuffer:
		return "storage, read_write"
	case BindingTypeReadOnlyStorageBuffer:
		return "storage, read"
	default:
		return "unknown"
	}
}

// Light preparation shader bindings, group 0.
const (
	BindingPrepareConstants uint32 = iota
	BindingTaskBuffer
	BindingLightVertexBuffer
	BindingLightIndexBuffer
	BindingTriangleTaskBuffer
	BindingEmissiveTexels
	BindingLightDataBuffer
)

// Resampling kernel bindings, group 0.
const (
	ResampleConstants uint32 = iota
	ResampleLightDataBuffer
	ResampleGeometryInstanceToLight
	ResampleNeighborOffsets
	ResampleLightReservoirs
	ResampleShadingOutput
	ResamplePreviousGBuffer0
	ResamplePreviousGBuffer1
	ResamplePreviousGBuffer2
	ResamplePreviousDepth
	ResampleGBuffer0
	ResampleGBuffer1
	ResampleGBuffer2
	ResampleDepth
	ResampleCamera
)

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains the compute shader.
	ShaderModule ShaderModuleID

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	Binding uint32
	Type    BindingType

	// MinBindingSize is the minimum buffer size, 0 for no minimum.
	MinBindingSize uint64
}

// BindGroupEntry binds a buffer range to a slot.
type BindGroupEntry struct {
	Binding uint32
	Buffer  BufferID
	Offset  uint64

	// Size is the bound range; 0 binds the rest of the buffer.
	Size uint64
}

// AdapterCapabilities describes GPU adapter capabilities.
type AdapterCapabilities struct {
	SupportsCompute bool

	MaxWorkgroupSizeX       uint32
	MaxWorkgroupSizeY       uint32
	MaxWorkgroupSizeZ       uint32
	MaxWorkgroupInvocations uint32

	MaxBufferSize                    uint64
	MaxStorageBufferBindingSize      uint64
	MaxComputeWorkgroupsPerDimension uint32
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/restir/gpucore"
)

// minBufferSize keeps empty inputs bindable.
const minBufferSize = 16

// role names one buffer of the resource set.
type role int

const (
	rolePrepareConstants role = iota
	roleTasks
	roleVertices
	roleIndices
	roleTriangleTasks
	roleTexels
	roleLightData
	roleGeometryToLight
	roleResampleConstants
	roleNeighborOffsets
	roleReservoirs
	roleShading
	roleGBuffer0
	roleGBuffer1
	roleGBuffer2
	roleDepth
	roleCamera
	numRoles
)

var roleLabels = [numRoles]string{
	"restir-prepare-constants",
	"restir-tasks",
	"restir-light-vertices",
	"restir-light-indices",
	"restir-triangle-tasks",
	"restir-emissive-texels",
	"restir-light-data",
	"restir-geometry-instance-to-light",
	"restir-resample-constants",
	"restir-neighbor-offsets",
	"restir-light-reservoirs",
	"restir-shading-output",
	"restir-gbuffer0",
	"restir-gbuffer1",
	"restir-gbuffer2",
	"restir-depth",
	"restir-camera",
}

func (r role) String() string {
	if r < 0 || r >= numRoles {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleLabels[r]
}

func (r role) usage() gpucore.BufferUsage {
	switch r {
	case rolePrepareConstants, roleResampleConstants, roleCamera:
		return gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst
	default:
		return gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst | gpucore.BufferUsageCopySrc
	}
}

// Buffer is a GPU buffer and its byte size.
type Buffer struct {
	ID   gpucore.BufferID
	Size int
}

// resources owns the role buffers. A buffer is recreated only when its
// size changes; every recreation bumps generation so bind groups that
// reference the old buffer get rebuilt.
type resources struct {
	adapter    gpucore.GPUAdapter
	bufs       [numRoles]Buffer
	generation uint64
}

func newResources(adapter gpucore.GPUAdapter) *resources {
	return &resources{adapter: adapter}
}

// ensure returns the buffer for r sized to size bytes.
func (s *resources) ensure(r role, size int) (gpucore.BufferID, error) {
	size = max(size, minBufferSize)
	b := &s.bufs[r]
	if b.ID != gpucore.InvalidID && b.Size == size {
		return b.ID, nil
	}
	if uint64(size) > s.adapter.MaxBufferSize() {
		return gpucore.InvalidID, fmt.Errorf("%w: %s needs %d bytes", ErrBufferTooLarge, r, size)
	}
	if b.ID != gpucore.InvalidID {
		slogger().Debug("gpu: reallocate buffer", "buffer", r.String(), "old", b.Size, "new", size)
		s.adapter.DestroyBuffer(b.ID)
		*b = Buffer{}
	}
	id, err := s.adapter.CreateBuffer(size, r.usage(), r.String())
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("gpu: create %s: %w", r, err)
	}
	*b = Buffer{ID: id, Size: size}
	s.generation++
	return id, nil
}

// upload sizes the buffer for data and writes it.
func (s *resources) upload(r role, data []byte) (gpucore.BufferID, error) {
	id, err := s.ensure(r, len(data))
	if err != nil {
		return gpucore.InvalidID, err
	}
	if len(data) > 0 {
		s.adapter.WriteBuffer(id, 0, data)
	}
	return id, nil
}

func (s *resources) get(r role) Buffer { return s.bufs[r] }

func (s *resources) destroy() {
	for i := range s.bufs {
		if s.bufs[i].ID != gpucore.InvalidID {
			s.adapter.DestroyBuffer(s.bufs[i].ID)
			s.bufs[i] = Buffer{}
		}
	}
}

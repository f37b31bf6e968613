// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/restir/gpucore"
	"github.com/gogpu/restir/history"
)

// bufferCopier copies G-buffer buffers into history buffers with
// GPUAdapter.CopyBuffer. A history buffer is recreated only when the
// source size differs.
type bufferCopier struct {
	s *resources
}

var _ history.Copier[Buffer] = bufferCopier{}

const historyUsage = gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst | gpucore.BufferUsageCopySrc

func (c bufferCopier) Copy(dst, src Buffer) (Buffer, error) {
	if src.ID == gpucore.InvalidID {
		return dst, fmt.Errorf("%w: source buffer not allocated", history.ErrMissingTarget)
	}
	if dst.ID == gpucore.InvalidID || dst.Size != src.Size {
		id, err := c.s.adapter.CreateBuffer(src.Size, historyUsage, "restir-history")
		if err != nil {
			return dst, fmt.Errorf("gpu: create history buffer: %w", err)
		}
		c.Release(dst)
		dst = Buffer{ID: id, Size: src.Size}
		c.s.generation++
	}
	c.s.adapter.CopyBuffer(src.ID, dst.ID, uint64(src.Size))
	return dst, nil
}

func (c bufferCopier) Release(b Buffer) {
	if b.ID == gpucore.InvalidID {
		return
	}
	c.s.adapter.DestroyBuffer(b.ID)
	c.s.generation++
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	offsetsOnce sync.Once
	offsets     []mgl32.Vec2
)

// NeighborOffsets returns the spatial sample offsets: an R2 low-discrepancy
// sequence restricted to the unit-diameter disc around the pixel, scaled to
// [-1,1). The table is built once and shared.
func NeighborOffsets() []mgl32.Vec2 {
	offsetsOnce.Do(func() {
		offsets = buildNeighborOffsets(NeighborOffsetCount)
	})
	return offsets
}

func buildNeighborOffsets(n int) []mgl32.Vec2 {
	const phi2 = 1.0 / 1.3247179572447
	out := make([]mgl32.Vec2, 0, n)
	u, v := 0.5, 0.5
	for len(out) < n {
		u += phi2
		v += phi2 * phi2
		if u >= 1 {
			u--
		}
		if v >= 1 {
			v--
		}
		r2 := (u-0.5)*(u-0.5) + (v-0.5)*(v-0.5)
		if r2 > 0.25 {
			continue
		}
		out = append(out, mgl32.Vec2{
			float32((u - 0.5) * 250 / 128),
			float32((v - 0.5) * 250 / 128),
		})
	}
	return out
}

// NeighborOffsetsBytes encodes the table as float32 pairs.
func NeighborOffsetsBytes() []byte {
	table := NeighborOffsets()
	buf := make([]byte, 0, len(table)*8)
	for _, o := range table {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(o[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(o[1]))
	}
	return buf
}

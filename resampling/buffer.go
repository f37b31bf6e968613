// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

// Buffer is the CPU copy of the triple-buffered reservoir storage, laid out
// exactly like the GPU buffer.
type Buffer struct {
	Width, Height uint32
	Params        ReservoirBufferParams
	data          []PackedReservoir
}

// NewBuffer allocates empty reservoirs for a width×height image.
func NewBuffer(width, height uint32) *Buffer {
	p := NewReservoirBufferParams(width, height)
	return &Buffer{
		Width:  width,
		Height: height,
		Params: p,
		data:   make([]PackedReservoir, p.ReservoirCount()),
	}
}

// Len returns the number of reservoirs across all slots.
func (b *Buffer) Len() int { return len(b.data) }

// Pointer returns the element index of reservoir position (x, y) in slot.
func (b *Buffer) Pointer(x, y, slot uint32) uint32 {
	return ReservoirPointer(b.Params, x, y, slot)
}

// ReservoirPointer maps a reservoir position to its element index: slots
// are arrayPitch apart, 16×16 blocks are 256 apart within a block row, and
// positions inside a block are row-major.
func ReservoirPointer(p ReservoirBufferParams, x, y, slot uint32) uint32 {
	blockX, blockY := x/ReservoirBlockSize, y/ReservoirBlockSize
	inX, inY := x%ReservoirBlockSize, y%ReservoirBlockSize
	return slot*p.ReservoirArrayPitch +
		blockY*p.ReservoirBlockRowPitch +
		blockX*ReservoirBlockSize*ReservoirBlockSize +
		inY*ReservoirBlockSize + inX
}

// Load returns the reservoir at position (x, y) of slot.
func (b *Buffer) Load(x, y, slot uint32) Reservoir {
	return b.data[b.Pointer(x, y, slot)].Unpack()
}

// Store writes r at position (x, y) of slot.
func (b *Buffer) Store(x, y, slot uint32, r Reservoir) {
	b.data[b.Pointer(x, y, slot)] = r.Pack()
}

// Clear empties every slot.
func (b *Buffer) Clear() {
	clear(b.data)
}

// Bytes returns the GPU encoding of all slots.
func (b *Buffer) Bytes() []byte {
	buf := make([]byte, 0, len(b.data)*ReservoirSize)
	for _, p := range b.data {
		buf = p.AppendBytes(buf)
	}
	return buf
}

// PixelToReservoir maps a pixel to its reservoir position. Checkerboard
// fields store one reservoir per pixel pair.
func PixelToReservoir(x, y, field uint32) (uint32, uint32) {
	if field == 0 {
		return x, y
	}
	return x >> 1, y
}

// ReservoirToPixel maps a reservoir position to the active pixel of field.
func ReservoirToPixel(x, y, field uint32) (uint32, uint32) {
	if field == 0 {
		return x, y
	}
	return x<<1 + (y+field)&1, y
}

// ActivateCheckerboardPixel moves a pixel onto the active field. With
// previousFrame set, the previous frame's field is used instead.
func ActivateCheckerboardPixel(x, y int, previousFrame bool, field uint32) (int, int) {
	if field == 0 {
		return x, y
	}
	f := int(field)
	if previousFrame {
		f = 3 - f
	}
	if (x+y+f)&1 != 0 {
		x ^= 1
	}
	return x, y
}

// IsActivePixel reports whether pixel (x, y) is shaded under field.
func IsActivePixel(x, y int, field uint32) bool {
	return field == 0 || (x+y+int(field))&1 == 0
}

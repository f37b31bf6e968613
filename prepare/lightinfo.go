// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prepare

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/internal/pack"
)

// LightInfoSize is the byte size of one LightInfo on the GPU.
const LightInfoSize = 32

// ErrShortBuffer is returned when decoding a truncated light record buffer.
var ErrShortBuffer = errors.New("prepare: light data buffer is not a whole number of records")

// LightInfo is the packed record of one triangle light.
//
// Scalars holds the two edge lengths as halves, Radiance holds RGBA16F and
// the direction words hold the octahedral edge directions.
type LightInfo struct {
	Center     mgl32.Vec3
	Scalars    uint32
	Radiance   [2]uint32
	Direction1 uint32
	Direction2 uint32
}

// EncodeTriangle packs a world-space triangle and its emitted radiance.
func EncodeTriangle(v0, v1, v2, radiance mgl32.Vec3) LightInfo {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	return LightInfo{
		Center:     v0.Add(v1).Add(v2).Mul(1.0 / 3),
		Scalars:    pack.Half2(e1.Len(), e2.Len()),
		Radiance:   pack.RGBA16F(radiance[0], radiance[1], radiance[2], 0),
		Direction1: pack.EncodeOct(safeNormalize(e1)),
		Direction2: pack.EncodeOct(safeNormalize(e2)),
	}
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return v.Mul(1 / l)
}

// Decode unpacks the record into triangle geometry.
func (l LightInfo) Decode() TriangleLight {
	len1, len2 := pack.UnpackHalf2(l.Scalars)
	e1 := pack.DecodeOct(l.Direction1).Mul(len1)
	e2 := pack.DecodeOct(l.Direction2).Mul(len2)
	rad := pack.UnpackRGBA16F(l.Radiance)

	tri := TriangleLight{
		Base:     l.Center.Sub(e1.Add(e2).Mul(1.0 / 3)),
		Edge1:    e1,
		Edge2:    e2,
		Radiance: mgl32.Vec3{rad[0], rad[1], rad[2]},
	}
	c := e1.Cross(e2)
	if cl := c.Len(); cl > 0 {
		tri.Normal = c.Mul(1 / cl)
		tri.Area = cl / 2
	}
	return tri
}

// AppendBytes appends the little-endian GPU encoding of l.
func (l LightInfo) AppendBytes(dst []byte) []byte {
	for _, f := range l.Center {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	dst = binary.LittleEndian.AppendUint32(dst, l.Scalars)
	dst = binary.LittleEndian.AppendUint32(dst, l.Radiance[0])
	dst = binary.LittleEndian.AppendUint32(dst, l.Radiance[1])
	dst = binary.LittleEndian.AppendUint32(dst, l.Direction1)
	return binary.LittleEndian.AppendUint32(dst, l.Direction2)
}

// LightInfosBytes encodes a record slice.
func LightInfosBytes(ls []LightInfo) []byte {
	buf := make([]byte, 0, len(ls)*LightInfoSize)
	for _, l := range ls {
		buf = l.AppendBytes(buf)
	}
	return buf
}

// ParseLightInfos decodes a buffer read back from the GPU.
func ParseLightInfos(b []byte) ([]LightInfo, error) {
	if len(b)%LightInfoSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(b))
	}
	out := make([]LightInfo, len(b)/LightInfoSize)
	le := binary.LittleEndian
	for i := range out {
		r := b[i*LightInfoSize:]
		out[i] = LightInfo{
			Center: mgl32.Vec3{
				math.Float32frombits(le.Uint32(r[0:])),
				math.Float32frombits(le.Uint32(r[4:])),
				math.Float32frombits(le.Uint32(r[8:])),
			},
			Scalars:    le.Uint32(r[12:]),
			Radiance:   [2]uint32{le.Uint32(r[16:]), le.Uint32(r[20:])},
			Direction1: le.Uint32(r[24:]),
			Direction2: le.Uint32(r[28:]),
		}
	}
	return out, nil
}

// String formats the decoded record for debug dumps.
func (l LightInfo) String() string {
	t := l.Decode()
	return fmt.Sprintf("center=%v edge1=%v edge2=%v radiance=%v", l.Center, t.Edge1, t.Edge2, t.Radiance)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/internal/pack"
)

const (
	lightValidBit  = 0x80000000
	lightIndexMask = 0x7fffffff

	visibilityMask = 0x3ffff
	mShift         = 18

	// MaxM is the largest sample count a packed reservoir can hold.
	MaxM = 0x3fff

	// MaxAge is the oldest a reservoir may get before temporal reuse drops
	// it.
	MaxAge = 30

	// ReservoirSize is the byte size of a PackedReservoir.
	ReservoirSize = 24
)

// Reservoir is the working form of a light sample reservoir.
//
// Until Finalize, WeightSum is the running sum of resampling weights; after
// it, WeightSum is the unbiased contribution weight W of the selected
// sample.
type Reservoir struct {
	LightData uint32
	UV        mgl32.Vec2
	TargetPdf float32
	WeightSum float32
	M         uint32

	Visible         bool
	SpatialDistance [2]int8
	Age             uint32
}

// EmptyReservoir returns a reservoir with no sample.
func EmptyReservoir() Reservoir { return Reservoir{} }

// Valid reports whether a sample is selected.
func (r *Reservoir) Valid() bool { return r.LightData&lightValidBit != 0 }

// LightIndex returns the selected light.
func (r *Reservoir) LightIndex() uint32 { return r.LightData & lightIndexMask }

// Stream adds one candidate with a precomputed resampling weight and
// reports whether it was selected.
func (r *Reservoir) Stream(lightIndex uint32, uv mgl32.Vec2, random, targetPdf, risWeight float32) bool {
	r.M++
	r.WeightSum += risWeight
	if random*r.WeightSum < risWeight {
		r.LightData = lightIndex | lightValidBit
		r.UV = uv
		r.TargetPdf = targetPdf
		r.Visible = true
		r.SpatialDistance = [2]int8{}
		r.Age = 0
		return true
	}
	return false
}

// StreamSample adds a candidate drawn with pdf 1/invSourcePdf.
func (r *Reservoir) StreamSample(lightIndex uint32, uv mgl32.Vec2, random, targetPdf, invSourcePdf float32) bool {
	return r.Stream(lightIndex, uv, random, targetPdf, targetPdf*invSourcePdf)
}

// Combine merges a finalized reservoir whose sample has targetPdf at the
// receiving surface, and reports whether its sample was selected.
func (r *Reservoir) Combine(src Reservoir, random, targetPdf float32) bool {
	risWeight := targetPdf * src.WeightSum * float32(src.M)
	r.M += src.M
	r.WeightSum += risWeight
	if random*r.WeightSum < risWeight {
		r.LightData = src.LightData
		r.UV = src.UV
		r.TargetPdf = targetPdf
		r.Visible = src.Visible
		r.SpatialDistance = src.SpatialDistance
		r.Age = src.Age
		return true
	}
	return false
}

// Finalize turns the weight sum into the contribution weight
// WeightSum*numerator/(TargetPdf*denominator), or 0 when that is undefined.
func (r *Reservoir) Finalize(numerator, denominator float32) {
	d := r.TargetPdf * denominator
	if d == 0 || math32.IsNaN(d) || math32.IsInf(r.WeightSum, 0) {
		r.WeightSum = 0
		return
	}
	r.WeightSum = r.WeightSum * numerator / d
}

// PackedReservoir is the 24-byte GPU layout of a reservoir.
type PackedReservoir struct {
	LightData   uint32
	UVData      uint32
	MVisibility uint32
	DistanceAge uint32
	TargetPdf   float32
	Weight      float32
}

// Pack encodes r. M saturates at MaxM and the age at 255.
func (r Reservoir) Pack() PackedReservoir {
	var vis uint32
	if r.Visible {
		vis = visibilityMask
	}
	age := min(r.Age, 0xff)
	return PackedReservoir{
		LightData:   r.LightData,
		UVData:      pack.Unorm16x2(r.UV[0], r.UV[1]),
		MVisibility: vis | min(r.M, MaxM)<<mShift,
		DistanceAge: uint32(uint8(r.SpatialDistance[0])) | uint32(uint8(r.SpatialDistance[1]))<<8 | age<<16,
		TargetPdf:   r.TargetPdf,
		Weight:      r.WeightSum,
	}
}

// Unpack decodes p. Non-finite weights yield an empty reservoir.
func (p PackedReservoir) Unpack() Reservoir {
	if math32.IsNaN(p.Weight) || math32.IsInf(p.Weight, 0) || p.Weight < 0 {
		return EmptyReservoir()
	}
	u, v := pack.UnpackUnorm16x2(p.UVData)
	return Reservoir{
		LightData:       p.LightData,
		UV:              mgl32.Vec2{u, v},
		TargetPdf:       p.TargetPdf,
		WeightSum:       p.Weight,
		M:               p.MVisibility >> mShift,
		Visible:         p.MVisibility&visibilityMask != 0,
		SpatialDistance: [2]int8{int8(p.DistanceAge & 0xff), int8(p.DistanceAge >> 8 & 0xff)},
		Age:             p.DistanceAge >> 16 & 0xff,
	}
}

// AppendBytes appends the little-endian encoding of p.
func (p PackedReservoir) AppendBytes(dst []byte) []byte {
	le := binary.LittleEndian
	dst = le.AppendUint32(dst, p.LightData)
	dst = le.AppendUint32(dst, p.UVData)
	dst = le.AppendUint32(dst, p.MVisibility)
	dst = le.AppendUint32(dst, p.DistanceAge)
	dst = le.AppendUint32(dst, math.Float32bits(p.TargetPdf))
	return le.AppendUint32(dst, math.Float32bits(p.Weight))
}

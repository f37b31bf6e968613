// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resampling

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/internal/parallel"
	"github.com/gogpu/restir/prepare"
)

// maxSamples bounds every per-pixel candidate loop.
const maxSamples = 16

// rowsPerTask is the number of reservoir rows one pool task processes.
const rowsPerTask = 4

// surfaceBias offsets shadow ray origins off the surface.
const surfaceBias = 1e-3

// ErrNoGBuffer is returned when Resample is called without a G-buffer.
var ErrNoGBuffer = errors.New("resampling: missing G-buffer")

// Input is everything one frame of resampling reads.
type Input struct {
	Constants Constants
	Settings  Settings
	Lights    []prepare.LightInfo

	GBuffer *frame.GBuffer
	Camera  frame.Camera

	// PrevGBuffer is the previous frame's G-buffer, nil until history is
	// ready.
	PrevGBuffer *frame.GBuffer
	PrevCamera  frame.Camera
}

// Engine runs the resampling protocol on the CPU. It owns the reservoir
// buffer and the shading target, both reallocated when the frame size
// changes.
//
// An Engine is driven by one goroutine at a time.
type Engine struct {
	pool    *parallel.Pool
	vis     Visibility
	buf     *Buffer
	shading *frame.Target
}

// NewEngine returns an Engine using pool for parallel passes. A nil vis
// treats all samples as visible.
func NewEngine(pool *parallel.Pool, vis Visibility) *Engine {
	if vis == nil {
		vis = Unoccluded{}
	}
	return &Engine{pool: pool, vis: vis}
}

// Reservoirs returns the reservoir buffer, nil before the first frame.
func (e *Engine) Reservoirs() *Buffer { return e.buf }

// Shading returns the last shading output, nil before the first frame.
func (e *Engine) Shading() *frame.Target { return e.shading }

// Release drops the reservoir buffer and shading target.
func (e *Engine) Release() {
	e.buf = nil
	e.shading = nil
}

type surfaceSlot struct {
	s  frame.Surface
	ok bool
}

// frameCtx is the per-frame state shared by all pixels.
type frameCtx struct {
	in       *Input
	c        *Constants
	prev     *frame.GBuffer
	width    int
	height   int
	field    uint32
	tris     []prepare.TriangleLight
	sampler  *LightSampler
	surfaces []surfaceSlot
	offsets  []mgl32.Vec2
}

func (f *frameCtx) surface(x, y int) (*frame.Surface, bool) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return nil, false
	}
	slot := &f.surfaces[y*f.width+x]
	return &slot.s, slot.ok
}

// Resample runs initial sampling, temporal and spatial reuse and final
// shading for every active pixel, and returns the shading target. Pixels
// outside the active checkerboard field keep their previous shading.
//
// When the frame size differs from the previous G-buffer or from the
// reservoir buffer, the history is ignored and the frame runs with
// EnableResampling = 0.
func (e *Engine) Resample(ctx context.Context, in *Input) (*frame.Target, error) {
	if in == nil || in.GBuffer == nil {
		return nil, ErrNoGBuffer
	}
	if err := in.GBuffer.Validate(); err != nil {
		return nil, fmt.Errorf("resampling: %w", err)
	}
	w, h := in.GBuffer.Size()
	c := in.Constants
	prev := in.PrevGBuffer
	if prev != nil {
		if pw, ph := prev.Size(); pw != w || ph != h {
			prev = nil
		}
	}
	if e.buf == nil || e.buf.Width != uint32(w) || e.buf.Height != uint32(h) {
		e.buf = NewBuffer(uint32(w), uint32(h))
		e.shading = frame.NewTarget(w, h)
		prev = nil
	}
	if prev == nil {
		c.EnableResampling = 0
	}

	f := &frameCtx{
		in:       in,
		c:        &c,
		prev:     prev,
		width:    w,
		height:   h,
		field:    in.Constants.RuntimeParams.ActiveCheckerboardField,
		tris:     make([]prepare.TriangleLight, len(in.Lights)),
		surfaces: make([]surfaceSlot, w*h),
		offsets:  NeighborOffsets(),
	}
	for i, l := range in.Lights {
		f.tris[i] = l.Decode()
	}
	f.sampler = NewLightSampler(f.tris)

	err := e.pool.ForRange(ctx, h, rowsPerTask, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := range w {
				s, ok := in.GBuffer.Surface(x, y, in.Camera)
				f.surfaces[y*w+x] = surfaceSlot{s: s, ok: ok}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	reservoirWidth := w
	if f.field != 0 {
		reservoirWidth = (w + 1) / 2
	}

	err = e.pool.ForRange(ctx, h, rowsPerTask, func(lo, hi int) {
		pcg := rand.NewPCG(0, 0)
		rng := rand.New(pcg)
		for ry := lo; ry < hi; ry++ {
			for rx := range reservoirWidth {
				e.presample(f, pcg, rng, uint32(rx), uint32(ry))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	err = e.pool.ForRange(ctx, h, rowsPerTask, func(lo, hi int) {
		pcg := rand.NewPCG(0, 0)
		rng := rand.New(pcg)
		for ry := lo; ry < hi; ry++ {
			for rx := range reservoirWidth {
				e.resolve(f, pcg, rng, uint32(rx), uint32(ry))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return e.shading, nil
}

const (
	passPresample = 1
	passResolve   = 2
)

func seed(pcg *rand.PCG, x, y int, frameIndex uint32, pass uint64) {
	pcg.Seed(uint64(x)<<32|uint64(y), uint64(frameIndex)<<8|pass)
}

// presample runs initial sampling and temporal reuse for one reservoir and
// stores the result in the scratch slot.
func (e *Engine) presample(f *frameCtx, pcg *rand.PCG, rng *rand.Rand, rx, ry uint32) {
	px, py := ReservoirToPixel(rx, ry, f.field)
	s, ok := f.surface(int(px), int(py))
	if !ok {
		if int(px) < f.width {
			e.buf.Store(rx, ry, ScratchBufferIndex, EmptyReservoir())
		}
		return
	}
	seed(pcg, int(px), int(py), f.c.FrameIndex, passPresample)

	r := f.initialSample(s, rng)
	if f.c.EnableResampling != 0 {
		r = e.temporal(f, s, r, rng)
	}
	e.buf.Store(rx, ry, ScratchBufferIndex, r)
}

// resolve runs spatial reuse and final shading for one reservoir and
// stores the result in the output slot.
func (e *Engine) resolve(f *frameCtx, pcg *rand.PCG, rng *rand.Rand, rx, ry uint32) {
	px, py := ReservoirToPixel(rx, ry, f.field)
	if int(px) >= f.width {
		return
	}
	s, ok := f.surface(int(px), int(py))
	if !ok {
		e.buf.Store(rx, ry, f.c.OutputBufferIndex, EmptyReservoir())
		e.shading.Set(int(px), int(py), mgl32.Vec4{0, 0, 0, 1})
		return
	}
	seed(pcg, int(px), int(py), f.c.FrameIndex, passResolve)

	r := e.buf.Load(rx, ry, ScratchBufferIndex)
	if f.c.EnableResampling != 0 && f.c.NumSpatialSamples > 0 {
		r = e.spatial(f, int(px), int(py), s, r, rng)
	}
	color, r := e.shade(f, s, r)
	e.buf.Store(rx, ry, f.c.OutputBufferIndex, r)
	e.shading.Set(int(px), int(py), color.Vec4(1))
}

// sampleEval is a light sample evaluated at one surface.
type sampleEval struct {
	contrib mgl32.Vec3
	target  float32
	point   mgl32.Vec3
	dir     mgl32.Vec3
	dist2   float32
	cosL    float32
}

// eval evaluates the sample (light, uv) at s. The target pdf is the
// luminance of the unshadowed contribution.
func (f *frameCtx) eval(s *frame.Surface, light uint32, uv mgl32.Vec2) sampleEval {
	if int(light) >= len(f.tris) {
		return sampleEval{}
	}
	tri := &f.tris[light]
	y := tri.PointAt(uv[0], uv[1])
	d := y.Sub(s.Position)
	dist2 := d.Dot(d)
	if dist2 <= 0 {
		return sampleEval{}
	}
	dir := d.Mul(1 / math32.Sqrt(dist2))
	cosL := -tri.Normal.Dot(dir)
	if cosL <= 0 {
		return sampleEval{point: y, dir: dir, dist2: dist2}
	}
	brdf := ShadeBRDF(s, dir)
	g := cosL / dist2
	contrib := mgl32.Vec3{
		tri.Radiance[0] * brdf[0] * g,
		tri.Radiance[1] * brdf[1] * g,
		tri.Radiance[2] * brdf[2] * g,
	}
	return sampleEval{
		contrib: contrib,
		target:  max(0, prepare.Luminance(contrib)),
		point:   y,
		dir:     dir,
		dist2:   dist2,
		cosL:    cosL,
	}
}

// lightPdf is the area density of light sampling at a point of light.
func (f *frameCtx) lightPdf(light uint32) float32 {
	area := f.tris[light].Area
	if area <= 0 {
		return 0
	}
	return f.sampler.Pmf(int(light)) / area
}

// brdfPdf is the area density of BRDF sampling at ev's point.
func brdfPdf(s *frame.Surface, ev *sampleEval) float32 {
	if ev.cosL <= 0 || ev.dist2 <= 0 {
		return 0
	}
	return cosineHemispherePdf(s.Normal, ev.dir) * ev.cosL / ev.dist2
}

// trace returns the nearest light hit by the ray, as a light index and the
// reservoir random pair that regenerates the hit point.
func (f *frameCtx) trace(origin, dir mgl32.Vec3) (uint32, mgl32.Vec2, bool) {
	best := math32.Inf(1)
	hit := -1
	var b1, b2 float32
	for i := range f.tris {
		t, u, v, ok := f.tris[i].Intersect(origin, dir, surfaceBias, best)
		if ok {
			best, hit, b1, b2 = t, i, u, v
		}
	}
	if hit < 0 {
		return 0, mgl32.Vec2{}, false
	}
	r1, r2 := prepare.RandomFromBarycentrics(b1, b2)
	return uint32(hit), mgl32.Vec2{r1, r2}, true
}

func biasedOrigin(s *frame.Surface) mgl32.Vec3 {
	return s.Position.Add(s.Normal.Mul(surfaceBias))
}

// shade traces the final visibility ray and returns the pixel's radiance.
// Occluded samples are discarded so they do not feed later frames.
func (e *Engine) shade(f *frameCtx, s *frame.Surface, r Reservoir) (mgl32.Vec3, Reservoir) {
	if !r.Valid() || r.WeightSum <= 0 {
		return mgl32.Vec3{}, r
	}
	ev := f.eval(s, r.LightIndex(), r.UV)
	if ev.target <= 0 {
		return mgl32.Vec3{}, r
	}
	r.Visible = e.vis.Visible(biasedOrigin(s), ev.point)
	if !r.Visible {
		r.WeightSum = 0
		return mgl32.Vec3{}, r
	}
	return ev.contrib.Mul(r.WeightSum), r
}

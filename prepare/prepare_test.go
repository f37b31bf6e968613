// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prepare

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir/internal/parallel"
	"github.com/gogpu/restir/lights"
)

func near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func TestEncodeDecodeTriangle(t *testing.T) {
	v0 := mgl32.Vec3{1, 2, 3}
	v1 := mgl32.Vec3{3, 2, 3}
	v2 := mgl32.Vec3{1, 2, 1}
	info := EncodeTriangle(v0, v1, v2, mgl32.Vec3{5, 6, 7})
	tri := info.Decode()

	if !near(tri.Base, v0, 1e-2) {
		t.Errorf("Base = %v, want %v", tri.Base, v0)
	}
	if !near(tri.Base.Add(tri.Edge1), v1, 1e-2) {
		t.Errorf("v1 = %v, want %v", tri.Base.Add(tri.Edge1), v1)
	}
	if !near(tri.Base.Add(tri.Edge2), v2, 1e-2) {
		t.Errorf("v2 = %v, want %v", tri.Base.Add(tri.Edge2), v2)
	}
	if math.Abs(float64(tri.Area-2)) > 1e-2 {
		t.Errorf("Area = %v, want 2", tri.Area)
	}
	// cross((2,0,0), (0,0,-2)) = (0,4,0)
	if !near(tri.Normal, mgl32.Vec3{0, 1, 0}, 1e-3) {
		t.Errorf("Normal = %v, want +Y", tri.Normal)
	}
	if tri.Radiance != (mgl32.Vec3{5, 6, 7}) {
		t.Errorf("Radiance = %v, want (5,6,7)", tri.Radiance)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	v0, v1, v2 := mgl32.Vec3{0.1, 0.2, 0.3}, mgl32.Vec3{-4, 1, 2}, mgl32.Vec3{3, -3, 0.5}
	a := EncodeTriangle(v0, v1, v2, mgl32.Vec3{1, 1, 1})
	b := EncodeTriangle(v0, v1, v2, mgl32.Vec3{1, 1, 1})
	if a != b {
		t.Errorf("EncodeTriangle not deterministic: %+v vs %+v", a, b)
	}
}

func TestEncodeDegenerate(t *testing.T) {
	p := mgl32.Vec3{1, 1, 1}
	tri := EncodeTriangle(p, p, p, mgl32.Vec3{1, 1, 1}).Decode()
	if tri.Area != 0 {
		t.Errorf("degenerate Area = %v, want 0", tri.Area)
	}
	if tri.Power() != 0 {
		t.Errorf("degenerate Power = %v, want 0", tri.Power())
	}
}

func TestLightInfoBytes(t *testing.T) {
	in := []LightInfo{
		EncodeTriangle(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 2, 3}),
		EncodeTriangle(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{6, 5, 5}, mgl32.Vec3{5, 5, 6}, mgl32.Vec3{0, 0, 9}),
	}
	b := LightInfosBytes(in)
	if len(b) != 2*LightInfoSize {
		t.Fatalf("len = %d, want %d", len(b), 2*LightInfoSize)
	}
	out, err := ParseLightInfos(b)
	if err != nil {
		t.Fatalf("ParseLightInfos: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("record %d = %+v, want %+v", i, out[i], in[i])
		}
	}
	if _, err := ParseLightInfos(b[:33]); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("truncated buffer error = %v, want ErrShortBuffer", err)
	}
}

func TestDispatchGroups(t *testing.T) {
	tests := []struct{ n, want uint32 }{
		{0, 0}, {1, 1}, {12, 1}, {256, 1}, {257, 2}, {1000, 4},
	}
	for _, tt := range tests {
		if got := DispatchGroups(tt.n); got != tt.want {
			t.Errorf("DispatchGroups(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func newPreparer(t *testing.T) *Preparer {
	t.Helper()
	pool := parallel.NewPool(2)
	t.Cleanup(pool.Close)
	return NewPreparer(pool)
}

func TestPrepareCube(t *testing.T) {
	center := mgl32.Vec3{0, 3, 0}
	cube := lights.NewCube("cube", center, 2, mgl32.Vec3{10, 10, 10})
	var c lights.Collector
	res, err := newPreparer(t).Prepare(context.Background(), c.Collect([]lights.Source{cube}))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(res.Lights) != 12 || !res.HasLights() {
		t.Fatalf("got %d lights, want 12", len(res.Lights))
	}
	if res.DispatchGroups != 1 {
		t.Errorf("DispatchGroups = %d, want 1", res.DispatchGroups)
	}

	var area float32
	for i, l := range res.Lights {
		tri := l.Decode()
		area += tri.Area
		local := l.Center.Sub(center)
		for k := range 3 {
			if math.Abs(float64(local[k])) > 1.001 {
				t.Errorf("light %d center %v outside the cube", i, l.Center)
			}
		}
		if tri.Normal.Dot(local) <= 0 {
			t.Errorf("light %d normal %v faces inward", i, tri.Normal)
		}
		if tri.Radiance != (mgl32.Vec3{10, 10, 10}) {
			t.Errorf("light %d radiance = %v", i, tri.Radiance)
		}
	}
	if math.Abs(float64(area-24)) > 0.1 {
		t.Errorf("total area = %v, want 24", area)
	}
}

func TestPrepareEmpty(t *testing.T) {
	var c lights.Collector
	res, err := newPreparer(t).Prepare(context.Background(), c.Collect(nil))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if res.HasLights() || res.DispatchGroups != 0 {
		t.Errorf("empty prepare = %+v, want no lights and no dispatch", res)
	}
}

func TestPrepareTextured(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			tex.SetRGBA(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	quad := lights.NewQuad("q", mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{4, 4, 4})
	quad.Material.Texture = tex

	var c lights.Collector
	res, err := newPreparer(t).Prepare(context.Background(), c.Collect([]lights.Source{quad}))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for i, l := range res.Lights {
		if got := l.Decode().Radiance; got != (mgl32.Vec3{0, 4, 0}) {
			t.Errorf("light %d radiance = %v, want (0,4,0)", i, got)
		}
	}
}

func TestPrepareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var c lights.Collector
	col := c.Collect([]lights.Source{lights.NewCube("cube", mgl32.Vec3{}, 1, mgl32.Vec3{1, 1, 1})})
	if _, err := newPreparer(t).Prepare(ctx, col); !errors.Is(err, context.Canceled) {
		t.Errorf("Prepare error = %v, want context.Canceled", err)
	}
}

func TestTriangleSampling(t *testing.T) {
	tri := EncodeTriangle(mgl32.Vec3{}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{1, 1, 1}).Decode()
	for _, r := range [][2]float32{{0.1, 0.9}, {0.5, 0.5}, {0.99, 0.01}} {
		b1, b2 := UniformBarycentrics(r[0], r[1])
		if b1 < 0 || b2 < 0 || b1+b2 > 1 {
			t.Errorf("barycentrics (%v,%v) outside triangle", b1, b2)
		}
		r1, r2 := RandomFromBarycentrics(b1, b2)
		if math.Abs(float64(r1-r[0])) > 1e-4 || math.Abs(float64(r2-r[1])) > 1e-4 {
			t.Errorf("RandomFromBarycentrics = (%v,%v), want %v", r1, r2, r)
		}
	}

	p := tri.PointAt(0.25, 0.5)
	dist, b1, b2, ok := tri.Intersect(p.Add(mgl32.Vec3{0, 5, 0}), mgl32.Vec3{0, -1, 0}, 0, 100)
	if !ok {
		t.Fatal("ray through sampled point missed the triangle")
	}
	if math.Abs(float64(dist-5)) > 1e-3 {
		t.Errorf("hit distance = %v, want 5", dist)
	}
	if hit := tri.Base.Add(tri.Edge1.Mul(b1)).Add(tri.Edge2.Mul(b2)); !near(hit, p, 1e-3) {
		t.Errorf("hit point = %v, want %v", hit, p)
	}
	if _, _, _, ok := tri.Intersect(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, -1, 0}, 0, 100); ok {
		t.Error("ray beside the triangle reported a hit")
	}
}

func TestConstantsBytes(t *testing.T) {
	b := Constants{TotalTriangles: 12, NumTasks: 1, TextureLayers: 3}.Bytes()
	if len(b) != ConstantsSize {
		t.Fatalf("len = %d, want %d", len(b), ConstantsSize)
	}
	if b[0] != 12 || b[4] != 1 || b[16] != 3 {
		t.Errorf("unexpected encoding % x", b)
	}
}

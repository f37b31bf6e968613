// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testCamera(w, h int) Camera {
	return NewCamera(mgl32.Vec3{0, 3, 6}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 60, float32(w)/float32(h), 0.1, 100)
}

func TestCameraRoundTrip(t *testing.T) {
	cam := testCamera(64, 48)
	for _, p := range []mgl32.Vec3{{0, 0, 0}, {1, 0.5, -2}, {-2, 1, 1}} {
		px, py, depth, ok := cam.Project(p, 64, 48)
		if !ok {
			t.Fatalf("Project(%v) not ok", p)
		}
		got := cam.Unproject(px, py, depth, 64, 48)
		if got.Sub(p).Len() > 1e-2 {
			t.Errorf("Unproject(Project(%v)) = %v", p, got)
		}
	}
	if _, _, _, ok := cam.Project(mgl32.Vec3{0, 3, 20}, 64, 48); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestCameraCenterPixel(t *testing.T) {
	cam := testCamera(64, 48)
	px, py, _, _ := cam.Project(mgl32.Vec3{0, 0, 0}, 64, 48)
	if math.Abs(float64(px-32)) > 1e-3 || math.Abs(float64(py-24)) > 1e-3 {
		t.Errorf("look-at target projects to (%v, %v), want (32, 24)", px, py)
	}
}

func TestDrawPlaneSurfaces(t *testing.T) {
	const w, h = 32, 24
	cam := testCamera(w, h)
	g := NewGBuffer(w, h)
	DrawPlane(g, cam, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, Material{Albedo: mgl32.Vec3{0.5, 0.5, 0.5}, Roughness: 0.6})

	s, ok := g.Surface(w/2, h-1, cam)
	if !ok {
		t.Fatal("bottom center pixel should see the floor")
	}
	if math.Abs(float64(s.Position[1])) > 1e-2 {
		t.Errorf("floor position y = %v, want 0", s.Position[1])
	}
	if s.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Normal = %v, want +Y", s.Normal)
	}
	if s.View.Dot(s.Normal) <= 0 {
		t.Error("view vector should point above the floor")
	}
	if _, ok := g.Surface(w/2, 0, cam); ok {
		t.Error("top row looks above the horizon and should have no surface")
	}
	if _, ok := g.Surface(-1, 0, cam); ok {
		t.Error("out-of-range pixel returned a surface")
	}
}

func TestSurfaceMetallic(t *testing.T) {
	const w, h = 8, 8
	cam := testCamera(w, h)
	g := NewGBuffer(w, h)
	DrawPlane(g, cam, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, Material{
		Albedo:   mgl32.Vec3{1, 0, 0},
		Specular: mgl32.Vec3{0.04, 0.04, 0.04},
		Metallic: 1,
	})
	s, ok := g.Surface(4, 7, cam)
	if !ok {
		t.Fatal("no surface")
	}
	if s.Diffuse != (mgl32.Vec3{}) {
		t.Errorf("metal Diffuse = %v, want 0", s.Diffuse)
	}
	if s.F0 != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("metal F0 = %v, want albedo", s.F0)
	}
	if s.Roughness != MinRoughness {
		t.Errorf("Roughness = %v, want clamp to %v", s.Roughness, MinRoughness)
	}
}

func TestSimilar(t *testing.T) {
	a := Surface{Normal: mgl32.Vec3{0, 1, 0}, ViewDepth: 10}
	tests := []struct {
		name string
		b    Surface
		want bool
	}{
		{"same", a, true},
		{"depth 5%", Surface{Normal: a.Normal, ViewDepth: 10.5}, true},
		{"depth 20%", Surface{Normal: a.Normal, ViewDepth: 12.5}, false},
		{"normal 90deg", Surface{Normal: mgl32.Vec3{1, 0, 0}, ViewDepth: 10}, false},
	}
	for _, tt := range tests {
		if got := Similar(a, tt.b); got != tt.want {
			t.Errorf("%s: Similar = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGBufferValidate(t *testing.T) {
	g := NewGBuffer(4, 4)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	g.Depth = NewTarget(2, 2)
	if err := g.Validate(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Validate = %v, want ErrSizeMismatch", err)
	}
	g.Depth = nil
	if err := g.Validate(); !errors.Is(err, ErrIncompleteGBuffer) {
		t.Errorf("Validate = %v, want ErrIncompleteGBuffer", err)
	}
	var nilG *GBuffer
	if err := nilG.Validate(); !errors.Is(err, ErrIncompleteGBuffer) {
		t.Errorf("nil Validate = %v, want ErrIncompleteGBuffer", err)
	}
}

func TestTargetOps(t *testing.T) {
	a := NewTarget(2, 2)
	a.Fill(mgl32.Vec4{1, 2, 3, 1})
	b := a.CopyInto(nil)
	if err := b.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := b.At(1, 1); got != (mgl32.Vec4{2, 4, 6, 2}) {
		t.Errorf("At = %v, want (2,4,6,2)", got)
	}
	if got := b.Mean(); got != (mgl32.Vec3{2, 4, 6}) {
		t.Errorf("Mean = %v", got)
	}
	if err := b.Add(NewTarget(3, 3)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Add mismatched = %v, want ErrSizeMismatch", err)
	}
	img := a.ToImage(1)
	if img.Bounds().Dx() != 2 || img.RGBAAt(0, 0).A != 255 {
		t.Errorf("ToImage produced %v", img.Bounds())
	}
}

func TestDrawSphereOccludesPlane(t *testing.T) {
	const w, h = 16, 16
	cam := testCamera(w, h)
	g := NewGBuffer(w, h)
	DrawPlane(g, cam, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, Material{Albedo: mgl32.Vec3{1, 1, 1}})
	DrawSphere(g, cam, mgl32.Vec3{0, 0, 0}, 1, Material{Albedo: mgl32.Vec3{0, 1, 0}})

	px, py, _, _ := cam.Project(mgl32.Vec3{0, 0, 0}, w, h)
	s, ok := g.Surface(int(px), int(py), cam)
	if !ok {
		t.Fatal("no surface at sphere center")
	}
	if s.Diffuse != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("center pixel albedo = %v, want sphere green", s.Diffuse)
	}
}

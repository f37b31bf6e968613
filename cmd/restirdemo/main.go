// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command restirdemo renders an emissive cube over a floor with ReSTIR DI
// and writes the accumulated result as a PNG.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/restir"
	"github.com/gogpu/restir/backend"
	_ "github.com/gogpu/restir/backend/native"
	"github.com/gogpu/restir/frame"
	"github.com/gogpu/restir/internal/gpu"
	"github.com/gogpu/restir/lights"
)

func main() {
	var (
		width    = flag.Int("width", 320, "image width")
		height   = flag.Int("height", 240, "image height")
		frames   = flag.Int("frames", 8, "frames to render")
		output   = flag.String("out", "restir.png", "output file")
		config   = flag.String("config", "", "TOML settings file")
		name     = flag.String("backend", backend.BackendSoftware, "backend name ("+backend.BackendSoftware+" or "+backend.BackendNative+")")
		kernel   = flag.String("kernel", "", "SPIR-V resampling kernel for the native backend")
		exposure = flag.Float64("exposure", 1, "tone mapping exposure")
		verbose  = flag.Bool("v", false, "debug logging and light data dump")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings := restir.DefaultSettings()
	if *config != "" {
		f, err := os.Open(*config)
		if err != nil {
			log.Fatalf("Failed to open config: %v", err)
		}
		settings, err = restir.LoadSettings(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	opts := []restir.Option{
		restir.WithSettings(settings),
		restir.WithBackend(*name),
		restir.WithLogger(logger),
	}
	if *kernel != "" {
		data, err := os.ReadFile(*kernel)
		if err != nil {
			log.Fatalf("Failed to read kernel: %v", err)
		}
		words, err := gpu.SPIRVWords(data)
		if err != nil {
			log.Fatalf("Invalid kernel: %v", err)
		}
		opts = append(opts, restir.WithResampleKernel(words))
	}

	feature, err := restir.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create feature: %v", err)
	}
	defer feature.Close()
	if err := feature.Err(); err != nil {
		log.Fatalf("Feature not executable: %v", err)
	}

	in, ambient := buildScene(*width, *height)
	result := frame.NewTarget(*width, *height)
	ctx := context.Background()

	for i := range *frames {
		in.SceneColor = ambient.CopyInto(in.SceneColor)
		report, err := feature.RenderFrame(ctx, in)
		if err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		if !report.Executable {
			logger.Warn("frame skipped", "frame", report.FrameIndex, "reason", report.Reason)
			continue
		}
		logger.Debug("frame rendered",
			"frame", report.FrameIndex,
			"lights", report.TotalTriangles,
			"history", report.HistoryReady,
			"mean", report.Shading.Mean())
		// Keep the last frame; temporal reuse has converged by then.
		result = in.SceneColor.CopyInto(result)
	}

	if *verbose {
		if _, err := feature.DebugLightData(ctx); err != nil {
			logger.Warn("light data readback failed", "err", err)
		}
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer out.Close()
	if err := png.Encode(out, result.ToImage(float32(*exposure))); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Rendered %d frames to %s (%dx%d, backend %s)\n", *frames, *output, *width, *height, feature.Backend())
}

// buildScene lays out a gray floor, a sphere and an orange emissive cube,
// and returns the frame input with a faint ambient term as scene color.
func buildScene(w, h int) (*restir.FrameInput, *frame.Target) {
	cam := frame.NewCamera(mgl32.Vec3{0, 2.5, 4}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0}, 55, float32(w)/float32(h), 0.1, 100)
	g := frame.NewGBuffer(w, h)
	frame.DrawPlane(g, cam, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, frame.Material{
		Albedo:    mgl32.Vec3{0.7, 0.7, 0.7},
		Specular:  mgl32.Vec3{0.04, 0.04, 0.04},
		Roughness: 0.8,
	})
	frame.DrawSphere(g, cam, mgl32.Vec3{-0.9, 0.5, 0}, 0.5, frame.Material{
		Albedo:    mgl32.Vec3{0.2, 0.4, 0.8},
		Specular:  mgl32.Vec3{0.3, 0.3, 0.3},
		Roughness: 0.3,
	})

	cube := lights.NewCube("lamp", mgl32.Vec3{0.6, 1.4, 0}, 0.4, mgl32.Vec3{12, 6, 2})

	ambient := frame.NewTarget(w, h)
	for y := range h {
		for x := range w {
			a := g.Albedo.At(x, y)
			ambient.Set(x, y, mgl32.Vec4{a[0] * 0.02, a[1] * 0.02, a[2] * 0.02, 1})
		}
	}
	return &restir.FrameInput{
		Lights:  []lights.Source{cube},
		GBuffer: g,
		Camera:  cam,
	}, ambient
}

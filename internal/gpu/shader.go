// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/restir/internal/cache"
)

// Compiler turns WGSL source into SPIR-V words.
type Compiler func(wgsl string) ([]uint32, error)

// compiled memoizes CompileWGSL by source.
var compiled = cache.New[string, []uint32](8)

// CompileWGSL compiles WGSL with naga. Results are cached by source, so
// renderers created after the first share one compilation. The returned
// words must not be modified.
func CompileWGSL(wgsl string) ([]uint32, error) {
	return compiled.GetOrCreate(wgsl, func() ([]uint32, error) {
		return compileWGSL(wgsl)
	})
}

func compileWGSL(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	return SPIRVWords(spirvBytes)
}

// SPIRVWords converts a little-endian SPIR-V byte stream into words.
func SPIRVWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

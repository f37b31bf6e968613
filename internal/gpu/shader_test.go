// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"slices"
	"testing"
)

func TestSPIRVWords(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    []uint32
		wantErr bool
	}{
		{"empty", nil, []uint32{}, false},
		{"magic", []byte{0x03, 0x02, 0x23, 0x07}, []uint32{0x07230203}, false},
		{"two words", []byte{1, 0, 0, 0, 0, 0, 1, 0}, []uint32{1, 0x00010000}, false},
		{"truncated", []byte{1, 2, 3}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SPIRVWords(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !slices.Equal(got, tt.want) {
				t.Errorf("SPIRVWords() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestCompileWGSLMemoized(t *testing.T) {
	const src = "// memoized test source"
	compiled.Set(src, fakeSPIRV)
	t.Cleanup(func() { compiled.Delete(src) })

	got, err := CompileWGSL(src)
	if err != nil {
		t.Fatalf("CompileWGSL: %v", err)
	}
	if &got[0] != &fakeSPIRV[0] {
		t.Error("cached words were not reused")
	}
}

func TestCompileWGSLError(t *testing.T) {
	const src = "this is not wgsl {"
	if _, err := CompileWGSL(src); err == nil {
		t.Fatal("expected compile error")
	}
	if _, ok := compiled.Get(src); ok {
		t.Error("failed compilation was cached")
	}
}

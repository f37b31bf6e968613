// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a small generic LRU cache.
//
// It memoizes expensive pure results, such as WGSL to SPIR-V compilation,
// across renderers:
//
//	c := cache.New[string, []uint32](8)
//	words, err := c.GetOrCreate(source, func() ([]uint32, error) {
//	    return compile(source)
//	})
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package history retains the previous frame's G-buffer for temporal reuse.
//
// A [Manager] copies the four G-buffer targets at the end of each executable
// frame. The copy is all-or-nothing: when any target fails to copy, every
// retained target is released and the history reports not ready, so the next
// frame runs without temporal reuse instead of reading a mixed history.
//
// Manager is generic over the target handle so the CPU backend can retain
// [frame.Target] values while the GPU backend retains buffers.
package history

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package copy registers the trivial identity codec: compression and
// decompression both copy bytes straight through unchanged. It is
// useful as a baseline for exercising the dispatch layer without an
// algorithm in the loop.
package copy

import "github.com/squashio/squash"

func init() {
	squash.RegisterCodec(
		"copy", "", 0,
		squash.CanFlush,
		nil,
		squash.BackendVector{
			GetMaxCompressedSize: func(n uint64) (uint64, bool) { return n, true },
			GetUncompressedSize:  func(data []byte) (uint64, bool) { return uint64(len(data)), true },
			CompressBuffer:       transform,
			DecompressBuffer:     transform,
			InitStream:           initStream,
		},
	)
}

func transform(out, in []byte, _ *squash.Options) (int, squash.Status) {
	if len(out) < len(in) {
		return 0, squash.BufferFull
	}
	return copy(out, in), squash.OK
}

type stream struct{}

func initStream(squash.Direction, *squash.Options) (squash.StreamBackend, squash.Status) {
	return stream{}, squash.OK
}

func (stream) Process(in, out []byte, _ squash.Operation) (consumed, produced int, status squash.Status) {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	if n != 0 {
		copy(out[:n], in[:n])
	}
	if n < len(in) {
		return n, n, squash.Processing
	}
	return n, n, squash.OK
}

func (stream) Destroy() {}

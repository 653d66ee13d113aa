// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package lz4 registers the lz4 codec backed by the pure Go
// github.com/pierrec/lz4/v4 block API. The block API is already a
// one-shot buffer transform, so this codec needs no stream or bridge
// adapter at all.
package lz4

import (
	"github.com/pierrec/lz4/v4"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"lz4", "lz4", 0,
		0,
		nil,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

func getMaxCompressedSize(n uint64) (uint64, bool) {
	return uint64(lz4.CompressBlockBound(int(n))), true
}

func compressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	var c lz4.Compressor
	n, err := c.CompressBlock(in, out)
	if err != nil {
		return 0, squash.Failed
	}
	if n == 0 && len(in) > 0 {
		// CompressBlock returns n == 0 when the data is incompressible
		// in the room available; fall through to BufferFull rather than
		// reporting a spurious empty success.
		return 0, squash.BufferFull
	}
	return n, squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	n, err := lz4.UncompressBlock(in, out)
	if err != nil {
		return 0, squash.BufferFull
	}
	return n, squash.OK
}

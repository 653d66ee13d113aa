// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package lzo registers the lzo codec backed by the pure Go
// github.com/anchore/go-lzo, a port of LZO1X whose Compress/Decompress
// are one-shot buffer operations with no streaming API.
package lzo

import (
	lzo "github.com/anchore/go-lzo"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"lzo", "lzo", 0,
		0,
		nil,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

// getMaxCompressedSize follows the standard LZO1X_1_MEM_COMPRESS worst
// case: the input expanded by one byte per 16, plus a fixed allowance
// for the trailing literal run and end marker.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + n/16 + 64 + 3, true
}

func compressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	compressed, err := lzo.Compress1X(in)
	if err != nil {
		return 0, squash.Failed
	}
	if len(compressed) > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, compressed), squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	result, err := lzo.Decompress1X(in, 0, len(out))
	if err != nil {
		return 0, squash.Failed
	}
	if len(result) > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, result), squash.OK
}

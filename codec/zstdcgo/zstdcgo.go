// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package zstdcgo registers a second zstd codec, "zstd-cgo", backed by
// github.com/DataDog/zstd, a cgo binding to the reference C library.
// It is registered separately from package zstd (the pure Go
// implementation) rather than replacing it, so callers can pick
// whichever tradeoff between build complexity and throughput suits
// them; see RegisterCodec's priority parameter for how two codecs
// sharing a concern coexist in the registry.
package zstdcgo

import (
	"github.com/DataDog/zstd"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "level",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: 1, Max: 22},
		Default: squash.IntValue(int64(zstd.DefaultCompression)),
	},
)

func init() {
	squash.RegisterCodec(
		"zstd-cgo", "", -10,
		0,
		schema,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

func getMaxCompressedSize(n uint64) (uint64, bool) {
	return uint64(zstd.CompressBound(int(n))), true
}

func compressBuffer(out, in []byte, opts *squash.Options) (int, squash.Status) {
	level := zstd.DefaultCompression
	if opts != nil {
		level = int(opts.GetIntAt(0))
	}
	compressed, err := zstd.CompressLevel(out[:0], in, level)
	if err != nil {
		if len(out) < zstd.CompressBound(len(in)) {
			return 0, squash.BufferFull
		}
		return 0, squash.Failed
	}
	if len(compressed) > len(out) {
		return 0, squash.BufferFull
	}
	// The library allocates its own destination when out's capacity is
	// below CompressBound, so the result is not necessarily in out yet.
	return copy(out, compressed), squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	result, err := zstd.Decompress(out[:0], in)
	if err != nil {
		return 0, squash.Failed
	}
	if len(result) > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, result), squash.OK
}

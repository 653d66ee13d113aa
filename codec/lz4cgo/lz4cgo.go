// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package lz4cgo registers a second lz4 codec, "lz4-cgo", backed by
// github.com/DataDog/golz4, a cgo binding to the reference C library.
// Like package zstdcgo it coexists with the pure Go lz4 codec rather
// than replacing it.
package lz4cgo

import (
	"github.com/DataDog/golz4"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"lz4-cgo", "", -10,
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
	return uint64(golz4.CompressBound(int(n))), true
}

func compressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	n, err := golz4.Compress(in, out)
	if err != nil {
		return 0, squash.BufferFull
	}
	return n, squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	n, err := golz4.Uncompress(in, out)
	if err != nil {
		return 0, squash.BufferFull
	}
	return n, squash.OK
}

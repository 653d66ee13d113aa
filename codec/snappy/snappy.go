// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package snappy registers the snappy codec backed by
// github.com/golang/snappy, whose Encode/Decode are already a
// one-shot buffer transform with no streaming API at all.
package snappy

import (
	"github.com/golang/snappy"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"snappy", "snappy", 0,
		squash.KnowsUncompressedSize,
		nil,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			GetUncompressedSize:  getUncompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

func getMaxCompressedSize(n uint64) (uint64, bool) {
	return uint64(snappy.MaxEncodedLen(int(n))), true
}

func getUncompressedSize(data []byte) (uint64, bool) {
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return 0, false
	}
	return uint64(n), true
}

func compressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	if len(out) < snappy.MaxEncodedLen(len(in)) {
		return 0, squash.BufferFull
	}
	return len(snappy.Encode(out, in)), squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	n, err := snappy.DecodedLen(in)
	if err != nil {
		return 0, squash.Failed
	}
	if len(out) < n {
		return 0, squash.BufferFull
	}
	result, err := snappy.Decode(out, in)
	if err != nil {
		return 0, squash.Failed
	}
	return len(result), squash.OK
}

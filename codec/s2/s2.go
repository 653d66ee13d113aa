// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package s2 registers the s2 codec backed by
// github.com/klauspost/compress/s2, a snappy-compatible format with a
// higher compression ratio and block-parallel encoding. Like snappy,
// its Encode/Decode are one-shot buffer operations.
package s2

import (
	"github.com/klauspost/compress/s2"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "better",
		Type:    squash.OptionBool,
		Default: squash.BoolValue(false),
	},
)

func init() {
	squash.RegisterCodec(
		"s2", "s2", 0,
		squash.KnowsUncompressedSize,
		schema,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			GetUncompressedSize:  getUncompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

func getMaxCompressedSize(n uint64) (uint64, bool) {
	return uint64(s2.MaxEncodedLen(int(n))), true
}

func getUncompressedSize(data []byte) (uint64, bool) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return 0, false
	}
	return uint64(n), true
}

func compressBuffer(out, in []byte, opts *squash.Options) (int, squash.Status) {
	if len(out) < s2.MaxEncodedLen(len(in)) {
		return 0, squash.BufferFull
	}
	better := opts != nil && opts.GetBoolAt(0)
	if better {
		return len(s2.EncodeBetter(out, in)), squash.OK
	}
	return len(s2.Encode(out, in)), squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	n, err := s2.DecodedLen(in)
	if err != nil {
		return 0, squash.Failed
	}
	if len(out) < n {
		return 0, squash.BufferFull
	}
	result, err := s2.Decode(out, in)
	if err != nil {
		return 0, squash.Failed
	}
	return len(result), squash.OK
}

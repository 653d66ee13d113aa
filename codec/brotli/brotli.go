// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package brotli registers the brotli codec backed by
// github.com/andybalholm/brotli. The library only exposes a
// Writer/Reader pair, but unlike the DEFLATE-family codecs this
// package drives them against an internal bytes.Buffer rather than
// the thread bridge: CompressBuffer and DecompressBuffer are one-shot
// by contract, so there is no caller-supplied bounded output window to
// adapt around, and a plain io.Copy into scratch is simpler than a
// goroutine handoff.
package brotli

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "quality",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: 0, Max: 11},
		Default: squash.IntValue(brotli.DefaultCompression),
	},
)

func init() {
	squash.RegisterCodec(
		"brotli", "br", 0,
		0,
		schema,
		squash.BackendVector{
			GetMaxCompressedSize: getMaxCompressedSize,
			CompressBuffer:       compressBuffer,
			DecompressBuffer:     decompressBuffer,
		},
	)
}

// getMaxCompressedSize follows brotli's own documented worst case: the
// input plus a small fixed per-large-block overhead.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	if n == 0 {
		return 2, true
	}
	return n + 2 + 4*(n>>14) + 3 + 1, true
}

func compressBuffer(out, in []byte, opts *squash.Options) (int, squash.Status) {
	quality := brotli.DefaultCompression
	if opts != nil {
		quality = int(opts.GetIntAt(0))
	}
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(in); err != nil {
		return 0, squash.Failed
	}
	if err := w.Close(); err != nil {
		return 0, squash.Failed
	}
	if buf.Len() > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, buf.Bytes()), squash.OK
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	r := brotli.NewReader(bytes.NewReader(in))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return 0, squash.Failed
	}
	if buf.Len() > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, buf.Bytes()), squash.OK
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package zstd registers the zstd codec backed by the pure Go
// github.com/klauspost/compress/zstd. The library's Encoder/Decoder
// each keep internal goroutines and are meant to be reused across
// calls, so the codec caches one encoder per level and one decoder
// rather than paying that setup cost per buffer operation; it exposes
// only the one-shot EncodeAll/DecodeAll entry points, not native
// cursor streaming.
package zstd

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "level",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: 1, Max: 4},
		Default: squash.IntValue(int64(zstd.SpeedDefault)),
	},
)

func init() {
	squash.RegisterCodec(
		"zstd", "zst", 0,
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

var (
	decOnce sync.Once
	dec     *zstd.Decoder

	encMu    sync.Mutex
	encoders = make(map[zstd.EncoderLevel]*zstd.Encoder)
)

func decoder() *zstd.Decoder {
	decOnce.Do(func() {
		dec, _ = zstd.NewReader(nil)
	})
	return dec
}

// encoder returns a cached *zstd.Encoder for level, creating it on
// first use. EncodeAll is safe to call repeatedly on the same encoder,
// so one per level is kept alive for the life of the process instead
// of spinning up and tearing down its internal goroutines every call.
func encoder(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	encMu.Lock()
	defer encMu.Unlock()
	if e, ok := encoders[level]; ok {
		return e, nil
	}
	e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	encoders[level] = e
	return e, nil
}

func compressBuffer(out, in []byte, opts *squash.Options) (int, squash.Status) {
	level := zstd.SpeedDefault
	if opts != nil {
		level = zstd.EncoderLevel(opts.GetIntAt(0))
	}
	enc, err := encoder(level)
	if err != nil {
		return 0, squash.Failed
	}
	compressed := enc.EncodeAll(in, nil)
	if len(compressed) > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, compressed), squash.OK
}

// getMaxCompressedSize mirrors zstd's own ZSTD_COMPRESSBOUND macro.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	b := n + (n >> 7) + 512
	if n < 128<<10 {
		b += (128<<10 - n) >> 11
	}
	return b, true
}

func decompressBuffer(out, in []byte, _ *squash.Options) (int, squash.Status) {
	result, err := decoder().DecodeAll(in, nil)
	if err != nil {
		return 0, squash.Failed
	}
	if len(result) > len(out) {
		return 0, squash.BufferFull
	}
	return copy(out, result), squash.OK
}

func getUncompressedSize(data []byte) (uint64, bool) {
	fh := zstd.Header{}
	if err := fh.Decode(data); err != nil || fh.FrameContentSize == 0 {
		return 0, false
	}
	return fh.FrameContentSize, true
}

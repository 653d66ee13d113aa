// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package lzmaraw registers the legacy "alone" .lzma format codec,
// the same liblzma binding the xz codec uses but driven through
// lzma_alone_encoder/lzma_alone_decoder instead of the .xz container.
// Like xz it is true cursor-based native streaming, so it needs the
// same thin Process/Destroy translation and nothing more.
package lzmaraw

import (
	"github.com/squashio/squash/codec/xz/lzma"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "level",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: 0, Max: 9},
		Default: squash.IntValue(6),
	},
)

func init() {
	squash.RegisterCodec(
		"lzma-raw", "lzma", -5,
		squash.NativeStreaming,
		schema,
		squash.BackendVector{
			InitStream:           initStream,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize uses the same generous bound as the xz codec;
// the alone format's 13-byte header is smaller than .xz's container,
// so this bound covers it too.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + n/3 + 128, true
}

type stream struct {
	s      *lzma.Stream
	action lzma.Action
}

func initStream(direction squash.Direction, opts *squash.Options) (squash.StreamBackend, squash.Status) {
	if direction == squash.Decompress {
		s, err := lzma.NewAloneDecoder(^uint64(0))
		if err != nil {
			return nil, squash.UnableToLoad
		}
		return &stream{s: s}, squash.OK
	}

	preset := uint32(6)
	if opts != nil {
		preset = uint32(opts.GetIntAt(0))
	}
	s, err := lzma.NewAloneEncoder(preset)
	if err != nil {
		return nil, squash.UnableToLoad
	}
	return &stream{s: s}, squash.OK
}

func (st *stream) Process(in, out []byte, op squash.Operation) (consumed, produced int, status squash.Status) {
	st.s.SetNextIn(in)
	st.s.SetNextOut(out)

	switch op {
	case squash.Process:
		st.action = lzma.Run
	case squash.Flush:
		st.action = lzma.SyncFlush
	case squash.Finish:
		st.action = lzma.Finish
	}

	ret := st.s.Code(st.action)
	consumed = len(in) - st.s.AvailableIn()
	produced = len(out) - st.s.AvailableOut()

	switch ret {
	case lzma.Ok, lzma.NoCheck, lzma.UnsupportedCheck, lzma.GetCheck:
		if st.s.AvailableOut() == 0 {
			return consumed, produced, squash.Processing
		}
		if st.s.AvailableIn() != 0 {
			return consumed, produced, squash.Processing
		}
		return consumed, produced, squash.OK
	case lzma.StreamEnd:
		return consumed, produced, squash.OK
	case lzma.MemError, lzma.MemLimitError:
		return consumed, produced, squash.Memory
	case lzma.BufError:
		return consumed, produced, squash.BufferFull
	case lzma.FormatError, lzma.OptionsError, lzma.DataError:
		return consumed, produced, squash.BadValue
	default:
		return consumed, produced, squash.Failed
	}
}

func (st *stream) Destroy() {
	st.s.End()
}

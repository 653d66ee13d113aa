// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package xz registers the xz codec. Together with lzma-raw, which
// shares its liblzma binding, it is backed by a true cursor-based
// streaming library rather than a blocking Reader/Writer or a one-shot
// buffer function: liblzma's
// lzma_stream already tracks next_in/avail_in/next_out/avail_out the
// same way this module's Stream.Process contract does, via this
// package's lzma subpackage, so it needs no adapter shape beyond a
// thin translation of actions and return codes.
package xz

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
	squash.SchemaEntry{
		Name:    "extreme",
		Type:    squash.OptionBool,
		Default: squash.BoolValue(false),
	},
)

func init() {
	squash.RegisterCodec(
		"xz", "xz", 0,
		squash.CanFlush|squash.NativeStreaming,
		schema,
		squash.BackendVector{
			InitStream:           initStream,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize follows liblzma's own lzma_stream_buffer_bound
// approximation: input size plus a third, plus a fixed container
// overhead, generous enough to cover any preset and check type this
// adapter exposes.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + n/3 + 128, true
}

type stream struct {
	s      *lzma.Stream
	action lzma.Action
}

func initStream(direction squash.Direction, opts *squash.Options) (squash.StreamBackend, squash.Status) {
	if direction == squash.Decompress {
		s, err := lzma.NewStreamDecoder(^uint64(0), lzma.Concatenated, lzma.TellUnsupportedCheck)
		if err != nil {
			return nil, squash.UnableToLoad
		}
		return &stream{s: s}, squash.OK
	}

	preset := uint32(6)
	if opts != nil {
		preset = uint32(opts.GetIntAt(0))
		if opts.GetBoolAt(1) {
			preset |= lzma.ExtremePreset
		}
	}
	s, err := lzma.NewStreamEncoder(preset, lzma.CheckCRC64)
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

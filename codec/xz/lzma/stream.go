// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package lzma is a thin cgo binding to liblzma's streaming API,
// adapted from the encoder-less decoder binding this module's xz
// codec started from: it adds a .xz encoder alongside the existing
// decoder, plus the legacy "alone" .lzma encoder/decoder pair used by
// the lzmaraw codec, so that both container formats share one binding.
package lzma

/*
#cgo !nopkgconfig pkg-config: liblzma

#include <stdlib.h>
#include <lzma.h>

lzma_stream stream_init() {
	return (lzma_stream) LZMA_STREAM_INIT;
}

lzma_ret safe_lzma_code(lzma_stream *stream, lzma_action action) {
	lzma_ret ret = lzma_code(stream, action);

	// lzma_code advances the pointers which is not safe in go if it exceeds the
	// original slice bounds. Therefore, if we reach the end of stream->avail_*
	// assume we have gone off the end of the slice and therefore must null the
	// now invalid reference out.
	if (stream->avail_out == 0) {
		stream->next_out = NULL;
	}
	if (stream->avail_in == 0) {
		stream->next_in = NULL;
	}
	return ret;
}
*/
import "C"
import (
	"fmt"
	"runtime"
	"unsafe"
)

// Stream wraps a lzma_stream and the pinner that keeps its currently
// assigned input/output slices alive across cgo calls.
type Stream struct {
	internal C.lzma_stream
	pinner   runtime.Pinner
}

// Return values used by several functions in liblzma.
type Return int

const (
	Ok               Return = iota // operation completed successfully
	StreamEnd                      // end of stream was reached.
	NoCheck                        // input stream has no integrity check
	UnsupportedCheck               // cannot calculate the integrity check
	GetCheck                       // integrity check type is now available
	MemError                       // cannot allocate memory
	MemLimitError                  // memory usage limit was reached
	FormatError                    // file format not recognized
	OptionsError                   // invalid or unsupported options
	DataError                      // data is corrupt
	BufError                       // no progress is possible
	ProgError                      // programming error
	SeekNeeded                     // request to change the input file position
)

// Action used by Stream.Code.
type Action int

const (
	Run         Action = iota // continue coding
	SyncFlush                 // make all the input available at output
	FullFlush                 // finish encoding of the current block
	Finish                    // finish the coding operation
	FullBarrier               // finish encoding of the current block
)

// A DecoderOpt can be passed in when initializing a decoder.
type DecoderOpt int32

const (
	TellNoCheck          DecoderOpt = 1 << iota // enables NoCheck
	TellUnsupportedCheck                        // enables UnsupportedCheck
	TellAnyCheck                                // enables GetCheck
	Concatenated                                // enables concatenated file support
	IgnoreCheck                                 // disables DataError for invalid integrity checks
	FailFast                                    // enables eagerly returning errors in threaded decoding
)

// Check selects the integrity check an encoder embeds in its stream.
type Check int32

const (
	CheckNone   Check = 0
	CheckCRC32  Check = 1
	CheckCRC64  Check = 4
	CheckSHA256 Check = 10
)

// NewStreamDecoder initializes an .xz Stream decoder.
func NewStreamDecoder(memlimit uint64, flags ...DecoderOpt) (*Stream, error) {
	var decoderFlag int32
	for _, flag := range flags {
		decoderFlag |= int32(flag)
	}
	stream := Stream{internal: C.stream_init()}
	ret := Return(C.lzma_stream_decoder(
		(*C.lzma_stream)(&stream.internal),
		C.uint64_t(memlimit),
		C.uint32_t(decoderFlag),
	))
	if ret != Ok {
		return nil, fmt.Errorf("lzma: error initializing stream decoder, code=%d", ret)
	}
	return &stream, nil
}

// NewStreamEncoder initializes an .xz Stream encoder at the given
// preset level (0-9, optionally combined with ExtremePreset).
func NewStreamEncoder(preset uint32, check Check) (*Stream, error) {
	stream := Stream{internal: C.stream_init()}
	ret := Return(C.lzma_easy_encoder(
		(*C.lzma_stream)(&stream.internal),
		C.uint32_t(preset),
		C.lzma_check(check),
	))
	if ret != Ok {
		return nil, fmt.Errorf("lzma: error initializing stream encoder, code=%d", ret)
	}
	return &stream, nil
}

// NewAloneEncoder initializes a legacy .lzma ("lzma_alone") encoder at
// the given preset level, with no container format or integrity check.
func NewAloneEncoder(preset uint32) (*Stream, error) {
	var opts C.lzma_options_lzma
	if C.lzma_lzma_preset(&opts, C.uint32_t(preset)) != 0 {
		return nil, fmt.Errorf("lzma: unsupported preset %d", preset)
	}
	stream := Stream{internal: C.stream_init()}
	ret := Return(C.lzma_alone_encoder((*C.lzma_stream)(&stream.internal), &opts))
	if ret != Ok {
		return nil, fmt.Errorf("lzma: error initializing alone encoder, code=%d", ret)
	}
	return &stream, nil
}

// NewAloneDecoder initializes a legacy .lzma ("lzma_alone") decoder.
func NewAloneDecoder(memlimit uint64) (*Stream, error) {
	stream := Stream{internal: C.stream_init()}
	ret := Return(C.lzma_alone_decoder((*C.lzma_stream)(&stream.internal), C.uint64_t(memlimit)))
	if ret != Ok {
		return nil, fmt.Errorf("lzma: error initializing alone decoder, code=%d", ret)
	}
	return &stream, nil
}

// ExtremePreset ORs into a preset to ask for the slower, higher-ratio
// mode liblzma calls "extreme".
const ExtremePreset uint32 = 1 << 31

func (stream *Stream) SetNextIn(in []byte) {
	stream.internal.next_in = (*C.uint8_t)(unsafe.SliceData(in))
	stream.internal.avail_in = C.size_t(len(in))
}

func (stream *Stream) AvailableIn() int {
	return int(stream.internal.avail_in)
}

func (stream *Stream) SetNextOut(out []byte) {
	stream.internal.next_out = (*C.uint8_t)(unsafe.SliceData(out))
	stream.internal.avail_out = C.size_t(len(out))
}

func (stream *Stream) AvailableOut() int {
	return int(stream.internal.avail_out)
}

// Code encodes or decodes data based on how the Stream has been
// initialized, and its current state as set by SetNextIn/SetNextOut.
func (stream *Stream) Code(action Action) Return {
	stream.pin()
	defer stream.pinner.Unpin()
	return Return(C.safe_lzma_code((*C.lzma_stream)(&stream.internal), C.lzma_action(action)))
}

// End frees memory allocated for the coder data structures used
// internally. Safe to call more than once.
func (stream *Stream) End() {
	stream.pin()
	defer stream.pinner.Unpin()
	C.lzma_end((*C.lzma_stream)(&stream.internal))
}

func (stream *Stream) pin() {
	if stream.internal.next_in != nil {
		stream.pinner.Pin(stream.internal.next_in)
	}
	if stream.internal.next_out != nil {
		stream.pinner.Pin(stream.internal.next_out)
	}
}

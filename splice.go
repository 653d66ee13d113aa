// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"errors"
	"io"
)

// statusFromErr recovers the Status a ByteSink/ByteSource wrapped in a
// StatusError (sliceWriter's BufferFull, for instance), falling back
// to Failed for any other I/O error.
func statusFromErr(err error) Status {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return Failed
}

// spliceWindowSize is the chunk size the stream-backed pump reads and
// writes at a time when a codec has no native splice entry point. It
// bounds the engine's own memory use independent of the payload size.
// config.LoadFromEnv applies SQUASH_SPLICE_WINDOW_SIZE on top of this
// default via SetSpliceWindowSize.
var spliceWindowSize = 64 * 1024

// SetSpliceWindowSize overrides the window size used by future Splice
// calls that fall back to the stream-backed pump or the buffer-backed
// slurp. It exists so config.LoadFromEnv can apply an environment
// override without this package depending on the config package.
func SetSpliceWindowSize(n int) {
	if n > 0 {
		spliceWindowSize = n
	}
}

// Splice transfers a whole stream from r to w through codec, choosing
// the cheapest available back-end flavor: a native splice callback,
// then a windowed pump built on the codec's Stream contract, then a
// buffer-backed slurp as the last resort for codecs that only expose
// one-shot buffer operations. sizeHint, if non-zero, is an estimate of
// the input size used to size the slurp buffer; it is never required
// to be exact.
func Splice(codec *Codec, direction Direction, w ByteSink, r ByteSource, sizeHint uint64, opts *Options) Status {
	if status := opts.verifyCodec(codec.name); status != OK {
		return status
	}

	if codec.backend.Splice != nil {
		return codec.backend.Splice(direction, w, r, opts)
	}
	if codec.backend.InitStream != nil || codec.backend.InitBridge != nil {
		return splicePump(codec, direction, w, r, opts)
	}
	if codec.backend.CompressBuffer != nil || codec.backend.CompressBufferUnsafe != nil ||
		codec.backend.DecompressBuffer != nil {
		return spliceSlurp(codec, direction, w, r, sizeHint, opts)
	}
	return InvalidOperation
}

// splicePump drives a Stream a fixed-size window at a time, so total
// memory use stays bounded regardless of payload size.
func splicePump(codec *Codec, direction Direction, w ByteSink, r ByteSource, opts *Options) Status {
	s, status := NewStream(codec, direction, opts)
	if status != OK {
		return status
	}
	defer s.Close()

	in := make([]byte, spliceWindowSize)
	out := make([]byte, spliceWindowSize)

	eof := false
	for !eof {
		n, err := r.Read(in)
		if err != nil && err != io.EOF {
			return Failed
		}
		eof = err == io.EOF
		pending := in[:n]

		for {
			consumed, produced, st := s.Process(pending, out)
			pending = pending[consumed:]
			if produced > 0 {
				if _, werr := w.Write(out[:produced]); werr != nil {
					return statusFromErr(werr)
				}
			}
			if st == OK {
				break
			}
			if st != Processing {
				return st
			}
			logger().Debug("splice pump backpressure stall", "codec", codec.name, "window", spliceWindowSize)
		}
	}

	for {
		produced, st := s.Finish(out)
		if produced > 0 {
			if _, werr := w.Write(out[:produced]); werr != nil {
				return statusFromErr(werr)
			}
		}
		switch st {
		case OK:
			return OK
		case Processing:
			continue
		default:
			return st
		}
	}
}

// spliceSlurp is the fallback for codecs whose only entry point is a
// one-shot buffer operation: it reads the whole source into memory,
// transforms it through the Buffer API's adaptive growth strategy, and
// writes the result to w. It is only reached for shape B codecs, i.e.
// back-ends with no Splice, InitStream or InitBridge, only
// CompressBuffer, CompressBufferUnsafe and/or DecompressBuffer.
func spliceSlurp(codec *Codec, direction Direction, w ByteSink, r ByteSource, sizeHint uint64, opts *Options) Status {
	startCap := int(sizeHint)
	if startCap <= 0 {
		startCap = 64 * 1024
	}
	in := make([]byte, 0, startCap)
	buf := make([]byte, spliceWindowSize)
	for {
		n, err := r.Read(buf)
		in = append(in, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Failed
		}
	}

	out, status := bufferSlurpTransform(codec, direction, in, opts)
	if status != OK {
		return status
	}
	if _, err := w.Write(out); err != nil {
		return statusFromErr(err)
	}
	return OK
}

// bufferSlurpTransform runs the one-shot transform into a buffer sized
// by the same adaptive growth strategy the buffer-backed Stream
// uses, rather than duplicating it.
func bufferSlurpTransform(codec *Codec, direction Direction, in []byte, opts *Options) ([]byte, Status) {
	b := &bufferBackedStream{codec: codec, direction: direction, options: opts}
	b.input.Append(in)

	var result Buffer
	out := make([]byte, spliceWindowSize)
	for {
		_, produced, st := b.finish(out)
		result.Append(out[:produced])
		switch st {
		case OK:
			return result.Bytes(), OK
		case Processing:
			continue
		default:
			return nil, st
		}
	}
}

// sliceReader and sliceWriter adapt a fixed in-memory buffer to the
// ByteSource/ByteSink contracts, used by the Buffer API (bufferapi.go)
// to drive the splice engine for codecs that only expose a native
// splice callback.
type sliceReader struct {
	data []byte
	pos  int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

type sliceWriter struct {
	buf []byte
	n   int
}

func (s *sliceWriter) Write(p []byte) (int, error) {
	room := len(s.buf) - s.n
	if room < len(p) {
		n := copy(s.buf[s.n:], p)
		s.n += n
		return n, newStatusError("", BufferFull, nil)
	}
	copy(s.buf[s.n:], p)
	s.n += len(p)
	return len(p), nil
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

// bufferBackedStream adapts a codec that only exposes one-shot buffer
// compress/decompress to the incremental Stream contract. Every
// Process call while accumulating returns OK immediately; the actual
// transformation runs on the first Finish call, then streams its
// result out across as many Finish calls as the caller's output
// window requires. It never returns EndOfStream; exhaustion is
// reported as OK.
type bufferBackedStream struct {
	codec     *Codec
	direction Direction
	options   *Options

	input  Buffer
	scratch Buffer
	scratchPos int
	done   bool
}

func newBufferBackedStream(codec *Codec, direction Direction, opts *Options) backend {
	return &bufferBackedStream{codec: codec, direction: direction, options: opts}
}

func (b *bufferBackedStream) process(in, out []byte, op Operation) (consumed, produced int, status Status) {
	switch op {
	case Process:
		b.input.Append(in)
		return len(in), 0, OK
	case Finish:
		return b.finish(out)
	default:
		// Flush has no meaning for a back-end with no native streaming;
		// Stream.do already rejects it when the codec lacks CanFlush,
		// so reaching here means a codec advertised CanFlush without a
		// native or bridged back-end, which is a registration bug.
		return 0, 0, InvalidOperation
	}
}

func (b *bufferBackedStream) destroy() {}

func (b *bufferBackedStream) finish(out []byte) (consumed, produced int, status Status) {
	if b.scratchPos < b.scratch.Len() {
		return b.drainScratch(out)
	}
	if b.done {
		return 0, 0, OK
	}

	in := b.input.Bytes()
	target, haveTarget := b.targetSize(in)

	if haveTarget && uint64(len(out)) >= target {
		n, st := b.transform(out, in)
		switch st {
		case OK:
			b.done = true
			return 0, n, OK
		case BufferFull:
			// Our estimate undershot; fall through to the growing
			// scratch-buffer path below.
		default:
			return 0, 0, st
		}
	}

	if st := b.transformIntoScratch(in, target, haveTarget); st != OK {
		return 0, 0, st
	}
	b.done = true
	return b.drainScratch(out)
}

func (b *bufferBackedStream) drainScratch(out []byte) (int, int, Status) {
	remaining := b.scratch.Bytes()[b.scratchPos:]
	n := copy(out, remaining)
	b.scratchPos += n
	if b.scratchPos >= b.scratch.Len() {
		return 0, n, OK
	}
	return 0, n, Processing
}

func (b *bufferBackedStream) targetSize(in []byte) (uint64, bool) {
	if b.direction == Compress {
		return b.codec.GetMaxCompressedSize(uint64(len(in)))
	}
	return b.codec.GetUncompressedSize(in)
}

func (b *bufferBackedStream) transform(out, in []byte) (int, Status) {
	if b.direction == Compress {
		if b.codec.backend.CompressBuffer != nil {
			return b.codec.backend.CompressBuffer(out, in, b.options)
		}
		if b.codec.backend.CompressBufferUnsafe != nil {
			return compressBufferUnsafeFallback(b.codec, out, in, b.options)
		}
		return 0, InvalidOperation
	}
	if b.codec.backend.DecompressBuffer != nil {
		return b.codec.backend.DecompressBuffer(out, in, b.options)
	}
	return 0, InvalidOperation
}

// transformIntoScratch runs the one-shot transform into a buffer we
// own, growing geometrically on BufferFull exactly as the Buffer API's
// adaptive growth strategy does, and surrendering with Memory once the
// attempt exceeds the safety cap.
func (b *bufferBackedStream) transformIntoScratch(in []byte, target uint64, haveTarget bool) Status {
	size := adaptiveStartSize(len(in), target, haveTarget)
	safetyCap := adaptiveSafetyCap(len(in))
	for {
		scratchBuf := make([]byte, size)
		n, st := b.transform(scratchBuf, in)
		if st == OK {
			b.scratch.Clear()
			b.scratch.Append(scratchBuf[:n])
			return OK
		}
		if st != BufferFull {
			return st
		}
		if size >= safetyCap {
			return Memory
		}
		size *= 2
		if size > safetyCap {
			size = safetyCap
		}
	}
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

// adaptiveSafetyFactor bounds the adaptive growth strategy used when a
// decompressor knows neither its output size nor an upper bound: the
// scratch buffer is allowed to grow to this many times the input
// length before the layer surrenders with Memory.
const adaptiveSafetyFactor = 1024

// adaptiveSafetyFloor is the minimum safety cap, so tiny or empty
// inputs still get room to grow instead of being capped at zero.
const adaptiveSafetyFloor = 1 << 20

// adaptiveSafetyCeiling, if non-zero, caps adaptiveSafetyCap's result
// regardless of input length. config.LoadFromEnv applies
// SQUASH_ADAPTIVE_GROWTH_CAP on top of the factor/floor above via
// SetAdaptiveGrowthCap.
var adaptiveSafetyCeiling int

// SetAdaptiveGrowthCap overrides the upper bound the adaptive growth
// strategy will scale a scratch buffer to, regardless of input length.
// It exists so config.LoadFromEnv can apply an environment override
// without this package depending on the config package.
func SetAdaptiveGrowthCap(n int) {
	if n > 0 {
		adaptiveSafetyCeiling = n
	}
}

func adaptiveStartSize(inLen int, target uint64, haveTarget bool) int {
	if haveTarget {
		if target == 0 {
			return 64
		}
		return int(target)
	}
	start := inLen * 8
	if pot := ceilPow2(inLen); pot > start {
		start = pot
	}
	if start == 0 {
		start = 64
	}
	return start
}

func adaptiveSafetyCap(inLen int) int {
	c := inLen * adaptiveSafetyFactor
	if c < adaptiveSafetyFloor {
		c = adaptiveSafetyFloor
	}
	if adaptiveSafetyCeiling > 0 && c > adaptiveSafetyCeiling {
		c = adaptiveSafetyCeiling
	}
	return c
}

// compressBufferUnsafeFallback implements the Buffer API's compress
// dispatch fallback: ensure out is at least
// GetMaxCompressedSize(len(in)); if not, compress into worst-case
// scratch and copy back up to len(out), reporting BufferFull if the
// actual output still exceeds the caller's buffer.
func compressBufferUnsafeFallback(c *Codec, out, in []byte, opts *Options) (int, Status) {
	need, ok := c.GetMaxCompressedSize(uint64(len(in)))
	if !ok {
		return 0, InvalidOperation
	}
	if uint64(len(out)) >= need {
		return c.backend.CompressBufferUnsafe(out, in, opts)
	}
	scratch := make([]byte, need)
	n, status := c.backend.CompressBufferUnsafe(scratch, in, opts)
	if status != OK {
		return 0, status
	}
	if n > len(out) {
		return 0, BufferFull
	}
	return copy(out, scratch[:n]), OK
}

// CompressBuffer performs a one-shot, stateless compression of in into
// out, dispatching through the codec's minimum available entry point,
// in order: CompressBuffer, CompressBufferUnsafe, a transient Stream,
// then the splice engine.
func CompressBuffer(codec *Codec, out, in []byte, opts *Options) (n int, status Status) {
	return bufferOp(codec, Compress, out, in, opts)
}

// DecompressBuffer is the symmetric decompression entry point.
func DecompressBuffer(codec *Codec, out, in []byte, opts *Options) (n int, status Status) {
	return bufferOp(codec, Decompress, out, in, opts)
}

func bufferOp(codec *Codec, dir Direction, out, in []byte, opts *Options) (n int, status Status) {
	if status := opts.verifyCodec(codec.name); status != OK {
		return 0, status
	}
	be := &codec.backend

	switch dir {
	case Compress:
		if be.CompressBuffer != nil {
			return be.CompressBuffer(out, in, opts)
		}
		if be.CompressBufferUnsafe != nil {
			return compressBufferUnsafeFallback(codec, out, in, opts)
		}
	case Decompress:
		if be.DecompressBuffer != nil {
			return be.DecompressBuffer(out, in, opts)
		}
	}

	if be.InitStream != nil || be.InitBridge != nil {
		return bufferOpViaStream(codec, dir, out, in, opts)
	}
	if be.Splice != nil {
		return bufferOpViaSplice(codec, dir, out, in, opts)
	}
	return 0, InvalidOperation
}

// bufferOpViaStream builds a transient Stream, pushes the full input,
// requests Finish, and drives it to OK, copying emitted bytes into
// out. Used when a codec exposes only native streaming or a thread
// bridge, never a one-shot buffer entry point.
func bufferOpViaStream(codec *Codec, dir Direction, out, in []byte, opts *Options) (int, Status) {
	s, status := NewStream(codec, dir, opts)
	if status != OK {
		return 0, status
	}
	defer s.Close()

	total := 0
	remainingIn := in
	for {
		consumed, produced, st := s.Process(remainingIn, out[total:])
		remainingIn = remainingIn[consumed:]
		total += produced
		if st == OK {
			break
		}
		if st != Processing {
			return total, st
		}
		if total >= len(out) {
			return total, BufferFull
		}
	}

	for {
		produced, st := s.Finish(out[total:])
		total += produced
		switch st {
		case OK:
			return total, OK
		case Processing:
			if total >= len(out) {
				return total, BufferFull
			}
			continue
		default:
			return total, st
		}
	}
}

// bufferOpViaSplice drives the splice engine with in-memory
// reader/writer adapters, for codecs whose only entry point is a
// native splice callback.
func bufferOpViaSplice(codec *Codec, dir Direction, out, in []byte, opts *Options) (int, Status) {
	src := &sliceReader{data: in}
	dst := &sliceWriter{buf: out}
	status := Splice(codec, dir, dst, src, uint64(len(in)), opts)
	if status != OK {
		return dst.n, status
	}
	return dst.n, OK
}

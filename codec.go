// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

// CapabilityFlags advertise what a codec's back-end can do, so the
// dispatch layer (and callers) don't need to probe by calling and
// checking for InvalidOperation.
type CapabilityFlags uint32

const (
	// CanFlush means Stream.Flush is meaningful for this codec.
	CanFlush CapabilityFlags = 1 << iota
	// KnowsUncompressedSize means GetUncompressedSize can report the
	// decompressed size of a buffer without fully decompressing it.
	KnowsUncompressedSize
	// WrapSize means the codec embeds the original size in its own
	// framing, so it can round-trip arbitrary payloads even when the
	// underlying algorithm library does not expose a native notion of
	// "uncompressed size" (used by adapters layered over a raw,
	// non-self-framing algorithm).
	WrapSize
	// NativeStreaming means the back-end exposes true incremental
	// streaming (back-end shape A) rather than only one-shot buffer
	// operations (shape B).
	NativeStreaming
	// RunInThread means the back-end is not safe to drive from the
	// caller's goroutine directly and is instead bridged through the
	// Thread Bridge (back-end shape C).
	RunInThread
)

func (f CapabilityFlags) Has(flag CapabilityFlags) bool { return f&flag != 0 }

// StreamBackend is the live, per-stream handle returned by
// BackendVector.InitStream for back-ends of shape A (native
// streaming). Process consumes a prefix of in and writes a prefix of
// out, reporting how many bytes of each it touched along with the
// unified Status. Destroy releases any resources the back-end holds;
// it is called exactly once, whether the stream finished normally or
// failed.
type StreamBackend interface {
	Process(in, out []byte, op Operation) (consumed, produced int, status Status)
	Destroy()
}

// BridgeBackend is the contract for back-ends of shape C: a blocking
// (io.Reader, io.Writer) pair that can only be driven synchronously on
// its own goroutine. Run is invoked once, on a dedicated goroutine,
// with a reader that pulls from the caller's input cursor and a writer
// that pushes to the caller's output cursor; see bridge.go. Run must
// return promptly after the reader returns io.EOF and the writer has
// accepted all output, or after a read/write returns errTerminated.
type BridgeBackend interface {
	Run(r ByteSource, w ByteSink) error
}

// BackendVector is the operation vector a codec back-end supplies to
// the registry. Any subset of fields may be nil; at least one of
// CompressBuffer, CompressBufferUnsafe, InitStream, InitBridge or
// Splice must be present for compression, or the codec fails to
// register (see RegisterCodec).
type BackendVector struct {
	// GetMaxCompressedSize returns an upper bound on the compressed
	// size of uncompressedSize bytes, if the back-end can compute one
	// without running the algorithm.
	GetMaxCompressedSize func(uncompressedSize uint64) (uint64, bool)

	// GetUncompressedSize returns the decompressed size of data without
	// fully decompressing it, if the codec's framing records one.
	GetUncompressedSize func(data []byte) (uint64, bool)

	// CompressBuffer and DecompressBuffer perform one-shot, in-memory
	// transformation. They must tolerate an output buffer smaller than
	// the worst case and return BufferFull rather than panicking or
	// writing out of bounds.
	CompressBuffer   func(out, in []byte, opts *Options) (n int, status Status)
	DecompressBuffer func(out, in []byte, opts *Options) (n int, status Status)

	// CompressBufferUnsafe is like CompressBuffer but requires the
	// caller to have sized out to at least GetMaxCompressedSize(len(in));
	// behavior is undefined otherwise. The buffer API uses this as
	// a fallback that allocates a correctly sized scratch buffer itself.
	CompressBufferUnsafe func(out, in []byte, opts *Options) (n int, status Status)

	// InitStream creates a live StreamBackend (shape A) for the given
	// direction and options.
	InitStream func(direction Direction, opts *Options) (StreamBackend, Status)

	// InitBridge creates a BridgeBackend (shape C) for back-ends whose
	// only API is a blocking (Reader, Writer) pair.
	InitBridge func(direction Direction, opts *Options) (BridgeBackend, Status)

	// Splice performs a native, zero-copy-through-the-codec transfer
	// from r to w. Back-ends that can schedule their own I/O loop
	// (rather than being driven a window at a time) implement this.
	Splice func(direction Direction, w ByteSink, r ByteSource, opts *Options) Status
}

// hasCompressionEntryPoint reports whether the vector satisfies the
// registration invariant: at least one compression entry point.
func (v *BackendVector) hasCompressionEntryPoint() bool {
	return v.CompressBuffer != nil ||
		v.CompressBufferUnsafe != nil ||
		v.InitStream != nil ||
		v.InitBridge != nil ||
		v.Splice != nil
}

// Codec is the metadata and capability set the registry hands back to
// callers. It is immutable after registration.
type Codec struct {
	name      string
	extension string
	priority  int
	flags     CapabilityFlags
	schema    *Schema
	backend   BackendVector
}

// Name is the codec's registered name, used for registry lookups.
func (c *Codec) Name() string { return c.name }

// Extension is the codec's conventional file extension, if any, used
// by get_by_extension-style lookups. Guessing a codec from a
// filename's extension end-to-end is out of scope for this package;
// Extension only exposes the datum a caller's own guessing logic would
// need.
func (c *Codec) Extension() string { return c.extension }

// Priority orders codecs that share an extension; higher wins.
func (c *Codec) Priority() int { return c.priority }

// Flags returns the codec's capability flags.
func (c *Codec) Flags() CapabilityFlags { return c.flags }

// Schema returns the codec's option schema, or nil if it takes no
// options.
func (c *Codec) Schema() *Schema { return c.schema }

// GetMaxCompressedSize returns an upper bound on the compressed size
// of n uncompressed bytes. If the back-end does not supply one and the
// codec is stream-only, callers must treat the codec's own
// documentation as the contract; this method returns ok=false in that
// case rather than guessing.
func (c *Codec) GetMaxCompressedSize(n uint64) (size uint64, ok bool) {
	if c.backend.GetMaxCompressedSize == nil {
		return 0, false
	}
	return c.backend.GetMaxCompressedSize(n)
}

// GetUncompressedSize returns the decompressed size of data if the
// codec's framing records one.
func (c *Codec) GetUncompressedSize(data []byte) (size uint64, ok bool) {
	if !c.flags.Has(KnowsUncompressedSize) || c.backend.GetUncompressedSize == nil {
		return 0, false
	}
	return c.backend.GetUncompressedSize(data)
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import "sync"

// StreamState is the stream's lifecycle state.
type StreamState int

const (
	StreamCreated StreamState = iota
	StreamRunning
	StreamFinishing
	StreamFinished
	StreamFailed
)

func (s StreamState) String() string {
	switch s {
	case StreamCreated:
		return "created"
	case StreamRunning:
		return "running"
	case StreamFinishing:
		return "finishing"
	case StreamFinished:
		return "finished"
	case StreamFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// backend is the internal seam the three back-end shapes (A: native
// streaming, B: buffer-backed, C: thread-bridged) all present, so the
// state machine in this file is written exactly once regardless of
// which shape a given codec uses.
type backend interface {
	process(in, out []byte, op Operation) (consumed, produced int, status Status)
	destroy()
}

// nativeBackend adapts a codec's StreamBackend (shape A) to the
// internal backend seam; the two method sets are already identical,
// this only renames Process/Destroy to the unexported process/destroy
// so shape A doesn't need special-casing anywhere else in this file.
type nativeBackend struct{ sb StreamBackend }

func (n *nativeBackend) process(in, out []byte, op Operation) (int, int, Status) {
	return n.sb.Process(in, out, op)
}
func (n *nativeBackend) destroy() { n.sb.Destroy() }

// Stream is a live, single-owner, single-direction transformation. A
// Stream must not be used concurrently from two goroutines; distinct
// streams are independent and may be driven in parallel.
type Stream struct {
	codec     *Codec
	direction Direction
	options   *Options

	mu       sync.Mutex
	state    StreamState
	totalIn  uint64
	totalOut uint64
	backend  backend
}

// NewStream selects the minimum back-end shape the codec advertises —
// preferring native streaming (A), then a thread bridge (C), then the
// buffer-backed fallback (B) — and returns a Stream ready for Process,
// Flush and Finish.
func NewStream(codec *Codec, direction Direction, opts *Options) (*Stream, Status) {
	if status := opts.verifyCodec(codec.name); status != OK {
		return nil, status
	}

	var b backend
	switch {
	case codec.backend.InitStream != nil:
		sb, status := codec.backend.InitStream(direction, opts)
		if status != OK {
			return nil, status
		}
		b = &nativeBackend{sb: sb}
	case codec.backend.InitBridge != nil:
		bb, status := codec.backend.InitBridge(direction, opts)
		if status != OK {
			return nil, status
		}
		b = newBridgeStream(bb)
	case codec.backend.CompressBuffer != nil || codec.backend.CompressBufferUnsafe != nil ||
		codec.backend.DecompressBuffer != nil:
		b = newBufferBackedStream(codec, direction, opts)
	default:
		return nil, InvalidOperation
	}

	logger().Debug("stream created", "codec", codec.name, "direction", direction)
	return &Stream{codec: codec, direction: direction, options: opts, state: StreamCreated, backend: b}, OK
}

// State returns the stream's current lifecycle state.
func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TotalIn and TotalOut are monotonically non-decreasing running totals
// of bytes consumed and emitted across the stream's lifetime.
func (s *Stream) TotalIn() uint64  { s.mu.Lock(); defer s.mu.Unlock(); return s.totalIn }
func (s *Stream) TotalOut() uint64 { s.mu.Lock(); defer s.mu.Unlock(); return s.totalOut }

// Process consumes from in and emits into out. OK means all of in was
// consumed; Processing means the caller must call Process again, with
// fresh buffer room, before more progress is possible.
func (s *Stream) Process(in, out []byte) (consumed, produced int, status Status) {
	return s.do(Process, in, out)
}

// Flush emits any buffered output up to a synchronization boundary.
// Returns InvalidOperation if the codec lacks CanFlush.
func (s *Stream) Flush(out []byte) (produced int, status Status) {
	_, produced, status = s.do(Flush, nil, out)
	return
}

// Finish signals end-of-input and drains all remaining output.
// Callers must call Finish repeatedly, each time with fresh out
// space, until it returns OK.
func (s *Stream) Finish(out []byte) (produced int, status Status) {
	_, produced, status = s.do(Finish, nil, out)
	return
}

// Close releases the stream's resources. Safe to call more than once
// and safe to call on a Failed stream.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return
	}
	s.backend.destroy()
	s.backend = nil
}

func (s *Stream) do(op Operation, in, out []byte) (consumed, produced int, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StreamFailed || s.state == StreamFinished {
		return 0, 0, State
	}
	if s.state == StreamFinishing && op != Finish {
		return 0, 0, State
	}
	if op == Flush && !s.codec.flags.Has(CanFlush) {
		return 0, 0, InvalidOperation
	}
	if s.backend == nil {
		return 0, 0, State
	}

	if s.state == StreamCreated {
		s.state = StreamRunning
	}

	consumed, produced, status = s.backend.process(in, out, op)
	if status < 0 && !status.Recoverable() {
		s.state = StreamFailed
		logger().Debug("stream failed", "codec", s.codec.name, "status", status)
		return consumed, produced, status
	}

	s.totalIn += uint64(consumed)
	s.totalOut += uint64(produced)

	if op == Finish {
		switch status {
		case OK:
			s.state = StreamFinished
			logger().Debug("stream finished", "codec", s.codec.name, "totalIn", s.totalIn, "totalOut", s.totalOut)
		case Processing:
			if s.state != StreamFinishing {
				s.state = StreamFinishing
				logger().Debug("stream finishing", "codec", s.codec.name)
			}
		}
	}

	return consumed, produced, status
}

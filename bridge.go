// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"errors"
	"io"
)

// errTerminated is the sentinel a bridged back-end's Reader/Writer
// return once the bridge has been asked to unwind mid-flight (stream
// destruction while the worker is still live).
var errTerminated = errors.New("squash: bridge terminated")

// bridgeStream is the Thread Bridge: a synchronous coroutine that
// lets a back-end whose only API is a blocking (Reader, Writer) pair
// participate in the incremental Stream contract without busy-looping
// or buffering the whole payload. It is the Go rendition of the
// original's worker thread plus mutex plus two condition variables,
// expressed as one goroutine plus two unbuffered channels; the channel
// handoff itself is the synchronization; there is no additional lock.
//
// The caller and the worker goroutine alternate ownership of the
// stream's input/output windows. A result sent on fromWorker always
// reports the outcome of the request the worker most recently
// finished; a request received from toWorker hands the worker a fresh
// window. Because the back-end's Run method calls Read and Write
// sequentially on its own goroutine, curIn/curOut/consumedThisReq/
// producedThisReq need no lock: only one of Read or Write is ever
// executing at a time.
type bridgeStream struct {
	backend BridgeBackend

	toWorker   chan request
	fromWorker chan result

	started bool
	done    bool
	runErr  error

	curIn, curOut                     []byte
	consumedThisReq, producedThisReq int
	finishing, everYielded            bool
}

type request struct {
	in  []byte
	out []byte
	op  Operation
}

type result struct {
	consumed int
	produced int
	status   Status
}

func newBridgeStream(b BridgeBackend) *bridgeStream {
	return &bridgeStream{
		backend:    b,
		toWorker:   make(chan request),
		fromWorker: make(chan result),
	}
}

// nextRequest reports the tally accumulated since the last yield
// (skipped on the very first call, which has nothing yet to report),
// then blocks for the next request. It is called from the worker
// goroutine only, by bridgeReader.Read or bridgeWriter.Write.
func (b *bridgeStream) nextRequest(status Status) (request, bool) {
	if b.everYielded {
		b.fromWorker <- result{consumed: b.consumedThisReq, produced: b.producedThisReq, status: status}
		b.consumedThisReq, b.producedThisReq = 0, 0
	}
	b.everYielded = true
	req, ok := <-b.toWorker
	if !ok {
		return request{}, false
	}
	b.applyRequest(req)
	return req, true
}

func (b *bridgeStream) applyRequest(req request) {
	b.curOut = req.out
	if req.op == Finish {
		b.finishing = true
		b.curIn = nil
	} else {
		b.curIn = req.in
	}
}

// bridgeReader is the ByteSource handed to the back-end's Run method.
type bridgeReader struct{ s *bridgeStream }

func (r *bridgeReader) Read(p []byte) (int, error) {
	s := r.s
	for len(s.curIn) == 0 {
		if s.finishing {
			return 0, io.EOF
		}
		if _, ok := s.nextRequest(OK); !ok {
			return 0, errTerminated
		}
	}
	n := copy(p, s.curIn)
	s.curIn = s.curIn[n:]
	s.consumedThisReq += n
	return n, nil
}

// bridgeWriter is the ByteSink handed to the back-end's Run method.
type bridgeWriter struct{ s *bridgeStream }

func (w *bridgeWriter) Write(p []byte) (int, error) {
	s := w.s
	total := 0
	for len(p) > 0 {
		if len(s.curOut) == 0 {
			if _, ok := s.nextRequest(Processing); !ok {
				return total, errTerminated
			}
			continue
		}
		n := copy(s.curOut, p)
		s.curOut = s.curOut[n:]
		p = p[n:]
		total += n
		s.producedThisReq += n
	}
	return total, nil
}

// process implements the backend seam used by Stream (stream.go). The
// first call spawns the worker goroutine; every call posts a request
// and waits for the worker's next yield.
func (b *bridgeStream) process(in, out []byte, op Operation) (consumed, produced int, status Status) {
	if b.done {
		return 0, 0, State
	}
	if !b.started {
		b.started = true
		logger().Debug("bridge handshake started")
		go b.run()
	}

	select {
	case b.toWorker <- request{in: in, out: out, op: op}:
	case res, ok := <-b.fromWorker:
		// Run has already returned without waiting for this request (a
		// decompressor that reached its own end marker before Finish, or
		// a back-end that failed before its first Read). A closed channel
		// means its final report was already delivered: nothing more is
		// consumed or produced.
		if !ok {
			res = result{status: OK}
			if op != Finish && len(in) > 0 {
				res.status = EndOfStream
			}
		}
		if op == Finish || res.status != OK {
			b.done = true
		}
		return res.consumed, res.produced, res.status
	}
	res, ok := <-b.fromWorker
	if !ok {
		return 0, 0, Failed
	}
	if op == Finish && res.status == OK {
		b.done = true
	}
	return res.consumed, res.produced, res.status
}

func (b *bridgeStream) run() {
	reader := &bridgeReader{s: b}
	writer := &bridgeWriter{s: b}

	err := b.backend.Run(reader, writer)

	status := OK
	if err != nil && !errors.Is(err, errTerminated) {
		b.runErr = err
		status = Failed
		logger().Debug("bridge back-end failed", "error", err)
	}
	b.fromWorker <- result{consumed: b.consumedThisReq, produced: b.producedThisReq, status: status}
	close(b.fromWorker)
}

func (b *bridgeStream) destroy() {
	if !b.started || b.done {
		return
	}
	logger().Debug("bridge terminating mid-flight")
	close(b.toWorker)
	for range b.fromWorker {
		// Drain the worker's final report (if any) so run's send above
		// never blocks forever; the loop exits once run closes the
		// channel after unwinding.
	}
	b.done = true
}

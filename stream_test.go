// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import "testing"

// chunkyStream is a StreamBackend that copies input to output one byte
// at a time per call, so tests can exercise Processing/BufferFull
// windowing without pulling in a real codec.
type chunkyStream struct {
	pending   []byte
	destroyed bool
}

func (c *chunkyStream) Process(in, out []byte, op Operation) (consumed, produced int, status Status) {
	if op != Finish {
		c.pending = append(c.pending, in...)
		return len(in), 0, OK
	}

	n := 0
	if len(out) > 0 && len(c.pending) > 0 {
		n = copy(out, c.pending[:1])
		c.pending = c.pending[1:]
	}
	if len(c.pending) > 0 {
		return 0, n, Processing
	}
	return 0, n, OK
}

func (c *chunkyStream) Destroy() { c.destroyed = true }

func chunkyCodec(t *testing.T, flags CapabilityFlags) *Codec {
	t.Helper()
	resetRegistryForTest()
	c, err := RegisterCodec("chunky", "", 0, flags, nil, BackendVector{
		InitStream: func(Direction, *Options) (StreamBackend, Status) { return &chunkyStream{}, OK },
	})
	if err != nil {
		t.Fatalf("RegisterCodec: %v", err)
	}
	return c
}

func TestStreamProcessAndFinish(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	s, status := NewStream(codec, Compress, nil)
	if status != OK {
		t.Fatalf("NewStream() status = %v", status)
	}
	defer s.Close()

	consumed, _, status := s.Process([]byte("abc"), make([]byte, 1))
	if consumed != 3 || status != OK {
		t.Fatalf("Process() = %d, %v, want 3, OK", consumed, status)
	}

	var out []byte
	buf := make([]byte, 1)
	for {
		n, status := s.Finish(buf)
		out = append(out, buf[:n]...)
		if status == OK {
			break
		}
		if status != Processing {
			t.Fatalf("Finish() status = %v, want Processing or OK", status)
		}
	}
	if string(out) != "abc" {
		t.Errorf("drained %q, want abc", out)
	}
	if s.State() != StreamFinished {
		t.Errorf("State() = %v, want StreamFinished", s.State())
	}
}

func TestStreamFlushRejectedWithoutCanFlush(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	s, status := NewStream(codec, Compress, nil)
	if status != OK {
		t.Fatalf("NewStream() status = %v", status)
	}
	defer s.Close()

	if _, status := s.Flush(make([]byte, 4)); status != InvalidOperation {
		t.Errorf("Flush() status = %v, want InvalidOperation", status)
	}
}

func TestStreamFlushAllowedWithCanFlush(t *testing.T) {
	codec := chunkyCodec(t, CanFlush)
	defer resetRegistryForTest()

	s, status := NewStream(codec, Compress, nil)
	if status != OK {
		t.Fatalf("NewStream() status = %v", status)
	}
	defer s.Close()

	if _, status := s.Flush(make([]byte, 4)); status != OK {
		t.Errorf("Flush() status = %v, want OK", status)
	}
}

func TestStreamRejectsOperationsAfterFinished(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	s, _ := NewStream(codec, Compress, nil)
	defer s.Close()

	buf := make([]byte, 8)
	for {
		_, status := s.Finish(buf)
		if status == OK {
			break
		}
	}

	if _, _, status := s.Process([]byte("x"), buf); status != State {
		t.Errorf("Process() after Finished = %v, want State", status)
	}
}

func TestStreamCloseReleasesBackend(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	s, _ := NewStream(codec, Compress, nil)
	cs := s.backend.(*nativeBackend).sb.(*chunkyStream)

	s.Close()
	if !cs.destroyed {
		t.Error("Destroy() was not called by Close()")
	}
	// Close is idempotent.
	s.Close()
}

func TestNewStreamOptionsWrongCodec(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	opts, status := ParseOptions("other", NewSchema(), nil, nil)
	if status != OK {
		t.Fatalf("ParseOptions() status = %v", status)
	}
	if _, status := NewStream(codec, Compress, opts); status != BadParam {
		t.Errorf("NewStream() status = %v, want BadParam", status)
	}
}

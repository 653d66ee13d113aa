// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func upperBuffer(out, in []byte, _ *Options) (int, Status) {
	if len(out) < len(in) {
		return 0, BufferFull
	}
	for i, c := range in {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return len(in), OK
}

func TestSpliceViaNativeCallback(t *testing.T) {
	resetRegistryForTest()
	defer resetRegistryForTest()

	codec, err := RegisterCodec("upper-splice", "", 0, 0, nil, BackendVector{
		CompressBuffer: upperBuffer,
		Splice: func(direction Direction, w ByteSink, r ByteSource, _ *Options) Status {
			buf := make([]byte, 4096)
			n, err := r.Read(buf)
			if err != nil && err != io.EOF {
				return Failed
			}
			if _, werr := upperBuffer(buf[:n], buf[:n], nil); werr != OK {
				return werr
			}
			w.Write(buf[:n])
			return OK
		},
	})
	if err != nil {
		t.Fatalf("RegisterCodec: %v", err)
	}

	var out bytes.Buffer
	status := Splice(codec, Compress, &out, strings.NewReader("hello"), 5, nil)
	if status != OK {
		t.Fatalf("Splice() status = %v, want OK", status)
	}
	if out.String() != "HELLO" {
		t.Errorf("output = %q, want HELLO", out.String())
	}
}

func TestSpliceViaStreamPump(t *testing.T) {
	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	var out bytes.Buffer
	status := Splice(codec, Compress, &out, strings.NewReader("abcdef"), 0, nil)
	if status != OK {
		t.Fatalf("Splice() status = %v, want OK", status)
	}
	if out.String() != "abcdef" {
		t.Errorf("output = %q, want abcdef", out.String())
	}
}

func TestSpliceViaBufferSlurp(t *testing.T) {
	resetRegistryForTest()
	defer resetRegistryForTest()

	codec, err := RegisterCodec("upper-buffer", "", 0, 0, nil, BackendVector{
		CompressBuffer: upperBuffer,
	})
	if err != nil {
		t.Fatalf("RegisterCodec: %v", err)
	}

	var out bytes.Buffer
	status := Splice(codec, Compress, &out, strings.NewReader("shout"), 0, nil)
	if status != OK {
		t.Fatalf("Splice() status = %v, want OK", status)
	}
	if out.String() != "SHOUT" {
		t.Errorf("output = %q, want SHOUT", out.String())
	}
}

func TestSetSpliceWindowSize(t *testing.T) {
	original := spliceWindowSize
	defer SetSpliceWindowSize(original)

	SetSpliceWindowSize(3)
	if spliceWindowSize != 3 {
		t.Fatalf("spliceWindowSize = %d, want 3", spliceWindowSize)
	}

	codec := chunkyCodec(t, 0)
	defer resetRegistryForTest()

	var out bytes.Buffer
	status := Splice(codec, Compress, &out, strings.NewReader("abcdefghi"), 0, nil)
	if status != OK {
		t.Fatalf("Splice() status = %v, want OK", status)
	}
	if out.String() != "abcdefghi" {
		t.Errorf("output = %q, want abcdefghi", out.String())
	}

	SetSpliceWindowSize(0) // zero must be ignored, not applied
	if spliceWindowSize != 3 {
		t.Errorf("SetSpliceWindowSize(0) changed spliceWindowSize to %d, want unchanged 3", spliceWindowSize)
	}
}

func TestSliceWriterReportsBufferFull(t *testing.T) {
	w := &sliceWriter{buf: make([]byte, 2)}
	n, err := w.Write([]byte("abc"))
	if n != 2 {
		t.Fatalf("Write() n = %d, want 2", n)
	}
	status := statusFromErr(err)
	if status != BufferFull {
		t.Errorf("statusFromErr(err) = %v, want BufferFull", status)
	}
}

func TestSliceReaderEOF(t *testing.T) {
	r := &sliceReader{data: []byte("ab")}
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	if n != 2 || err != nil {
		t.Fatalf("Read() = %d, %v, want 2, nil", n, err)
	}
	_, err = r.Read(buf)
	if err == nil {
		t.Error("second Read() err = nil, want io.EOF")
	}
}

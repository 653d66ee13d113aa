// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package lzo

import (
	"testing"

	"github.com/squashio/squash"
)

func TestLzoBufferRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("lzo")
	if !ok {
		t.Fatal("lzo codec not registered")
	}

	in := []byte("lzo1x round trip payload, lzo1x round trip payload")
	out := make([]byte, 256)
	n, status := squash.CompressBuffer(codec, out, in, nil)
	if status != squash.OK {
		t.Fatalf("CompressBuffer() status = %v, want OK", status)
	}

	decoded := make([]byte, len(in))
	m, status := squash.DecompressBuffer(codec, decoded, out[:n], nil)
	if status != squash.OK {
		t.Fatalf("DecompressBuffer() status = %v, want OK", status)
	}
	if string(decoded[:m]) != string(in) {
		t.Errorf("round trip = %q, want %q", decoded[:m], in)
	}
}

func TestLzoGetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("lzo")

	in := []byte("bounded lzo1x payload, bounded lzo1x payload")
	max, ok := codec.GetMaxCompressedSize(uint64(len(in)))
	if !ok {
		t.Fatal("GetMaxCompressedSize() ok = false")
	}

	out := make([]byte, max)
	n, status := squash.CompressBuffer(codec, out, in, nil)
	if status != squash.OK {
		t.Fatalf("CompressBuffer() status = %v, want OK", status)
	}
	if uint64(n) > max {
		t.Errorf("compressed length %d exceeds GetMaxCompressedSize() = %d", n, max)
	}
}

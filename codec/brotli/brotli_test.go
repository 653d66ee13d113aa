// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package brotli

import (
	"testing"

	"github.com/squashio/squash"
)

func TestBrotliBufferRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("brotli")
	if !ok {
		t.Fatal("brotli codec not registered")
	}

	in := []byte("brotli round trip payload, brotli round trip payload")
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

func TestBrotliGetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("brotli")

	in := []byte("bounded brotli payload, bounded brotli payload")
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

func TestBrotliCompressBufferTooSmall(t *testing.T) {
	codec, _ := squash.GetCodec("brotli")
	out := make([]byte, 1)
	if _, status := squash.CompressBuffer(codec, out, []byte("payload too large for a 1 byte buffer"), nil); status != squash.BufferFull {
		t.Errorf("status = %v, want BufferFull", status)
	}
}

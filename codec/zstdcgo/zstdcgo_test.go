// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package zstdcgo

import (
	"testing"

	"github.com/squashio/squash"
)

func TestZstdCgoBufferRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("zstd-cgo")
	if !ok {
		t.Fatal("zstd-cgo codec not registered")
	}

	in := []byte("zstd cgo round trip payload")
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

func TestZstdCgoGetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("zstd-cgo")

	in := []byte("zstd cgo bound payload, zstd cgo bound payload")
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


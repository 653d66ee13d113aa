// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package bzip2

import (
	"bytes"
	"strings"
	"testing"

	"github.com/squashio/squash"
)

func TestBzip2SpliceRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("bzip2")
	if !ok {
		t.Fatal("bzip2 codec not registered")
	}

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader(strings.Repeat("bzip2 payload ", 50)), 0, nil); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}

	var decompressed bytes.Buffer
	if status := squash.Splice(codec, squash.Decompress, &decompressed, bytes.NewReader(compressed.Bytes()), 0, nil); status != squash.OK {
		t.Fatalf("Splice(decompress) status = %v, want OK", status)
	}
	if decompressed.String() != strings.Repeat("bzip2 payload ", 50) {
		t.Errorf("round trip mismatch, got %d bytes", decompressed.Len())
	}
}

func TestBzip2GetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("bzip2")

	payload := []byte("bounded bzip2 payload, bounded bzip2 payload")
	max, ok := codec.GetMaxCompressedSize(uint64(len(payload)))
	if !ok {
		t.Fatal("GetMaxCompressedSize() ok = false")
	}

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, bytes.NewReader(payload), 0, nil); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}
	if uint64(compressed.Len()) > max {
		t.Errorf("compressed length %d exceeds GetMaxCompressedSize() = %d", compressed.Len(), max)
	}
}

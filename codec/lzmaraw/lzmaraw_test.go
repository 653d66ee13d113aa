// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package lzmaraw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/squashio/squash"
)

func TestLzmaRawSpliceRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("lzma-raw")
	if !ok {
		t.Fatal("lzma-raw codec not registered")
	}

	payload := strings.Repeat("alone format round trip payload. ", 200)

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader(payload), 0, nil); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}

	var decompressed bytes.Buffer
	if status := squash.Splice(codec, squash.Decompress, &decompressed, bytes.NewReader(compressed.Bytes()), 0, nil); status != squash.OK {
		t.Fatalf("Splice(decompress) status = %v, want OK", status)
	}
	if decompressed.String() != payload {
		t.Errorf("round trip mismatch: got %d bytes, want %d", decompressed.Len(), len(payload))
	}
}

func TestLzmaRawGetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("lzma-raw")

	payload := []byte("bounded alone-format payload, bounded alone-format payload")
	max, ok := codec.GetMaxCompressedSize(uint64(len(payload)))
	if !ok {
		t.Fatal("GetMaxCompressedSize() ok = false")
	}

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader(string(payload)), 0, nil); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}
	if uint64(compressed.Len()) > max {
		t.Errorf("compressed length %d exceeds GetMaxCompressedSize() = %d", compressed.Len(), max)
	}
}

func TestLzmaRawLevelOption(t *testing.T) {
	codec, _ := squash.GetCodec("lzma-raw")
	opts, status := squash.ParseOptions("lzma-raw", codec.Schema(), []string{"level"}, []string{"1"})
	if status != squash.OK {
		t.Fatalf("ParseOptions() status = %v, want OK", status)
	}

	payload := strings.Repeat("abc", 500)
	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader(payload), 0, opts); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}

	var decompressed bytes.Buffer
	if status := squash.Splice(codec, squash.Decompress, &decompressed, bytes.NewReader(compressed.Bytes()), 0, nil); status != squash.OK {
		t.Fatalf("Splice(decompress) status = %v, want OK", status)
	}
	if decompressed.String() != payload {
		t.Errorf("round trip mismatch: got %d bytes, want %d", decompressed.Len(), len(payload))
	}
}

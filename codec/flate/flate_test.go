// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package flate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/squashio/squash"
)

func TestFlateSpliceRoundTrip(t *testing.T) {
	codec, ok := squash.GetCodec("flate")
	if !ok {
		t.Fatal("flate codec not registered")
	}

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader("raw deflate payload"), 0, nil); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}

	var decompressed bytes.Buffer
	if status := squash.Splice(codec, squash.Decompress, &decompressed, bytes.NewReader(compressed.Bytes()), 0, nil); status != squash.OK {
		t.Fatalf("Splice(decompress) status = %v, want OK", status)
	}
	if decompressed.String() != "raw deflate payload" {
		t.Errorf("round trip = %q", decompressed.String())
	}
}

func TestFlateGetMaxCompressedSize(t *testing.T) {
	codec, _ := squash.GetCodec("flate")

	payload := []byte("bounded raw deflate payload, bounded raw deflate payload")
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

func TestFlateLevelOption(t *testing.T) {
	codec, _ := squash.GetCodec("flate")
	opts, status := squash.ParseOptions("flate", codec.Schema(), []string{"level"}, []string{"1"})
	if status != squash.OK {
		t.Fatalf("ParseOptions() status = %v, want OK", status)
	}

	var compressed bytes.Buffer
	if status := squash.Splice(codec, squash.Compress, &compressed, strings.NewReader("level one compression"), 0, opts); status != squash.OK {
		t.Fatalf("Splice(compress) status = %v, want OK", status)
	}

	var decompressed bytes.Buffer
	if status := squash.Splice(codec, squash.Decompress, &decompressed, bytes.NewReader(compressed.Bytes()), 0, nil); status != squash.OK {
		t.Fatalf("Splice(decompress) status = %v, want OK", status)
	}
	if decompressed.String() != "level one compression" {
		t.Errorf("round trip = %q", decompressed.String())
	}
}

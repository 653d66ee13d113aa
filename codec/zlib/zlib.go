// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package zlib registers the zlib codec backed by the standard
// library's compress/zlib, driven through the thread bridge for the
// same reason as package gzip: zlib.Writer/Reader are blocking
// io.Writer/io.Reader, not cursor-based.
package zlib

import (
	"compress/zlib"
	"io"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"zlib", "zz", 0,
		squash.RunInThread,
		nil,
		squash.BackendVector{
			InitBridge:           initBridge,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize is deflate's stored-block worst case, plus up
// to 5 bytes for the separate empty final block compress/flate writes
// on Close, plus zlib's 2-byte header and 4-byte Adler-32 trailer.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + 5*(n/16383+1) + 5 + 6, true
}

type bridge struct{ direction squash.Direction }

func initBridge(direction squash.Direction, _ *squash.Options) (squash.BridgeBackend, squash.Status) {
	return &bridge{direction: direction}, squash.OK
}

func (b *bridge) Run(r squash.ByteSource, w squash.ByteSink) error {
	if b.direction == squash.Compress {
		zw := zlib.NewWriter(w)
		if _, err := io.Copy(zw, r); err != nil {
			return err
		}
		return zw.Close()
	}
	zr, err := zlib.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = io.Copy(w, zr)
	return err
}

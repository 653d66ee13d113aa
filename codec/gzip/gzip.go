// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package gzip registers the gzip codec backed by the standard
// library's compress/gzip. gzip.Writer and gzip.Reader are only
// blocking io.Writer/io.Reader, so the codec is driven through the
// thread bridge rather than exposing native cursor streaming.
package gzip

import (
	"compress/gzip"
	"io"

	"github.com/squashio/squash"
)

func init() {
	squash.RegisterCodec(
		"gzip", "gz", 0,
		squash.RunInThread,
		nil,
		squash.BackendVector{
			InitBridge:           initBridge,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize is deflate's stored-block worst case (5 bytes
// of overhead per 16383-byte block), plus up to 5 bytes for the
// separate empty final block compress/flate writes on Close, plus the
// minimum gzip header and trailer (10-byte header, 8-byte CRC32+ISIZE
// trailer).
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + 5*(n/16383+1) + 5 + 18, true
}

type bridge struct{ direction squash.Direction }

func initBridge(direction squash.Direction, _ *squash.Options) (squash.BridgeBackend, squash.Status) {
	return &bridge{direction: direction}, squash.OK
}

func (b *bridge) Run(r squash.ByteSource, w squash.ByteSink) error {
	if b.direction == squash.Compress {
		gw := gzip.NewWriter(w)
		if _, err := io.Copy(gw, r); err != nil {
			return err
		}
		return gw.Close()
	}
	gr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gr.Close()
	_, err = io.Copy(w, gr)
	return err
}

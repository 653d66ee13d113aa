// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package flate registers the raw DEFLATE codec backed by
// github.com/klauspost/compress/flate, a drop-in, faster
// reimplementation of the standard library's compress/flate. Like
// gzip and zlib, flate.Writer/Reader are blocking io.Writer/io.Reader,
// so the codec is driven through the thread bridge.
package flate

import (
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "level",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: -2, Max: 9},
		Default: squash.IntValue(flate.DefaultCompression),
	},
)

func init() {
	squash.RegisterCodec(
		"flate", "deflate", 0,
		squash.RunInThread,
		schema,
		squash.BackendVector{
			InitBridge:           initBridge,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize is raw deflate's stored-block worst case plus up
// to 5 bytes for a separate empty final block written on Close, with
// no container overhead since flate has no header or trailer.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + 5*(n/16383+1) + 5, true
}

type bridge struct {
	direction squash.Direction
	level     int
}

func initBridge(direction squash.Direction, opts *squash.Options) (squash.BridgeBackend, squash.Status) {
	level := flate.DefaultCompression
	if opts != nil {
		level = int(opts.GetIntAt(0))
	}
	return &bridge{direction: direction, level: level}, squash.OK
}

func (b *bridge) Run(r squash.ByteSource, w squash.ByteSink) error {
	if b.direction == squash.Compress {
		fw, err := flate.NewWriter(w, b.level)
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, r); err != nil {
			return err
		}
		return fw.Close()
	}
	fr := flate.NewReader(r)
	defer fr.Close()
	_, err := io.Copy(w, fr)
	return err
}

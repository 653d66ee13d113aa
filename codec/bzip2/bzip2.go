// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package bzip2 registers the bzip2 codec backed by
// github.com/dsnet/compress/bzip2, the only actively maintained pure
// Go bzip2 encoder (the standard library only decodes). Like the
// DEFLATE-family codecs (gzip, zlib, flate) it is Writer/Reader based,
// so it runs through the thread bridge.
package bzip2

import (
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/squashio/squash"
)

var schema = squash.NewSchema(
	squash.SchemaEntry{
		Name:    "level",
		Type:    squash.OptionInt,
		Range:   squash.RangeConstraint{Min: 1, Max: 9},
		Default: squash.IntValue(6),
	},
)

func init() {
	squash.RegisterCodec(
		"bzip2", "bz2", 0,
		squash.RunInThread,
		schema,
		squash.BackendVector{
			InitBridge:           initBridge,
			GetMaxCompressedSize: getMaxCompressedSize,
		},
	)
}

// getMaxCompressedSize covers bzip2's block-header overhead, which can
// dominate the output on small or incompressible input.
func getMaxCompressedSize(n uint64) (uint64, bool) {
	return n + n/100 + 600, true
}

type bridge struct {
	direction squash.Direction
	level     int
}

func initBridge(direction squash.Direction, opts *squash.Options) (squash.BridgeBackend, squash.Status) {
	level := 6
	if opts != nil {
		level = int(opts.GetIntAt(0))
	}
	return &bridge{direction: direction, level: level}, squash.OK
}

func (b *bridge) Run(r squash.ByteSource, w squash.ByteSink) error {
	if b.direction == squash.Compress {
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: b.level})
		if err != nil {
			return err
		}
		if _, err := io.Copy(bw, r); err != nil {
			return err
		}
		return bw.Close()
	}
	br, err := bzip2.NewReader(r, nil)
	if err != nil {
		return err
	}
	defer br.Close()
	_, err = io.Copy(w, br)
	return err
}

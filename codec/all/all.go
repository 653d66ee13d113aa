// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package all registers every codec adapter this module ships by
// blank-importing each one. Importing all is equivalent to importing
// each codec/* package individually; it exists for callers (and
// cmd/squashc) that want the full set without naming them one by one.
package all

import (
	_ "github.com/squashio/squash/codec/brotli"
	_ "github.com/squashio/squash/codec/bzip2"
	_ "github.com/squashio/squash/codec/copy"
	_ "github.com/squashio/squash/codec/flate"
	_ "github.com/squashio/squash/codec/gzip"
	_ "github.com/squashio/squash/codec/lz4"
	_ "github.com/squashio/squash/codec/lz4cgo"
	_ "github.com/squashio/squash/codec/lzmaraw"
	_ "github.com/squashio/squash/codec/lzo"
	_ "github.com/squashio/squash/codec/s2"
	_ "github.com/squashio/squash/codec/snappy"
	_ "github.com/squashio/squash/codec/xz"
	_ "github.com/squashio/squash/codec/zlib"
	_ "github.com/squashio/squash/codec/zstd"
	_ "github.com/squashio/squash/codec/zstdcgo"
)

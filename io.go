// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import "io"

// ByteSource is the reader side of the splice and bridge contracts.
// It is satisfied by io.Reader; a named type keeps the public API
// (splice.go, bridge.go) reading as domain vocabulary rather than raw
// io.Reader/io.Writer, while still accepting any io.Reader/io.Writer a
// caller already has.
type ByteSource interface {
	io.Reader
}

// ByteSink is the writer side of the splice and bridge contracts.
type ByteSink interface {
	io.Writer
}

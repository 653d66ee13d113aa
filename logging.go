// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"log/slog"
	"sync/atomic"
)

// pkgLogger holds the package-wide logger behind an atomic.Pointer so
// SetLogger can be called concurrently with in-flight streams without
// a data race; streams read it once per lifecycle transition, not per
// byte, so the indirection costs nothing that matters.
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger overrides the logger used for registry, stream, bridge and
// splice diagnostics. Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

// Buffer is a growable owned byte vector with explicit size and
// capacity, used internally by the buffer-backed stream and the
// splice engine so that geometric growth, steal and release are
// implemented once and tested independent of any particular codec.
//
// A zero-value Buffer is ready to use.
type Buffer struct {
	data []byte
}

// Len returns the used size of the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Bytes returns the buffer's used contents. The returned slice aliases
// the buffer's storage and is invalidated by the next call to Append,
// Clear, SetSize, Steal or Release.
func (b *Buffer) Bytes() []byte { return b.data }

// Append grows the buffer's capacity to the smallest power of two at
// or above the new used size (at least 64), if needed, and appends p
// to the used region. It never fails in Go (allocation failure panics, as is
// idiomatic), but keeps the bool return so callers can treat a future
// allocation-limited implementation uniformly.
func (b *Buffer) Append(p []byte) bool {
	needed := len(b.data) + len(p)
	if needed > cap(b.data) {
		newCap := ceilPow2(needed)
		grown := make([]byte, len(b.data), newCap)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, p...)
	return true
}

// Clear resets the used size to zero without releasing capacity.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
}

// SetSize shrinks the used size. Growing via SetSize is not supported;
// use Append to grow.
func (b *Buffer) SetSize(n int) bool {
	if n > len(b.data) {
		return false
	}
	b.data = b.data[:n]
	return true
}

// Steal transfers the buffer's storage out, resetting the receiver to
// empty. The caller now owns the returned slice.
func (b *Buffer) Steal() []byte {
	out := b.data
	b.data = nil
	return out
}

// Release is an alias for Steal, where a richer implementation might
// additionally reset internal bookkeeping steal leaves alone. Our
// Buffer carries none, so the two are identical.
func (b *Buffer) Release() []byte { return b.Steal() }

// ceilPow2 returns the smallest power of two greater than or equal to
// n, with a floor of 64 bytes so small buffers don't thrash on every
// append.
func ceilPow2(n int) int {
	if n < 64 {
		return 64
	}
	p := 64
	for p < n {
		p <<= 1
	}
	return p
}

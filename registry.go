// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"fmt"
	"sort"
	"sync"
)

// registry is the process-wide, effectively read-only-after-init codec
// map: the one legitimate process-wide singleton in this package.
// Registration happens at package init time via each codec adapter's
// blank import calling RegisterCodec; lookups afterward take only the
// read lock, so they never contend with one another.
type registry struct {
	mu         sync.RWMutex
	byName     map[string]*Codec
	byExt      []*Codec // kept sorted by priority descending per extension on insert
}

var globalRegistry = &registry{byName: make(map[string]*Codec)}

// RegisterCodec registers a codec's metadata and back-end vector under
// name. Re-registering a name is an error. A codec whose back-end
// vector has no compression entry point at all (none of
// CompressBuffer, CompressBufferUnsafe, InitStream, InitBridge,
// Splice) fails to register.
func RegisterCodec(name, extension string, priority int, flags CapabilityFlags, schema *Schema, backend BackendVector) (*Codec, error) {
	if name == "" {
		logger().Debug("codec registration failed", "name", name, "reason", "empty name")
		return nil, fmt.Errorf("squash: codec name must not be empty")
	}
	if !backend.hasCompressionEntryPoint() {
		logger().Debug("codec registration failed", "name", name, "reason", "no compression entry point")
		return nil, fmt.Errorf("squash: codec %q has no compression entry point", name)
	}

	c := &Codec{
		name:      name,
		extension: extension,
		priority:  priority,
		flags:     flags,
		schema:    schema,
		backend:   backend,
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, exists := globalRegistry.byName[name]; exists {
		logger().Debug("codec registration failed", "name", name, "reason", "duplicate name")
		return nil, fmt.Errorf("squash: codec %q already registered", name)
	}
	globalRegistry.byName[name] = c
	globalRegistry.byExt = append(globalRegistry.byExt, c)
	sort.SliceStable(globalRegistry.byExt, func(i, j int) bool {
		return globalRegistry.byExt[i].priority > globalRegistry.byExt[j].priority
	})
	logger().Debug("codec registered", "name", name, "extension", extension, "flags", flags)
	return c, nil
}

// GetCodec resolves a codec by its registered, case-sensitive name.
func GetCodec(name string) (*Codec, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	c, ok := globalRegistry.byName[name]
	return c, ok
}

// GetCodecFromExtension resolves the highest-priority codec that
// declares ext as its extension.
func GetCodecFromExtension(ext string) (*Codec, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	for _, c := range globalRegistry.byExt {
		if c.extension == ext {
			return c, true
		}
	}
	return nil, false
}

// ForeachCodec calls fn once per registered codec, in an unspecified
// order, stopping early if fn returns false.
func ForeachCodec(fn func(*Codec) bool) {
	globalRegistry.mu.RLock()
	codecs := make([]*Codec, 0, len(globalRegistry.byName))
	for _, c := range globalRegistry.byName {
		codecs = append(codecs, c)
	}
	globalRegistry.mu.RUnlock()

	for _, c := range codecs {
		if !fn(c) {
			return
		}
	}
}

// resetRegistryForTest clears the global registry. It exists so
// package tests can register throwaway codecs without colliding with
// real adapters' init-time registrations; production code never calls
// it.
func resetRegistryForTest() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.byName = make(map[string]*Codec)
	globalRegistry.byExt = nil
}

// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Package config loads runtime defaults from environment variables:
// os.Getenv plus strconv, kept small and direct rather than routed
// through a tag-driven env-parsing library, since there's only a
// handful of scalar settings to resolve.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/squashio/squash"
)

const envPrefix = "SQUASH_"

// Config holds the process-wide defaults an embedder or the squashc
// CLI may tune without recompiling.
type Config struct {
	// SpliceWindowSize overrides the splice engine's default
	// read/process/write window, in bytes. Applied via
	// squash.SetSpliceWindowSize.
	SpliceWindowSize int
	// AdaptiveGrowthCap overrides the ceiling of the geometric scratch
	// growth the buffer-backed stream (and the splice slurp built on
	// it) uses when the output size is not known, in bytes. Applied via
	// squash.SetAdaptiveGrowthCap.
	AdaptiveGrowthCap int
	// DefaultCodec names the codec used when a caller (such as
	// cmd/squashc) does not specify one explicitly.
	DefaultCodec string
}

// Default returns the configuration squashc and other embedders should
// start from before applying environment overrides.
func Default() Config {
	return Config{
		SpliceWindowSize:  64 * 1024,
		AdaptiveGrowthCap: 1 << 20,
		DefaultCodec:      "xz",
	}
}

// LoadFromEnv returns Default() with any SQUASH_* environment
// variables applied on top, and pushes SpliceWindowSize and
// AdaptiveGrowthCap into the squash package's own defaults so every
// Splice/CompressBuffer call in the process picks them up. A malformed
// numeric value is reported as an error rather than silently ignored.
func LoadFromEnv() (Config, error) {
	cfg := Default()

	if v, ok := lookup("SPLICE_WINDOW_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("config: %s must be a positive integer", envPrefix+"SPLICE_WINDOW_SIZE")
		}
		cfg.SpliceWindowSize = n
	}
	if v, ok := lookup("ADAPTIVE_GROWTH_CAP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("config: %s must be a positive integer", envPrefix+"ADAPTIVE_GROWTH_CAP")
		}
		cfg.AdaptiveGrowthCap = n
	}
	if v, ok := lookup("DEFAULT_CODEC"); ok {
		cfg.DefaultCodec = v
	}

	squash.SetSpliceWindowSize(cfg.SpliceWindowSize)
	squash.SetAdaptiveGrowthCap(cfg.AdaptiveGrowthCap)

	return cfg, nil
}

func lookup(suffix string) (string, bool) {
	return os.LookupEnv(envPrefix + suffix)
}

// OptionsFromEnv builds an *squash.Options for codec by reading one
// environment variable per schema entry, named
// SQUASH_<CODEC>_<OPTION> (both upper-cased). Entries with no matching
// variable resolve to their schema default, exactly as ParseOptions
// leaves them.
func OptionsFromEnv(codec *squash.Codec) (*squash.Options, squash.Status) {
	schema := codec.Schema()
	if schema == nil {
		return squash.ParseOptions(codec.Name(), squash.NewSchema(), nil, nil)
	}

	var keys, values []string
	prefix := envPrefix + upper(codec.Name()) + "_"
	for i := 0; i < schema.Len(); i++ {
		entry := schema.Entry(i)
		v, ok := os.LookupEnv(prefix + upper(entry.Name))
		if !ok {
			continue
		}
		keys = append(keys, entry.Name)
		values = append(values, v)
	}
	return squash.ParseOptions(codec.Name(), schema, keys, values)
}

func upper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		} else if c == '-' {
			c = '_'
		}
		out[i] = c
	}
	return string(out)
}

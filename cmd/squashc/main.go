// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

// Command squashc compresses or decompresses stdin to stdout using a
// named codec, in the spirit of xzdec: a thin io.Copy over whichever
// codec's stream or splice entry point applies.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/squashio/squash"
	_ "github.com/squashio/squash/codec/all"
	"github.com/squashio/squash/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "squashc:", err)
		os.Exit(1)
	}

	var (
		decompress = flag.Bool("d", false, "decompress instead of compress")
		codecName  = flag.String("codec", cfg.DefaultCodec, "codec name to use")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		squash.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(*codecName, *decompress); err != nil {
		fmt.Fprintln(os.Stderr, "squashc:", err)
		os.Exit(1)
	}
}

func run(codecName string, decompress bool) error {
	codec, ok := squash.GetCodec(codecName)
	if !ok {
		return fmt.Errorf("unknown codec %q", codecName)
	}

	direction := squash.Compress
	if decompress {
		direction = squash.Decompress
	}

	opts, status := config.OptionsFromEnv(codec)
	if status != squash.OK {
		return fmt.Errorf("parsing options from environment: %s", status)
	}

	status = squash.Splice(codec, direction, os.Stdout, os.Stdin, 0, opts)
	if status != squash.OK {
		return fmt.Errorf("%s: %s", direction, status)
	}
	return nil
}

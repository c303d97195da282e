// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command ggedit runs the editor headlessly from a script and saves the
// result as PNG.
//
// Usage:
//
//	ggedit -width 1280 -height 800 -script edit.txt -output out.png
//
// Without -script, commands are read from standard input. See script.go for
// the command set.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/ggedit"
)

func main() {
	var (
		width    = flag.Int("width", 1280, "surface width")
		height   = flag.Int("height", 800, "surface height")
		script   = flag.String("script", "", "script file (default: stdin)")
		output   = flag.String("output", "ggedit.png", "output file, empty to skip")
		imageURL = flag.String("image-url", ggedit.DefaultImageURL, "image added by the image tool")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	host, err := ggedit.NewHost(*width, *height, ggedit.WithImageURL(*imageURL))
	if err != nil {
		log.Fatalf("Failed to create host: %v", err)
	}
	defer host.Close()

	var in io.Reader = os.Stdin
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			log.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		in = f
	}

	r := newRunner(host)
	defer r.close()
	if err := r.run(ctx, in); err != nil {
		log.Fatalf("Script failed: %v", err)
	}

	if *output != "" {
		if err := host.SavePNG(*output); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		w, h := host.Size()
		log.Printf("Saved %s (%dx%d, %d objects)\n", *output, w, h, len(host.Editor().Objects()))
	}
}

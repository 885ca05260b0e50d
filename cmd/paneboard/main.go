// Package main is the entry point for the paneboard on-screen keyboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/paneboard/internal/app"
	"github.com/dshills/paneboard/internal/config"
	"github.com/dshills/paneboard/internal/layout"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		target      string
		layoutPath  string
		showVersion bool
		dumpLayout  bool
	)
	flag.StringVar(&configPath, "config", "", "path to configuration file")
	flag.StringVar(&target, "t", "", "target pane (tmux target syntax, e.g. %3 or session:1.0)")
	flag.StringVar(&layoutPath, "layout", "", "path to layout document")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&dumpLayout, "dump-layout", false, "print the built-in layout document and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("paneboard %s (%s)\n", version, commit)
		return 0
	}
	if dumpLayout {
		os.Stdout.Write(layout.DefaultDocument())
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if target != "" {
		cfg.Target = target
	}
	if layoutPath != "" {
		cfg.LayoutPath = layoutPath
	}
	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: no target pane; use -t or set target in the config file")
		return 1
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gc9a01display runs the GC9A01 display usermod against a simulated LED
// controller host.
//
// With real hardware the panel is driven over SPI. With --preview the panel
// is emulated in memory and served as an image on the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	spi      string
	dc       string
	rst      string
	bl       string
	config   string
	httpAddr string
	preview  bool
	leds     int
	strip    bool
	tick     time.Duration
	verbose  bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "gc9a01display",
		Short: "Show the LED controller status on a GC9A01 round display",
		Long: `Runs the GC9A01 display usermod in a simulated LED controller host.

The module settings are read from and written back to the JSON config file.
When --http is set, the host serves /json/info, /json/cfg, /json/state and,
with --preview, /preview.png.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.spi, "spi", "", "SPI port to use")
	f.StringVar(&o.dc, "dc", "GPIO16", "data/command pin")
	f.StringVar(&o.rst, "rst", "GPIO17", "reset pin, empty if not connected")
	f.StringVar(&o.bl, "bl", "GPIO4", "backlight pin, empty if not connected")
	f.StringVar(&o.config, "config", "cfg.json", "configuration file")
	f.StringVar(&o.httpAddr, "http", "", "listen address of the JSON API, e.g. :8080")
	f.BoolVar(&o.preview, "preview", false, "emulate the panel instead of using SPI")
	f.IntVar(&o.leds, "leds", 30, "number of simulated LEDs")
	f.BoolVar(&o.strip, "strip", false, "show the simulated LEDs in the terminal")
	f.DurationVar(&o.tick, "tick", 20*time.Millisecond, "main loop period")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

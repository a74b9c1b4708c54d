// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/GermanBionicSystems/usermods/backlight"
	"github.com/GermanBionicSystems/usermods/gc9a01"
	"github.com/GermanBionicSystems/usermods/gc9a01display"
	"github.com/GermanBionicSystems/usermods/preview"
	"github.com/GermanBionicSystems/usermods/simhost"
	"github.com/GermanBionicSystems/usermods/stripsim"
	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/hashicorp/go-hclog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// devices are the display outputs, released in reverse order by close.
type devices struct {
	panel     display.Drawer
	backlight display.DisplayBacklight
	preview   *preview.Sink
	closers   []func() error
}

func (d *devices) close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

func openPreview() *devices {
	s := preview.New(&preview.DefaultOpts)
	return &devices{panel: s, backlight: s, preview: s, closers: []func() error{s.Halt}}
}

func openHardware(o *options) (*devices, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(o.spi)
	if err != nil {
		return nil, err
	}
	d := &devices{closers: []func() error{p.Close}}
	dc := gpioreg.ByName(o.dc)
	if dc == nil {
		d.close()
		return nil, fmt.Errorf("unknown dc pin %q", o.dc)
	}
	var rst gpio.PinOut
	if o.rst != "" {
		pin := gpioreg.ByName(o.rst)
		if pin == nil {
			d.close()
			return nil, fmt.Errorf("unknown rst pin %q", o.rst)
		}
		rst = pin
	}
	dev, err := gc9a01.New(p, dc, rst, &gc9a01.DefaultOpts)
	if err != nil {
		d.close()
		return nil, err
	}
	d.panel = dev
	d.closers = append(d.closers, dev.Halt)
	if o.bl != "" {
		pin := gpioreg.ByName(o.bl)
		if pin == nil {
			d.close()
			return nil, fmt.Errorf("unknown backlight pin %q", o.bl)
		}
		bl, err := backlight.New(pin, 0)
		if err != nil {
			d.close()
			return nil, err
		}
		d.backlight = bl
		d.closers = append(d.closers, bl.Halt)
	}
	return d, nil
}

func run(ctx context.Context, o *options) error {
	level := hclog.Info
	if o.verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: "gc9a01display", Level: level, Output: os.Stderr})

	var devs *devices
	if o.preview {
		devs = openPreview()
	} else {
		var err error
		if devs, err = openHardware(o); err != nil {
			return err
		}
	}
	defer func() {
		if err := devs.close(); err != nil {
			logger.Warn("closing devices failed", "error", err)
		}
	}()
	logger.Debug("display", "panel", devs.panel)

	h := &runner{
		logger: logger,
		state:  simhost.New(&simhost.Opts{LEDs: o.leds}),
		reg:    usermod.NewRegistry(logger),
	}
	if o.strip {
		s, err := stripsim.New(&stripsim.Opts{Length: o.leds})
		if err != nil {
			return err
		}
		defer s.Halt()
		h.strip = s
	}
	mod := gc9a01display.New(&gc9a01display.Opts{Panel: devs.panel, Backlight: devs.backlight, Logger: logger})
	if err := h.reg.Register(mod); err != nil {
		return err
	}

	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}
	if !h.readConfig(cfg) {
		logger.Info("writing default configuration", "path", o.config)
		if err := saveConfig(o.config, h.config()); err != nil {
			return err
		}
	}
	h.reg.Setup()

	if o.httpAddr != "" {
		var img http.Handler
		if devs.preview != nil {
			img = devs.preview
		}
		srv := &http.Server{Addr: o.httpAddr, Handler: h.handler(img), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving", "addr", o.httpAddr)
	} else if o.preview {
		logger.Warn("--preview without --http, the frames are not visible")
	}

	t := time.NewTicker(o.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("saving configuration", "path", o.config)
			return saveConfig(o.config, h.config())
		case now := <-t.C:
			h.tick(now)
		}
	}
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stripsim shows a LED strip as a line of colored blocks in a
// terminal, using ANSI 256 color codes.
//
// The line is redrawn in place on each update, so an animation plays on a
// single terminal row.
package stripsim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts defines the simulated strip.
type Opts struct {
	// Length is the number of LEDs.
	Length int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Output defaults to the process stdout, with ANSI support on Windows.
	Output io.Writer
}

// Dev is a LED strip drawn on a terminal. It implements display.Drawer.
type Dev struct {
	w       io.Writer
	palette *ansi256.Palette

	mu     sync.Mutex
	leds   []color.NRGBA
	buf    bytes.Buffer
	halted bool
}

// New returns a strip with every LED off.
func New(opts *Opts) (*Dev, error) {
	if opts.Length <= 0 {
		return nil, fmt.Errorf("stripsim: invalid length %d", opts.Length)
	}
	d := &Dev{
		w:       opts.Output,
		palette: opts.Palette,
		leds:    make([]color.NRGBA, opts.Length),
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.palette == nil {
		d.palette = ansi256.Default
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("stripsim.Dev{%d}", len(d.leds))
}

// Halt implements conn.Resource. It resets the terminal attributes and ends
// the line.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	_, err := io.WriteString(d.w, "\033[0m\n")
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer. The strip is one pixel high.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(d.leds), 1)
}

// Draw implements display.Drawer. Only the first row of r is used.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for x := r.Min.X; x < r.Max.X; x++ {
		c := src.At(sp.X+x-r.Min.X, sp.Y)
		d.leds[x] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return d.refreshLocked()
}

// Write accepts raw RGB triplets starting at the first LED.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("stripsim: invalid RGB stream length")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n := min(len(pixels)/3, len(d.leds))
	for i := 0; i < n; i++ {
		d.leds[i] = color.NRGBA{pixels[3*i], pixels[3*i+1], pixels[3*i+2], 255}
	}
	return len(pixels), d.refreshLocked()
}

func (d *Dev) refreshLocked() error {
	d.halted = false
	d.buf.Reset()
	d.buf.WriteString("\r\033[0m")
	for _, c := range d.leds {
		d.buf.WriteString(d.palette.Block(c))
	}
	d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}

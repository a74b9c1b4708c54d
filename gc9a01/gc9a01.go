// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/GermanBionicSystems/usermods/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Rotation is the orientation of the panel memory relative to the glass.
type Rotation byte

// Possible rotations, clockwise.
const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

func (r Rotation) String() string {
	switch r {
	case Rotation0:
		return "0°"
	case Rotation90:
		return "90°"
	case Rotation180:
		return "180°"
	case Rotation270:
		return "270°"
	}
	return fmt.Sprintf("Rotation(%d)", byte(r))
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// Frequency is the SPI clock. The controller is specified up to 100MHz
	// for writes but most breakout boards are unreliable above 40MHz.
	Frequency physic.Frequency
	// Rotation is applied by Init().
	Rotation Rotation
}

// DefaultOpts is the recommended default options for the common 1.28"
// round module.
var DefaultOpts = Opts{
	W:         240,
	H:         240,
	Frequency: 27 * physic.MegaHertz,
	Rotation:  Rotation0,
}

// defaultMaxTxSize is used when the SPI connection does not report a limit.
const defaultMaxTxSize = 4096

// Dev is an open handle to the display controller.
type Dev struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinOut

	opts     Opts
	rect     image.Rectangle
	maxTx    int
	rotation Rotation

	// buffer mirrors the panel memory. next is the frame being composed.
	buffer *rgb565.Image
	next   *rgb565.Image
	// full forces the next Draw() to send every row it touches.
	full   bool
	halted bool
}

// New returns a Dev object that communicates over SPI to a GC9A01 display
// controller.
//
// The panel is not initialized; call Init() before the first Draw().
func New(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("gc9a01: dc pin is required")
	}
	if opts.W <= 0 || opts.H <= 0 || opts.W > 0xFFFF || opts.H > 0xFFFF {
		return nil, fmt.Errorf("gc9a01: invalid size %dx%d", opts.W, opts.H)
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultOpts.Frequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, wrap(err)
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, wrap(err)
	}
	return newDev(c, dc, rst, opts), nil
}

func newDev(c conn.Conn, dc, rst gpio.PinOut, opts *Opts) *Dev {
	rect := image.Rect(0, 0, opts.W, opts.H)
	maxTx := defaultMaxTxSize
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		maxTx = l.MaxTxSize()
	}
	return &Dev{
		c:        c,
		dc:       dc,
		rst:      rst,
		opts:     *opts,
		rect:     rect,
		maxTx:    maxTx,
		rotation: opts.Rotation,
		buffer:   rgb565.NewImage(rect),
		next:     rgb565.NewImage(rect),
		full:     true,
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("gc9a01.Dev{%s, %s, %s}", d.c, d.dc, d.rect.Max)
}

// Init resets the controller and runs the power-on sequence. The panel
// memory content is undefined afterward, so the next Draw() sends every row
// it covers.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}
	if d.rst != nil {
		eh.rstOut(gpio.High)
		eh.delay(10 * time.Millisecond)
		eh.rstOut(gpio.Low)
		eh.delay(10 * time.Millisecond)
		eh.rstOut(gpio.High)
		eh.delay(120 * time.Millisecond)
	} else {
		eh.sendCommand(swReset)
		eh.delay(150 * time.Millisecond)
	}
	initDisplay(&eh)
	setRotation(&eh, d.rotation)
	if eh.err != nil {
		return wrap(eh.err)
	}
	d.full = true
	d.halted = false
	return nil
}

// SetRotation changes the memory orientation. Width and height are swapped
// for 90° and 270° on non-square panels.
func (d *Dev) SetRotation(r Rotation) error {
	if r > Rotation270 {
		return fmt.Errorf("gc9a01: invalid rotation %s", r)
	}
	eh := errorHandler{d: d}
	setRotation(&eh, r)
	if eh.err != nil {
		return wrap(eh.err)
	}
	w, h := d.opts.W, d.opts.H
	if r == Rotation90 || r == Rotation270 {
		w, h = h, w
	}
	if d.rect.Dx() != w || d.rect.Dy() != h {
		d.rect = image.Rect(0, 0, w, h)
		d.buffer = rgb565.NewImage(d.rect)
		d.next = rgb565.NewImage(d.rect)
	}
	d.rotation = r
	d.full = true
	return nil
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() Rotation {
	return d.rotation
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It draws synchronously, once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	copy(d.next.Pix, d.buffer.Pix)
	draw.Src.Draw(d.next, r, src, sp)
	return d.drawInternal(r)
}

// Write writes a full frame of big endian RGB565 pixels.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.buffer.Pix) {
		return 0, fmt.Errorf("gc9a01: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.buffer.Pix), len(pixels))
	}
	copy(d.next.Pix, pixels)
	if err := d.drawInternal(d.rect); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt turns off the display and enters sleep mode.
//
// Drawing afterward reenables the display.
func (d *Dev) Halt() error {
	eh := errorHandler{d: d}
	eh.sendCommand(displayOff)
	eh.sendCommand(sleepIn)
	eh.delay(5 * time.Millisecond)
	if eh.err != nil {
		return wrap(eh.err)
	}
	d.halted = true
	return nil
}

// changedRows returns the band of rows within r where next differs from
// buffer.
func (d *Dev) changedRows(r image.Rectangle) (int, int, bool) {
	if d.full {
		return r.Min.Y, r.Max.Y, true
	}
	top, bottom := r.Min.Y, r.Max.Y
	for ; top < bottom; top++ {
		if !bytes.Equal(d.buffer.Row(top, r.Min.X, r.Max.X), d.next.Row(top, r.Min.X, r.Max.X)) {
			break
		}
	}
	for ; bottom > top; bottom-- {
		if !bytes.Equal(d.buffer.Row(bottom-1, r.Min.X, r.Max.X), d.next.Row(bottom-1, r.Min.X, r.Max.X)) {
			break
		}
	}
	return top, bottom, top != bottom
}

// drawInternal sends the changed part of r to the controller.
func (d *Dev) drawInternal(r image.Rectangle) error {
	top, bottom, ok := d.changedRows(r)
	if !ok {
		// Early exit, the image is exactly the same.
		return nil
	}
	area := image.Rect(r.Min.X, top, r.Max.X, bottom)

	eh := errorHandler{d: d}
	if d.halted {
		eh.sendCommand(sleepOut)
		eh.delay(120 * time.Millisecond)
		eh.sendCommand(displayOn)
	}
	setWindow(&eh, area)
	eh.sendRows(d.next, area)
	if eh.err != nil {
		return wrap(eh.err)
	}
	d.halted = false
	if d.full && area == d.rect {
		d.full = false
	}
	// Only commit what was sent so a partial draw after Init() does not mark
	// the rest of the panel as known.
	for y := area.Min.Y; y < area.Max.Y; y++ {
		copy(d.buffer.Row(y, area.Min.X, area.Max.X), d.next.Row(y, area.Min.X, area.Max.X))
	}
	return nil
}

func wrap(err error) error {
	return fmt.Errorf("gc9a01: %w", err)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}

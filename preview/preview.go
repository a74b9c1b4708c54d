// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview emulates a round TFT panel and its backlight in memory and
// serves what a viewer would see over HTTP.
//
// GET returns a single image. With "?stream=1" the response is an endless
// "multipart/x-mixed-replace" stream (MJPEG) updated on every change, which
// browsers render as live video. The format defaults to PNG and can be
// selected with "?format=png" or "?format=jpeg".
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"sync"

	"periph.io/x/conn/v3/display"
)

// Opts defines the emulated panel.
type Opts struct {
	W int
	H int
	// Round blanks the corners hidden by a round glass.
	Round bool
	// Format is the default image format sent to clients.
	Format Format
}

// DefaultOpts matches a 1.28" GC9A01 module.
var DefaultOpts = Opts{W: 240, H: 240, Round: true, Format: PNG}

// Sink is an in-memory panel. It implements display.Drawer,
// display.DisplayBacklight and http.Handler.
type Sink struct {
	opts Opts

	mu      sync.Mutex
	frame   *image.RGBA
	level   display.Intensity
	encoded map[Format][]byte
	clients map[*client]struct{}
}

// New returns a black panel with the backlight fully on.
func New(opts *Opts) *Sink {
	frame := image.NewRGBA(image.Rect(0, 0, opts.W, opts.H))
	draw.Draw(frame, frame.Bounds(), image.Black, image.Point{}, draw.Src)
	return &Sink{
		opts:    *opts,
		frame:   frame,
		level:   255,
		encoded: map[Format][]byte{},
		clients: map[*client]struct{}{},
	}
}

func (s *Sink) String() string {
	return fmt.Sprintf("preview.Sink{%dx%d}", s.opts.W, s.opts.H)
}

// Halt implements conn.Resource. It ends every running stream.
func (s *Sink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Sink) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (s *Sink) Bounds() image.Rectangle {
	return s.frame.Bounds()
}

// Draw implements display.Drawer.
func (s *Sink) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.frame, r, src, sp, draw.Src)
	s.changedLocked()
	return nil
}

// Backlight implements display.DisplayBacklight. The intensity is clamped to
// [0, 255] and scales every channel of the served image.
func (s *Sink) Backlight(intensity display.Intensity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = min(max(intensity, 0), 255)
	s.changedLocked()
	return nil
}

// Snapshot returns what the panel shows: the frame dimmed by the backlight
// and masked by the glass.
func (s *Sink) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Sink) snapshotLocked() *image.RGBA {
	b := s.frame.Bounds()
	out := image.NewRGBA(b)
	level := uint32(s.level)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := s.frame.RGBAAt(x, y)
			if s.opts.Round && !insideGlass(b, x, y) {
				c = color.RGBA{}
			}
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(uint32(c.R) * level / 255),
				G: uint8(uint32(c.G) * level / 255),
				B: uint8(uint32(c.B) * level / 255),
				A: 255,
			})
		}
	}
	return out
}

// insideGlass reports whether the center of pixel (x, y) is within the
// circle inscribed in b.
func insideGlass(b image.Rectangle, x, y int) bool {
	r := float64(min(b.Dx(), b.Dy())) / 2
	dx := float64(x-b.Min.X) + 0.5 - float64(b.Dx())/2
	dy := float64(y-b.Min.Y) + 0.5 - float64(b.Dy())/2
	return dx*dx+dy*dy <= r*r
}

// changedLocked drops the cached encodings and wakes up the streams.
func (s *Sink) changedLocked() {
	clear(s.encoded)
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

var _ display.Drawer = &Sink{}
var _ display.DisplayBacklight = &Sink{}
var _ http.Handler = &Sink{}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements the 16 bits per pixel color encoding used by
// small TFT controllers like the GC9A01 and ILI9341.
//
// Red uses 5 bits, green 6 bits and blue 5 bits. The in-memory layout of
// Image is big endian, which is the byte order the controllers expect on the
// wire, so rows of Pix can be sent as-is.
package rgb565

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a 16 bits RGB color.
type Color uint16

// Colors of the panel palette.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// FromRGB encodes 8 bits per channel values, dropping the least significant
// bits.
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// FromPacked encodes a 0xWWRRGGBB value as used by LED strip buffers. The
// white channel is ignored.
func FromPacked(c uint32) Color {
	return FromRGB(uint8(c>>16), uint8(c>>8), uint8(c))
}

// RGB returns the 8 bits per channel expansion of the color.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c >> 11)
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := c.RGB()
	return uint32(r) * 0x101, uint32(g) * 0x101, uint32(b) * 0x101, 0xFFFF
}

// Model converts any color to Color.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Image is an in-memory image of RGB565 pixels.
type Image struct {
	// Pix holds two bytes per pixel, most significant byte first.
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewImage returns an Image of the given bounds, filled with Black.
func NewImage(r image.Rectangle) *Image {
	w := r.Dx()
	return &Image{Pix: make([]byte, 2*w*r.Dy()), Stride: 2 * w, Rect: r}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At is the optimized version of At.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return Black
	}
	o := i.PixOffset(x, y)
	return Color(uint16(i.Pix[o])<<8 | uint16(i.Pix[o+1]))
}

// Opaque reports that the image is fully opaque.
func (i *Image) Opaque() bool {
	return true
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, convert(c).(Color))
}

// SetRGB565 is the optimized version of Set.
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	i.Pix[o] = byte(c >> 8)
	i.Pix[o+1] = byte(c)
}

// Row returns the bytes of row y between columns [x0, x1).
func (i *Image) Row(y, x0, x1 int) []byte {
	return i.Pix[i.PixOffset(x0, y):i.PixOffset(x1, y)]
}

var _ draw.Image = &Image{}
var _ color.Color = Black

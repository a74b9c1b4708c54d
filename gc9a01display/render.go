// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01display

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/GermanBionicSystems/usermods/rgb565"
	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Screen layout, in pixels from the top-left corner of a 240x240 panel.
var (
	wifiAt       = image.Pt(10, 10)
	clockAt      = image.Pt(150, 10)
	powerAt      = image.Pt(10, 40)
	brightnessAt = image.Pt(10, 70)
	levelAt      = image.Pt(10, 90)
	effectAt     = image.Pt(10, 120)
	labelAt      = image.Pt(10, 140)
	swatch       = image.Rect(10, 170, 70, 200)
	splashAt     = image.Pt(120, 100)
	subtitleAt   = image.Pt(120, 130)
)

const (
	maxLabelLen   = 15
	truncatedLen  = 12
	ellipsis      = "..."
	playlistLabel = "Playlist"
)

// snapshot is what the screen currently shows. The LED color is left out so
// animated effects do not repaint the screen on every pass.
type snapshot struct {
	power      bool
	brightness uint8
	effect     string
	wifi       bool
	clock      string
}

func takeSnapshot(s usermod.State) snapshot {
	snap := snapshot{
		brightness: s.Brightness(),
		effect:     effectLabel(s),
		wifi:       s.WiFiConnected(),
	}
	snap.power = snap.brightness > 0
	if s.TimeValid() {
		snap.clock = s.TimeString()
	}
	return snap
}

// effectLabel returns the name shown for the running effect. An out of range
// mode shows nothing.
func effectLabel(s usermod.State) string {
	if s.Playlist() >= 0 {
		return playlistLabel
	}
	names := s.EffectNames()
	if m := s.Mode(); m >= 0 && m < len(names) {
		return names[m]
	}
	return ""
}

// truncateLabel shortens labels longer than maxLabelLen runes to
// truncatedLen runes followed by an ellipsis.
func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:truncatedLen]) + ellipsis
}

// canvas is the off-screen frame composed before being sent to the panel.
type canvas struct {
	img   *image.RGBA
	dc    *gg.Context
	faces faces
}

func newCanvas(r image.Rectangle) *canvas {
	img := image.NewRGBA(r)
	return &canvas{img: img, dc: gg.NewContextForRGBA(img), faces: newFaces()}
}

func (c *canvas) clear() {
	c.dc.SetColor(rgb565.Black)
	c.dc.Clear()
}

// text draws s with its top-left corner at p.
func (c *canvas) text(s string, p image.Point, f font.Face, col color.Color) {
	if s == "" {
		return
	}
	c.dc.SetFontFace(f)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, float64(p.X), float64(p.Y), 0, 1)
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, &image.Uniform{col}, image.Point{}, draw.Src)
}

func (c *canvas) drawSplash() {
	c.clear()
	c.text("WLED", splashAt, c.faces.large, rgb565.White)
	c.text("GC9A01 Display", subtitleAt, c.faces.medium, rgb565.White)
}

func (c *canvas) drawStatusBar(snap snapshot) {
	wifi := rgb565.Red
	if snap.wifi {
		wifi = rgb565.Green
	}
	c.text("WiFi", wifiAt, c.faces.small, wifi)
	c.text(snap.clock, clockAt, c.faces.small, rgb565.White)
}

// drawMainScreen paints the whole status screen. pixel is the color of the
// first LED, packed as 0xWWRRGGBB.
func (c *canvas) drawMainScreen(snap snapshot, pixel uint32) {
	c.clear()
	c.drawStatusBar(snap)
	if snap.power {
		c.text("ON", powerAt, c.faces.medium, rgb565.Green)
	} else {
		c.text("OFF", powerAt, c.faces.medium, rgb565.Red)
	}
	c.text("Brightness:", brightnessAt, c.faces.medium, rgb565.White)
	c.text(strconv.Itoa(int(snap.brightness)), levelAt, c.faces.medium, rgb565.White)
	c.text("Effect:", effectAt, c.faces.medium, rgb565.White)
	c.text(truncateLabel(snap.effect), labelAt, c.faces.medium, rgb565.White)
	if snap.power {
		c.fill(swatch, rgb565.FromPacked(pixel))
	}
}

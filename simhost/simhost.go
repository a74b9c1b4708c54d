// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package simhost simulates the LED controller host state consumed by
// usermods: brightness, effects, playlist, LED colors, Wi-Fi and wall clock.
//
// It lets modules run on a development machine without the firmware.
package simhost

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/jonboulle/clockwork"
)

// EffectNames are the first effects of the firmware, in mode order.
var EffectNames = []string{
	"Solid",
	"Blink",
	"Breathe",
	"Wipe",
	"Wipe Random",
	"Random Colors",
	"Sweep",
	"Dynamic",
	"Colorloop",
	"Rainbow",
}

// Modes with an animation. Every other mode renders as Solid.
const (
	ModeSolid     = 0
	ModeBlink     = 1
	ModeBreathe   = 2
	ModeColorloop = 8
	ModeRainbow   = 9
)

// Opts defines the simulated host.
type Opts struct {
	// LEDs is the strip length.
	LEDs int
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// DefaultOpts is a 30 LED strip.
var DefaultOpts = Opts{LEDs: 30}

// Host implements usermod.State. It is safe for concurrent use.
type Host struct {
	clock clockwork.Clock
	start time.Time

	mu         sync.Mutex
	brightness uint8
	mode       int
	playlist   int
	primary    uint32
	wifi       bool
	timeValid  bool
	leds       []uint32
}

// New returns a host showing a solid orange at half brightness, online with
// a valid clock.
func New(opts *Opts) *Host {
	c := opts.Clock
	if c == nil {
		c = clockwork.NewRealClock()
	}
	n := max(opts.LEDs, 1)
	h := &Host{
		clock:      c,
		start:      c.Now(),
		brightness: 128,
		playlist:   -1,
		primary:    0x00FFA000,
		wifi:       true,
		timeValid:  true,
		leds:       make([]uint32, n),
	}
	h.Render(h.start)
	return h
}

func (h *Host) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("simhost.Host{%d LEDs, %s, bri=%d}", len(h.leds), EffectNames[h.mode], h.brightness)
}

// Brightness implements usermod.State.
func (h *Host) Brightness() uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.brightness
}

// Mode implements usermod.State.
func (h *Host) Mode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// EffectNames implements usermod.State.
func (h *Host) EffectNames() []string {
	return EffectNames
}

// Playlist implements usermod.State.
func (h *Host) Playlist() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playlist
}

// PixelColor implements usermod.State. Out of range LEDs are black.
func (h *Host) PixelColor(i int) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.leds) {
		return 0
	}
	return h.leds[i]
}

// WiFiConnected implements usermod.State.
func (h *Host) WiFiConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wifi
}

// TimeValid implements usermod.State.
func (h *Host) TimeValid() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timeValid
}

// TimeString implements usermod.State.
func (h *Host) TimeString() string {
	return h.clock.Now().Format("15:04:05")
}

// SetBrightness sets the master brightness; 0 is off.
func (h *Host) SetBrightness(b uint8) {
	h.mu.Lock()
	h.brightness = b
	h.mu.Unlock()
}

// SetMode selects an effect by index in EffectNames.
func (h *Host) SetMode(m int) error {
	if m < 0 || m >= len(EffectNames) {
		return fmt.Errorf("simhost: invalid mode %d", m)
	}
	h.mu.Lock()
	h.mode = m
	h.mu.Unlock()
	return nil
}

// SetPlaylist sets the running playlist; -1 stops it.
func (h *Host) SetPlaylist(p int) {
	h.mu.Lock()
	h.playlist = max(p, -1)
	h.mu.Unlock()
}

// SetColor sets the primary color, packed as 0xWWRRGGBB.
func (h *Host) SetColor(c uint32) {
	h.mu.Lock()
	h.primary = c
	h.mu.Unlock()
}

// SetWiFi sets the Wi-Fi link state.
func (h *Host) SetWiFi(connected bool) {
	h.mu.Lock()
	h.wifi = connected
	h.mu.Unlock()
}

// SetTimeValid sets whether the time source is synchronized.
func (h *Host) SetTimeValid(valid bool) {
	h.mu.Lock()
	h.timeValid = valid
	h.mu.Unlock()
}

// Render computes the LED colors of the current effect at time now.
func (h *Host) Render(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := now.Sub(h.start)
	n := len(h.leds)
	switch h.mode {
	case ModeBlink:
		c := h.primary
		if (t/(500*time.Millisecond))%2 == 1 {
			c = 0
		}
		fill(h.leds, c)
	case ModeBreathe:
		phase := float64(t%(4*time.Second)) / float64(4*time.Second)
		fill(h.leds, scale(h.primary, 0.5-0.5*math.Cos(2*math.Pi*phase)))
	case ModeColorloop:
		fill(h.leds, wheel(uint8(t/(20*time.Millisecond))))
	case ModeRainbow:
		offset := int(t / (10 * time.Millisecond))
		for i := range h.leds {
			h.leds[i] = wheel(uint8(offset + i*256/n))
		}
	default:
		fill(h.leds, h.primary)
	}
}

// Image returns the strip as seen: a one pixel high image of the LED colors
// scaled by the brightness.
func (h *Host) Image() image.Image {
	h.mu.Lock()
	defer h.mu.Unlock()
	img := image.NewNRGBA(image.Rect(0, 0, len(h.leds), 1))
	f := float64(h.brightness) / 255
	for i, c := range h.leds {
		c = scale(c, f)
		img.SetNRGBA(i, 0, color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255})
	}
	return img
}

func fill(leds []uint32, c uint32) {
	for i := range leds {
		leds[i] = c
	}
}

// scale multiplies each channel of c by f in [0, 1].
func scale(c uint32, f float64) uint32 {
	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		v := float64((c >> shift) & 0xFF)
		out |= uint32(math.Round(v*f)) << shift
	}
	return out
}

// wheel maps a position to a fully saturated hue, red at 0.
func wheel(pos uint8) uint32 {
	switch {
	case pos < 85:
		return uint32(255-pos*3)<<16 | uint32(pos*3)<<8
	case pos < 170:
		pos -= 85
		return uint32(255-pos*3)<<8 | uint32(pos*3)
	default:
		pos -= 170
		return uint32(pos*3)<<16 | uint32(255-pos*3)
	}
}

var _ usermod.State = &Host{}

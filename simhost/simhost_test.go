// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package simhost

import (
	"image/color"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHost(t *testing.T) (*Host, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))
	return New(&Opts{LEDs: 4, Clock: clock}), clock
}

func TestDefaults(t *testing.T) {
	h, _ := newHost(t)
	assert.Equal(t, uint8(128), h.Brightness())
	assert.Equal(t, 0, h.Mode())
	assert.Equal(t, -1, h.Playlist())
	assert.True(t, h.WiFiConnected())
	assert.True(t, h.TimeValid())
	assert.Equal(t, "09:26:53", h.TimeString())
	assert.Equal(t, "Solid", h.EffectNames()[h.Mode()])
	assert.Equal(t, uint32(0x00FFA000), h.PixelColor(0))
	assert.Equal(t, uint32(0), h.PixelColor(-1))
	assert.Equal(t, uint32(0), h.PixelColor(4))
	assert.Equal(t, "simhost.Host{4 LEDs, Solid, bri=128}", h.String())
}

func TestSetters(t *testing.T) {
	h, clock := newHost(t)
	h.SetBrightness(0)
	h.SetPlaylist(3)
	h.SetWiFi(false)
	h.SetTimeValid(false)
	require.NoError(t, h.SetMode(ModeRainbow))
	assert.Error(t, h.SetMode(len(EffectNames)))
	assert.Error(t, h.SetMode(-1))

	assert.Equal(t, uint8(0), h.Brightness())
	assert.Equal(t, 3, h.Playlist())
	assert.False(t, h.WiFiConnected())
	assert.False(t, h.TimeValid())
	assert.Equal(t, ModeRainbow, h.Mode())

	h.SetPlaylist(-7)
	assert.Equal(t, -1, h.Playlist())

	clock.Advance(time.Minute)
	assert.Equal(t, "09:27:53", h.TimeString())
}

func TestRenderBlink(t *testing.T) {
	h, clock := newHost(t)
	h.SetColor(0x00112233)
	require.NoError(t, h.SetMode(ModeBlink))

	h.Render(clock.Now())
	assert.Equal(t, uint32(0x00112233), h.PixelColor(2))
	h.Render(clock.Now().Add(600 * time.Millisecond))
	assert.Equal(t, uint32(0), h.PixelColor(2))
	h.Render(clock.Now().Add(time.Second))
	assert.Equal(t, uint32(0x00112233), h.PixelColor(2))
}

func TestRenderBreathe(t *testing.T) {
	h, clock := newHost(t)
	h.SetColor(0x00FF0000)
	require.NoError(t, h.SetMode(ModeBreathe))

	h.Render(clock.Now())
	assert.Equal(t, uint32(0), h.PixelColor(0))
	h.Render(clock.Now().Add(2 * time.Second))
	assert.Equal(t, uint32(0x00FF0000), h.PixelColor(0))
}

func TestRenderRainbow(t *testing.T) {
	h, clock := newHost(t)
	require.NoError(t, h.SetMode(ModeRainbow))
	h.Render(clock.Now())
	assert.Equal(t, uint32(0x00FF0000), h.PixelColor(0))
	assert.NotEqual(t, h.PixelColor(0), h.PixelColor(1))

	require.NoError(t, h.SetMode(ModeColorloop))
	h.Render(clock.Now())
	assert.Equal(t, h.PixelColor(0), h.PixelColor(3))
}

func TestRenderFallbackSolid(t *testing.T) {
	h, clock := newHost(t)
	h.SetColor(0x00000080)
	require.NoError(t, h.SetMode(3))
	h.Render(clock.Now().Add(time.Hour))
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint32(0x00000080), h.PixelColor(i))
	}
}

func TestImage(t *testing.T) {
	h, _ := newHost(t)
	h.SetColor(0x00FF8000)
	h.SetBrightness(255)
	h.Render(time.Time{})
	img := h.Image()
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{255, 128, 0, 255}, img.At(1, 0))

	h.SetBrightness(0)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, h.Image().At(1, 0))
}

func TestWheel(t *testing.T) {
	assert.Equal(t, uint32(0xFF0000), wheel(0))
	assert.Equal(t, uint32(0x00FF00), wheel(85))
	assert.Equal(t, uint32(0x0000FF), wheel(170))
	assert.Equal(t, uint32(0xFC0003), wheel(254))
}

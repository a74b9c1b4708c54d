// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc9a01display is a usermod showing the LED controller status on a
// 240x240 round GC9A01 panel.
//
// The screen shows the Wi-Fi link, the wall clock, the power state, the
// brightness, the running effect and a swatch of the first LED color. The
// backlight is turned off after a period without activity and turned back on
// by any of the activity hooks.
//
// The host state is polled every 100ms. The screen is repainted only when the
// power state, the brightness, the effect label, the Wi-Fi link or the clock
// string changed, so a running clock repaints it once a second. The LED color
// alone does not trigger a repaint.
//
// Disabling the module through ReadFromConfig turns the backlight off.
// Enabling it again, or enabling a module that was disabled at Setup,
// initializes the panel on the next Loop.
//
// The module is driven by the host from a single goroutine and is not safe
// for concurrent use.
package gc9a01display

import (
	"image"
	"time"

	"github.com/GermanBionicSystems/usermods/gc9a01"
	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/display"
)

// Defaults of the persisted settings.
const (
	DefaultBrightness uint8 = 255
	DefaultTimeout          = 60 * time.Second
)

// redrawInterval is the polling period of the host state when nothing forces
// a redraw.
const redrawInterval = 100 * time.Millisecond

// Opts defines the collaborators of the module.
type Opts struct {
	// Panel receives the rendered frames. If it has an Init() error method,
	// it is called by Setup(). If it has a SetRotation(gc9a01.Rotation) error
	// method, portrait orientation is selected.
	Panel display.Drawer
	// Backlight is optional.
	Backlight display.DisplayBacklight
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Logger defaults to a null logger.
	Logger hclog.Logger
	// Encoder is set when a rotary encoder module calls the navigation hooks.
	Encoder bool
}

type initer interface {
	Init() error
}

type rotator interface {
	SetRotation(gc9a01.Rotation) error
}

// Module implements usermod.Usermod.
type Module struct {
	panel     display.Drawer
	backlight display.DisplayBacklight
	clock     clockwork.Clock
	logger    hclog.Logger
	encoder   bool
	canvas    *canvas

	// Persisted settings.
	enabled    bool
	brightness uint8
	// timeout of 0 disables sleeping.
	timeout time.Duration

	// setUp is set once the host called Setup. initialized tracks whether the
	// panel was initialized since the module was last enabled.
	setUp        bool
	initialized  bool
	asleep       bool
	dirty        bool
	lastActivity time.Time
	lastRedraw   time.Time
	shown        snapshot
}

// New returns a module with the default settings. opts.Panel is required.
func New(opts *Opts) *Module {
	m := &Module{
		panel:      opts.Panel,
		backlight:  opts.Backlight,
		clock:      opts.Clock,
		logger:     opts.Logger,
		encoder:    opts.Encoder,
		enabled:    true,
		brightness: DefaultBrightness,
		timeout:    DefaultTimeout,
		dirty:      true,
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	if m.logger == nil {
		m.logger = hclog.NewNullLogger()
	}
	m.logger = m.logger.Named(configKey)
	m.canvas = newCanvas(image.Rectangle{Max: m.panel.Bounds().Size()})
	now := m.clock.Now()
	m.lastActivity = now
	m.lastRedraw = now
	return m
}

// ID implements usermod.Usermod.
func (m *Module) ID() usermod.ID {
	return usermod.IDGC9A01Display
}

// Setup implements usermod.Usermod.
//
// It initializes the panel and paints the splash screen. Nothing touches the
// hardware when the module is disabled.
func (m *Module) Setup() {
	m.setUp = true
	if m.enabled {
		m.initDisplay()
	}
	if m.encoder {
		m.logger.Info("rotary encoder integration enabled")
	}
	m.dirty = true
}

func (m *Module) initDisplay() {
	m.applyBacklight(display.Intensity(m.brightness))
	if p, ok := m.panel.(initer); ok {
		m.warn("panel init failed", p.Init())
	}
	if p, ok := m.panel.(rotator); ok {
		m.warn("panel rotation failed", p.SetRotation(gc9a01.Rotation0))
	}
	m.canvas.drawSplash()
	m.flush()
	m.initialized = true
	m.asleep = false
	m.dirty = true
	m.lastActivity = m.clock.Now()
	m.logger.Info("display initialized")
}

// disable turns the backlight off. The panel is initialized again once the
// module is enabled.
func (m *Module) disable() {
	if m.initialized {
		m.applyBacklight(0)
		m.initialized = false
		m.asleep = false
		m.logger.Info("display disabled")
	}
}

// Loop implements usermod.Usermod.
func (m *Module) Loop(s usermod.State) {
	if !m.enabled {
		return
	}
	if m.setUp && !m.initialized {
		m.initDisplay()
	}
	now := m.clock.Now()
	if m.timeout > 0 && now.Sub(m.lastActivity) >= m.timeout {
		if !m.asleep {
			m.sleepDisplay()
		}
		return
	}
	if m.dirty || now.Sub(m.lastRedraw) >= redrawInterval {
		m.updateDisplay(s, m.dirty)
		m.lastRedraw = now
		m.dirty = false
	}
}

// updateDisplay repaints the screen when the host state differs from what is
// shown, or unconditionally when force is set.
func (m *Module) updateDisplay(s usermod.State, force bool) {
	if m.asleep {
		return
	}
	snap := takeSnapshot(s)
	if !force && snap == m.shown {
		return
	}
	m.shown = snap
	var pixel uint32
	if snap.power {
		pixel = s.PixelColor(0)
	}
	m.canvas.drawMainScreen(snap, pixel)
	m.flush()
}

func (m *Module) flush() {
	m.warn("panel draw failed", m.panel.Draw(m.panel.Bounds(), m.canvas.img, image.Point{}))
}

// setBrightness stores the backlight level and applies it unless the display
// is asleep or disabled.
func (m *Module) setBrightness(level uint8) {
	m.brightness = level
	if m.enabled && !m.asleep {
		m.applyBacklight(display.Intensity(level))
	}
}

func (m *Module) applyBacklight(i display.Intensity) {
	if m.backlight != nil {
		m.warn("backlight failed", m.backlight.Backlight(i))
	}
}

func (m *Module) sleepDisplay() {
	m.applyBacklight(0)
	m.asleep = true
	m.logger.Info("display sleeping")
}

func (m *Module) wakeDisplay() {
	m.applyBacklight(display.Intensity(m.brightness))
	m.asleep = false
	m.dirty = true
	m.lastActivity = m.clock.Now()
	m.logger.Info("display waking")
}

// activity wakes the display, or keeps it awake and schedules a redraw.
func (m *Module) activity() {
	if m.asleep {
		m.wakeDisplay()
		return
	}
	m.lastActivity = m.clock.Now()
	m.dirty = true
}

// OnUpdateBegin implements usermod.Usermod.
func (m *Module) OnUpdateBegin(bool) {
	m.activity()
}

// Connected implements usermod.Usermod.
func (m *Module) Connected() {
	m.dirty = true
}

// DisplayNextItem is called by a rotary encoder module.
func (m *Module) DisplayNextItem() {
	m.activity()
}

// DisplayPreviousItem is called by a rotary encoder module.
func (m *Module) DisplayPreviousItem() {
	m.activity()
}

// DisplaySelectItem is called by a rotary encoder module.
func (m *Module) DisplaySelectItem() {
	m.activity()
}

// ForceRedraw repaints the whole screen on the next Loop().
func (m *Module) ForceRedraw() {
	m.dirty = true
}

// AddToJSONInfo implements usermod.Usermod.
func (m *Module) AddToJSONInfo(root usermod.Object) {
	u := root.ChildOrCreate("u")
	if !m.enabled {
		u[configKey] = []any{"Display: OFF"}
		return
	}
	state := "Active"
	if m.asleep {
		state = "Sleeping"
	}
	u[configKey] = []any{"Display: ON", state}
}

func (m *Module) warn(msg string, err error) {
	if err != nil {
		m.logger.Warn(msg, "error", err)
	}
}

var _ usermod.Usermod = &Module{}

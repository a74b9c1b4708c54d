// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backlight drives a display backlight from a single GPIO pin.
//
// Full off and full on use plain levels. Anything in between uses PWM, which
// requires a pin with hardware or software PWM support.
package backlight

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// MaxIntensity is the intensity at which the pin is held high.
const MaxIntensity display.Intensity = 255

// DefaultFrequency is used when New() is passed 0. It is above the audible
// range so LED drivers do not whine.
const DefaultFrequency = 25 * physic.KiloHertz

// Dev is a PWM dimmable backlight. It implements display.DisplayBacklight.
type Dev struct {
	pin  gpio.PinOut
	freq physic.Frequency

	mu    sync.Mutex
	level display.Intensity
}

// New returns a backlight driven by pin, turned fully on.
func New(pin gpio.PinOut, freq physic.Frequency) (*Dev, error) {
	if pin == nil || pin == gpio.INVALID {
		return nil, errors.New("backlight: pin is required")
	}
	if freq == 0 {
		freq = DefaultFrequency
	}
	d := &Dev{pin: pin, freq: freq}
	if err := d.Backlight(MaxIntensity); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("backlight.Dev{%s, %s}", d.pin, d.freq)
}

// Backlight sets the intensity. Values are clamped to [0, MaxIntensity].
func (d *Dev) Backlight(intensity display.Intensity) error {
	intensity = min(max(intensity, 0), MaxIntensity)
	var err error
	switch intensity {
	case 0:
		err = d.pin.Out(gpio.Low)
	case MaxIntensity:
		err = d.pin.Out(gpio.High)
	default:
		duty := gpio.Duty(int64(intensity) * int64(gpio.DutyMax) / int64(MaxIntensity))
		err = d.pin.PWM(duty, d.freq)
	}
	if err != nil {
		return fmt.Errorf("backlight: %w", err)
	}
	d.mu.Lock()
	d.level = intensity
	d.mu.Unlock()
	return nil
}

// Level returns the last intensity successfully applied.
func (d *Dev) Level() display.Intensity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.level
}

// Halt turns the backlight off.
func (d *Dev) Halt() error {
	return d.Backlight(0)
}

var _ display.DisplayBacklight = &Dev{}

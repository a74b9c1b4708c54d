// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package backlight

import (
	"testing"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func TestNew(t *testing.T) {
	if _, err := New(nil, 0); err == nil {
		t.Error("New(nil) succeeded")
	}
	if _, err := New(gpio.INVALID, 0); err == nil {
		t.Error("New(gpio.INVALID) succeeded")
	}
	pin := &gpiotest.Pin{N: "BL", Num: 4}
	d, err := New(pin, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.High {
		t.Error("backlight should be on after New()")
	}
	if d.Level() != MaxIntensity {
		t.Errorf("Level() = %d, want %d", d.Level(), MaxIntensity)
	}
	if s := d.String(); s != "backlight.Dev{BL(4), 25kHz}" {
		t.Errorf("String() = %q", s)
	}
}

func TestBacklight(t *testing.T) {
	for _, tc := range []struct {
		name      string
		intensity display.Intensity
		wantLevel gpio.Level
		wantDuty  gpio.Duty
		wantI     display.Intensity
	}{
		{"off", 0, gpio.Low, 0, 0},
		{"negative", -3, gpio.Low, 0, 0},
		{"full", 255, gpio.High, 0, 255},
		{"clamped", 1000, gpio.High, 0, 255},
		{"half", 128, gpio.Low, gpio.Duty(128 * int64(gpio.DutyMax) / 255), 128},
		{"dim", 1, gpio.Low, gpio.Duty(int64(gpio.DutyMax) / 255), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pin := &gpiotest.Pin{N: "BL"}
			d := &Dev{pin: pin, freq: physic.KiloHertz}
			if err := d.Backlight(tc.intensity); err != nil {
				t.Fatal(err)
			}
			if pin.L != tc.wantLevel {
				t.Errorf("level = %s, want %s", pin.L, tc.wantLevel)
			}
			if pin.D != tc.wantDuty {
				t.Errorf("duty = %s, want %s", pin.D, tc.wantDuty)
			}
			if tc.wantDuty != 0 && pin.F != physic.KiloHertz {
				t.Errorf("frequency = %s", pin.F)
			}
			if d.Level() != tc.wantI {
				t.Errorf("Level() = %d, want %d", d.Level(), tc.wantI)
			}
		})
	}
}

func TestHalt(t *testing.T) {
	pin := &gpiotest.Pin{N: "BL"}
	d, err := New(pin, physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low || d.Level() != 0 {
		t.Errorf("Halt() left the backlight on: %s %d", pin.L, d.Level())
	}
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01display

import (
	"testing"
	"time"

	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestConfigRoundTrip(t *testing.T) {
	src := newFixture(t)
	src.m.enabled = false
	src.m.timeout = 30 * time.Second
	src.m.brightness = 128

	cfg := usermod.Object{}
	src.m.AddToConfig(cfg)
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var back usermod.Object
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	want := usermod.Object{configKey: map[string]any{"enabled": false, "timeout": 30.0, "brightness": 128.0}}
	if diff := cmp.Diff(back, want); diff != "" {
		t.Errorf("encoded config difference (-got +want):\n%s", diff)
	}

	dst := newFixture(t)
	if !dst.m.ReadFromConfig(back) {
		t.Fatal("ReadFromConfig() = false")
	}
	if dst.m.enabled || dst.m.timeout != 30*time.Second || dst.m.brightness != 128 {
		t.Errorf("settings = {%t %s %d}, want {false 30s 128}", dst.m.enabled, dst.m.timeout, dst.m.brightness)
	}
	// Disabled modules keep the backlight untouched.
	if len(dst.bl.levels) != 0 {
		t.Errorf("backlight calls = %v, want none", dst.bl.levels)
	}
}

func TestReadFromConfigAppliesBrightness(t *testing.T) {
	f := newFixture(t)
	if !f.m.ReadFromConfig(usermod.Object{configKey: map[string]any{"enabled": true, "timeout": 60.0, "brightness": 128.0}}) {
		t.Fatal("ReadFromConfig() = false")
	}
	if got := f.bl.last(); got != 128 {
		t.Errorf("backlight = %d, want 128", got)
	}
}

func TestReadFromConfigMissingSection(t *testing.T) {
	f := newFixture(t)
	if f.m.ReadFromConfig(usermod.Object{"Other": usermod.Object{"enabled": false}}) {
		t.Error("ReadFromConfig() without a section = true")
	}
	if f.m.ReadFromConfig(usermod.Object{configKey: "not an object"}) {
		t.Error("ReadFromConfig() with a string section = true")
	}
	if !f.m.enabled || f.m.timeout != DefaultTimeout || f.m.brightness != DefaultBrightness {
		t.Errorf("settings changed: {%t %s %d}", f.m.enabled, f.m.timeout, f.m.brightness)
	}
	if len(f.bl.levels) != 0 {
		t.Errorf("backlight calls = %v, want none", f.bl.levels)
	}
}

func TestReadFromConfigIncomplete(t *testing.T) {
	for _, tc := range []struct {
		name           string
		section        usermod.Object
		wantEnabled    bool
		wantTimeout    time.Duration
		wantBrightness uint8
	}{
		{
			name:           "missing brightness",
			section:        usermod.Object{"enabled": false, "timeout": 10.0},
			wantEnabled:    false,
			wantTimeout:    10 * time.Second,
			wantBrightness: DefaultBrightness,
		},
		{
			name:           "mistyped enabled",
			section:        usermod.Object{"enabled": "yes", "timeout": 5.0, "brightness": 7.0},
			wantEnabled:    true,
			wantTimeout:    5 * time.Second,
			wantBrightness: 7,
		},
		{
			name:           "timeout out of range",
			section:        usermod.Object{"enabled": true, "timeout": 70000.0, "brightness": 9.0},
			wantEnabled:    true,
			wantTimeout:    DefaultTimeout,
			wantBrightness: 9,
		},
		{
			name:           "brightness out of range",
			section:        usermod.Object{"enabled": true, "timeout": 0.0, "brightness": 300.0},
			wantEnabled:    true,
			wantTimeout:    0,
			wantBrightness: DefaultBrightness,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if f.m.ReadFromConfig(usermod.Object{configKey: tc.section}) {
				t.Error("ReadFromConfig() = true")
			}
			if f.m.enabled != tc.wantEnabled {
				t.Errorf("enabled = %t, want %t", f.m.enabled, tc.wantEnabled)
			}
			if f.m.timeout != tc.wantTimeout {
				t.Errorf("timeout = %s, want %s", f.m.timeout, tc.wantTimeout)
			}
			if f.m.brightness != tc.wantBrightness {
				t.Errorf("brightness = %d, want %d", f.m.brightness, tc.wantBrightness)
			}
			// Brightness is only applied on a complete read.
			if len(f.bl.levels) != 0 {
				t.Errorf("backlight calls = %v, want none", f.bl.levels)
			}
		})
	}
}

func TestAddToConfigDefaults(t *testing.T) {
	f := newFixture(t)
	root := usermod.Object{"keep": 1}
	f.m.AddToConfig(root)
	want := usermod.Object{
		"keep":    1,
		configKey: usermod.Object{"enabled": true, "timeout": uint16(60), "brightness": uint8(255)},
	}
	if diff := cmp.Diff(root, want); diff != "" {
		t.Errorf("AddToConfig() difference (-got +want):\n%s", diff)
	}
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01display

import (
	"time"

	"github.com/GermanBionicSystems/usermods/usermod"
)

// configKey names the module section in the configuration and in the info
// object.
const configKey = "GC9A01"

// AddToConfig implements usermod.Usermod. The timeout is written in seconds.
func (m *Module) AddToConfig(root usermod.Object) {
	root[configKey] = usermod.Object{
		"enabled":    m.enabled,
		"timeout":    uint16(m.timeout / time.Second),
		"brightness": m.brightness,
	}
}

// ReadFromConfig implements usermod.Usermod.
//
// It returns false when the section is missing, leaving every setting
// untouched, or when a key is missing or has the wrong type. Keys that parse
// are kept either way. The brightness reaches the backlight only once the
// whole section parsed, and only while the module is enabled.
func (m *Module) ReadFromConfig(root usermod.Object) bool {
	top := root.Child(configKey)
	if top == nil {
		return false
	}
	wasEnabled := m.enabled
	complete := usermod.GetJSONValue(top["enabled"], &m.enabled)
	secs := uint16(m.timeout / time.Second)
	complete = usermod.GetJSONValue(top["timeout"], &secs) && complete
	m.timeout = time.Duration(secs) * time.Second
	complete = usermod.GetJSONValue(top["brightness"], &m.brightness) && complete
	if wasEnabled && !m.enabled {
		m.disable()
	}
	if complete {
		m.setBrightness(m.brightness)
	}
	return complete
}

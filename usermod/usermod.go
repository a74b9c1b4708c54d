// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usermod defines the contract between the LED controller host and
// the optional modules ("usermods") that extend it.
//
// The host owns the main loop, the configuration file and the JSON API. A
// module only sees the narrow read-only State passed to Loop() and the JSON
// objects handed to its configuration and introspection callbacks.
package usermod

import "fmt"

// ID identifies a usermod. Each module type has a unique constant.
type ID uint16

// Known module identifiers.
const (
	IDReserved      ID = 0
	IDGC9A01Display ID = 59
)

func (i ID) String() string {
	switch i {
	case IDReserved:
		return "Reserved"
	case IDGC9A01Display:
		return "GC9A01Display"
	}
	return fmt.Sprintf("ID(%d)", uint16(i))
}

// State is the host state a module can query. Implementations must be safe
// to call from the goroutine running Loop().
type State interface {
	// Brightness is the global strip brightness; 0 means the strip is off.
	Brightness() uint8
	// Mode is the index of the active effect in EffectNames().
	Mode() int
	// EffectNames lists the display names of every effect.
	EffectNames() []string
	// Playlist is the active playlist index, or -1 when none is running.
	Playlist() int
	// PixelColor returns the color of LED i packed as 0xWWRRGGBB.
	PixelColor(i int) uint32
	WiFiConnected() bool
	// TimeValid reports whether the wall clock has been synchronized.
	TimeValid() bool
	TimeString() string
}

// Usermod is implemented by every module loaded by the host.
type Usermod interface {
	// Setup is called once, after ReadFromConfig.
	Setup()
	// Loop is called repeatedly from the host main loop.
	Loop(s State)
	// OnUpdateBegin is called when a firmware or content update starts.
	OnUpdateBegin(init bool)
	// Connected is called each time the network (re)connects.
	Connected()
	AddToJSONInfo(root Object)
	AddToConfig(root Object)
	// ReadFromConfig returns false when the module section is missing or
	// incomplete, so the host writes back defaults.
	ReadFromConfig(root Object) bool
	ID() ID
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usermods is a container for LED controller usermods and the
// drivers they use.
//
// gc9a01 drives the round 240x240 GC9A01 panel over SPI and backlight drives
// its PWM backlight. gc9a01display is the status display usermod built on
// them, registered with a usermod.Registry. preview, stripsim and simhost
// emulate the panel, the LED strip and the controller so the usermod runs
// without hardware; see cmd/gc9a01display.
package usermods

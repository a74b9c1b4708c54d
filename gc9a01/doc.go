// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc9a01 controls a 240x240 round TFT LCD driven by a GalaxyCore
// GC9A01 controller over 4-wire SPI.
//
// The driver keeps a RGB565 copy of the panel memory and only sends the band
// of rows that changed since the previous Draw() call.
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCL to SPI_CLK, CS to SPI_CS. DC is a regular GPIO
// and is mandatory. RST is optional; pass nil when it is tied high. The
// backlight (BLK) pin is not managed by this driver, see package backlight.
//
// # Datasheet
//
// https://www.buydisplay.com/download/ic/GC9A01A.pdf
package gc9a01

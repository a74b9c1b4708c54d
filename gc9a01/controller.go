// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01

import (
	"encoding/binary"
	"image"
	"time"
)

// Commands
const (
	swReset         byte = 0x01
	sleepIn         byte = 0x10
	sleepOut        byte = 0x11
	invertOn        byte = 0x21
	displayOff      byte = 0x28
	displayOn       byte = 0x29
	columnAddrSet   byte = 0x2A
	rowAddrSet      byte = 0x2B
	memoryWrite     byte = 0x2C
	tearingOn       byte = 0x35
	memoryAccess    byte = 0x36
	pixelFormatSet  byte = 0x3A
	interRegEnable1 byte = 0xFE
	interRegEnable2 byte = 0xEF
)

// Memory access control (MADCTL) bits.
const (
	madctlMY  byte = 0x80
	madctlMX  byte = 0x40
	madctlMV  byte = 0x20
	madctlBGR byte = 0x08
)

// 16 bits per pixel on the MCU interface.
const pixelFormat16 byte = 0x05

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	delay(time.Duration)
}

type initStep struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// initSequence is the vendor power-on sequence. Most registers are
// undocumented; the values come from the panel manufacturer's sample code.
var initSequence = []initStep{
	{cmd: interRegEnable2},
	{cmd: 0xEB, data: []byte{0x14}},
	{cmd: interRegEnable1},
	{cmd: interRegEnable2},
	{cmd: 0xEB, data: []byte{0x14}},
	{cmd: 0x84, data: []byte{0x40}},
	{cmd: 0x85, data: []byte{0xFF}},
	{cmd: 0x86, data: []byte{0xFF}},
	{cmd: 0x87, data: []byte{0xFF}},
	{cmd: 0x88, data: []byte{0x0A}},
	{cmd: 0x89, data: []byte{0x21}},
	{cmd: 0x8A, data: []byte{0x00}},
	{cmd: 0x8B, data: []byte{0x80}},
	{cmd: 0x8C, data: []byte{0x01}},
	{cmd: 0x8D, data: []byte{0x01}},
	{cmd: 0x8E, data: []byte{0xFF}},
	{cmd: 0x8F, data: []byte{0xFF}},
	{cmd: 0xB6, data: []byte{0x00, 0x20}},
	{cmd: memoryAccess, data: []byte{madctlBGR}},
	{cmd: pixelFormatSet, data: []byte{pixelFormat16}},
	{cmd: 0x90, data: []byte{0x08, 0x08, 0x08, 0x08}},
	{cmd: 0xBD, data: []byte{0x06}},
	{cmd: 0xBC, data: []byte{0x00}},
	{cmd: 0xFF, data: []byte{0x60, 0x01, 0x04}},
	{cmd: 0xC3, data: []byte{0x13}},
	{cmd: 0xC4, data: []byte{0x13}},
	{cmd: 0xC9, data: []byte{0x22}},
	{cmd: 0xBE, data: []byte{0x11}},
	{cmd: 0xE1, data: []byte{0x10, 0x0E}},
	{cmd: 0xDF, data: []byte{0x21, 0x0C, 0x02}},
	// Gamma.
	{cmd: 0xF0, data: []byte{0x45, 0x09, 0x08, 0x08, 0x26, 0x2A}},
	{cmd: 0xF1, data: []byte{0x43, 0x70, 0x72, 0x36, 0x37, 0x6F}},
	{cmd: 0xF2, data: []byte{0x45, 0x09, 0x08, 0x08, 0x26, 0x2A}},
	{cmd: 0xF3, data: []byte{0x43, 0x70, 0x72, 0x36, 0x37, 0x6F}},
	{cmd: 0xED, data: []byte{0x1B, 0x0B}},
	{cmd: 0xAE, data: []byte{0x77}},
	{cmd: 0xCD, data: []byte{0x63}},
	{cmd: 0x70, data: []byte{0x07, 0x07, 0x04, 0x0E, 0x0F, 0x09, 0x07, 0x08, 0x03}},
	{cmd: 0xE8, data: []byte{0x34}},
	{cmd: 0x62, data: []byte{0x18, 0x0D, 0x71, 0xED, 0x70, 0x70, 0x18, 0x0F, 0x71, 0xEF, 0x70, 0x70}},
	{cmd: 0x63, data: []byte{0x18, 0x11, 0x71, 0xF1, 0x70, 0x70, 0x18, 0x13, 0x71, 0xF3, 0x70, 0x70}},
	{cmd: 0x64, data: []byte{0x28, 0x29, 0xF1, 0x01, 0xF1, 0x00, 0x07}},
	{cmd: 0x66, data: []byte{0x3C, 0x00, 0xCD, 0x67, 0x45, 0x45, 0x10, 0x00, 0x00, 0x00}},
	{cmd: 0x67, data: []byte{0x00, 0x3C, 0x00, 0x00, 0x00, 0x01, 0x54, 0x10, 0x32, 0x98}},
	{cmd: 0x74, data: []byte{0x10, 0x85, 0x80, 0x00, 0x00, 0x4E, 0x00}},
	{cmd: 0x98, data: []byte{0x3E, 0x07}},
	{cmd: tearingOn},
	{cmd: invertOn},
	{cmd: sleepOut, delay: 120 * time.Millisecond},
	{cmd: displayOn, delay: 20 * time.Millisecond},
}

func initDisplay(ctrl controller) {
	for _, s := range initSequence {
		ctrl.sendCommand(s.cmd)
		if len(s.data) != 0 {
			ctrl.sendData(s.data)
		}
		if s.delay != 0 {
			ctrl.delay(s.delay)
		}
	}
}

func madctl(r Rotation) byte {
	switch r {
	case Rotation90:
		return madctlMX | madctlMV | madctlBGR
	case Rotation180:
		return madctlMX | madctlMY | madctlBGR
	case Rotation270:
		return madctlMY | madctlMV | madctlBGR
	default:
		return madctlBGR
	}
}

func setRotation(ctrl controller, r Rotation) {
	ctrl.sendCommand(memoryAccess)
	ctrl.sendData([]byte{madctl(r)})
}

// setWindow selects the memory area written by the next memoryWrite command.
// Both ends are inclusive on the controller side.
func setWindow(ctrl controller, area image.Rectangle) {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:], uint16(area.Min.X))
	binary.BigEndian.PutUint16(b[2:], uint16(area.Max.X-1))
	ctrl.sendCommand(columnAddrSet)
	ctrl.sendData(b[:])

	binary.BigEndian.PutUint16(b[0:], uint16(area.Min.Y))
	binary.BigEndian.PutUint16(b[2:], uint16(area.Max.Y-1))
	ctrl.sendCommand(rowAddrSet)
	ctrl.sendData(b[:])

	ctrl.sendCommand(memoryWrite)
}

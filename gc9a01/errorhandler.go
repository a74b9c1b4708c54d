// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01

import (
	"image"
	"time"

	"github.com/GermanBionicSystems/usermods/rgb565"
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. Once an operation failed,
// every following one is skipped.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) cTx(w []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, nil)
}

func (eh *errorHandler) delay(t time.Duration) {
	if eh.err != nil {
		return
	}
	time.Sleep(t)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	eh.dcOut(gpio.Low)
	eh.cTx([]byte{cmd})
}

func (eh *errorHandler) sendData(data []byte) {
	eh.dcOut(gpio.High)
	for len(data) > 0 && eh.err == nil {
		n := min(len(data), eh.d.maxTx)
		eh.cTx(data[:n])
		data = data[n:]
	}
}

// sendRows streams the pixels of area, packing as many rows as fit in a
// single transfer.
func (eh *errorHandler) sendRows(img *rgb565.Image, area image.Rectangle) {
	eh.dcOut(gpio.High)
	rowLen := 2 * area.Dx()
	rowsPerTx := max(eh.d.maxTx/rowLen, 1)
	buf := make([]byte, 0, rowsPerTx*rowLen)
	for y := area.Min.Y; y < area.Max.Y && eh.err == nil; y++ {
		row := img.Row(y, area.Min.X, area.Max.X)
		if rowLen > eh.d.maxTx {
			// Very narrow limit; fall back to chunking each row.
			eh.sendData(row)
			continue
		}
		buf = append(buf, row...)
		if len(buf)+rowLen > cap(buf) {
			eh.cTx(buf)
			buf = buf[:0]
		}
	}
	if len(buf) != 0 {
		eh.cTx(buf)
	}
}

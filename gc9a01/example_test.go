// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01_test

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/GermanBionicSystems/usermods/gc9a01"
	"github.com/GermanBionicSystems/usermods/rgb565"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	dc := gpioreg.ByName("GPIO16")
	rst := gpioreg.ByName("GPIO17")
	dev, err := gc9a01.New(p, dc, rst, &gc9a01.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("device=%s\n", dev)

	// Concentric squares; the corners are hidden by the round glass.
	img := rgb565.NewImage(dev.Bounds())
	colors := []rgb565.Color{rgb565.Red, rgb565.Green, rgb565.Blue, rgb565.White}
	for i, inset := 0, 0; inset < dev.Bounds().Dx()/2; i, inset = i+1, inset+20 {
		r := dev.Bounds().Inset(inset)
		draw.Draw(img, r, &image.Uniform{colors[i%len(colors)]}, image.Point{}, draw.Src)
	}
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
}

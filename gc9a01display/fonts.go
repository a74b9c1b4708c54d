// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9a01display

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// Pixel heights of the truetype faces.
const (
	mediumSize = 16
	largeSize  = 32
)

var (
	regularOnce sync.Once
	regular     *truetype.Font
)

// regularFont returns the parsed Go Regular font, or nil if it could not be
// parsed.
func regularFont() *truetype.Font {
	regularOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			regular = f
		}
	})
	return regular
}

// faces holds the font faces of one canvas. A truetype face caches glyphs and
// must not be shared between goroutines.
type faces struct {
	small  font.Face
	medium font.Face
	large  font.Face
}

func newFaces() faces {
	f := faces{small: basicfont.Face7x13, medium: basicfont.Face7x13, large: basicfont.Face7x13}
	if r := regularFont(); r != nil {
		f.medium = truetype.NewFace(r, &truetype.Options{Size: mediumSize, DPI: 72, Hinting: font.HintingFull})
		f.large = truetype.NewFace(r, &truetype.Options{Size: largeSize, DPI: 72, Hinting: font.HintingFull})
	}
	return f
}

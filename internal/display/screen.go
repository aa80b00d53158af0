// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display draws the game on a 128x64 SSD1306 OLED. All drawing
// goes into an off-screen 1-bit image; Update pushes the full frame over
// I2C in one transfer.
package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	Width  = 128
	Height = 64
)

// Screen is a double-buffered SSD1306.
type Screen struct {
	dev *ssd1306.Dev
	img *image1bit.VerticalLSB
}

// New initializes the OLED at the given I2C address (0x3C on most
// modules).
func New(bus i2c.Bus, addr uint16) (*Screen, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return &Screen{
		dev: dev,
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height)),
	}, nil
}

// Clear blanks the back buffer.
func (s *Screen) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

func (s *Screen) setPixel(x, y int) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	s.img.SetBit(x, y, image1bit.On)
}

// FillRect lights every pixel in the inclusive rectangle (x0,y0)-(x1,y1).
func (s *Screen) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.setPixel(x, y)
		}
	}
}

// DrawRect draws the outline of the inclusive rectangle (x0,y0)-(x1,y1).
func (s *Screen) DrawRect(x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		s.setPixel(x, y0)
		s.setPixel(x, y1)
	}
	for y := y0; y <= y1; y++ {
		s.setPixel(x0, y)
		s.setPixel(x1, y)
	}
}

// FillCircle lights a filled disc of radius r centered on (cx,cy).
func (s *Screen) FillCircle(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				s.setPixel(cx+dx, cy+dy)
			}
		}
	}
}

// DrawString renders text with the 7x13 basic font; (x, y) is the
// baseline of the first glyph.
func (s *Screen) DrawString(x, y int, text string) {
	drawer := &font.Drawer{
		Dst:  s.img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// Update pushes the back buffer to the panel.
func (s *Screen) Update() error {
	return s.dev.Draw(s.dev.Bounds(), s.img, image.Point{})
}

// Halt blanks the panel and puts it in low-power mode.
func (s *Screen) Halt() error {
	return s.dev.Halt()
}

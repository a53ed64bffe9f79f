package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/massung/chip8vm/chip8"
)

const (
	/// GlyphScale is the size in the window of a font pixel.
	///
	GlyphScale = 2

	/// GlyphHeight and GlyphAdvance are the size of a character in the
	/// window.
	///
	GlyphHeight  = chip8.GlyphSize * GlyphScale
	GlyphAdvance = 5 * GlyphScale
)

/// glyph returns the rows of the CHIP-8 font sprite for a hex digit.
///
func glyph(c rune) ([]byte, bool) {
	var n int

	switch {
	case c >= '0' && c <= '9':
		n = int(c - '0')
	case c >= 'A' && c <= 'F':
		n = int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		n = int(c-'a') + 10
	default:
		return nil, false
	}

	return chip8.Font[n*chip8.GlyphSize : (n+1)*chip8.GlyphSize], true
}

/// DrawText using the CHIP-8 font in the current draw color. Only hex
/// digits have glyphs; anything else is drawn as a space.
///
func (w *Window) DrawText(s string, x, y int) {
	dst := sdl.Rect{W: GlyphScale, H: GlyphScale}

	// loop over all the characters in the string
	for _, c := range s {
		if rows, ok := glyph(c); ok {
			for r, bits := range rows {
				for b := 0; b < 4; b++ {
					if bits&(0x80>>b) == 0 {
						continue
					}

					dst.X = int32(x + b*GlyphScale)
					dst.Y = int32(y + r*GlyphScale)

					// draw the pixel to the renderer
					w.renderer.FillRect(&dst)
				}
			}
		}

		// advance
		x += GlyphAdvance
	}
}

package chip8

import (
	"image"
	"image/color"
	"strings"
)

const (
	Width  = 64
	Height = 32
)

/// Frame is a snapshot of the display, indexed [y][x].
///
type Frame [Height][Width]bool

/// Pixel reports whether the pixel at x, y is lit. Coordinates outside the
/// frame are never lit.
///
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[y][x]
}

/// Count returns the number of lit pixels.
///
func (f *Frame) Count() (n int) {
	for y := range f {
		for _, p := range f[y] {
			if p {
				n++
			}
		}
	}
	return
}

/// String renders the frame one line per row, '#' for lit pixels.
///
func (f *Frame) String() string {
	var s strings.Builder

	s.Grow((Width + 1) * Height)

	for y := range f {
		for _, p := range f[y] {
			if p {
				s.WriteByte('#')
			} else {
				s.WriteByte('.')
			}
		}
		s.WriteByte('\n')
	}

	return s.String()
}

/// Palette is the background and foreground colour used by Image.
///
var Palette = color.Palette{
	color.RGBA{143, 145, 133, 255},
	color.RGBA{17, 29, 43, 255},
}

/// Image converts the frame to a 64x32 paletted image.
///
func (f *Frame) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, Width, Height), Palette)

	for y := range f {
		for x, p := range f[y] {
			if p {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return img
}

/// Display is the 64x32 monochrome video memory.
///
type Display struct {
	pix Frame
}

/// Clear turns every pixel off.
///
func (d *Display) Clear() {
	d.pix = Frame{}
}

/// Pixel reports whether the pixel at x, y is lit.
///
func (d *Display) Pixel(x, y int) bool {
	return d.pix.Pixel(x, y)
}

/// Frame returns a copy of video memory.
///
func (d *Display) Frame() Frame {
	return d.pix
}

/// DrawSprite XORs up to 8 columns by len(rows) rows onto the display with the
/// top-left corner at x mod 64, y mod 32. Each byte is one row, MSB leftmost.
/// Pixels past the right or bottom edge are clipped, or wrap around to the
/// opposite edge when wrap is set. It returns true if any lit pixel was
/// turned off.
///
func (d *Display) DrawSprite(x, y int, rows []byte, wrap bool) (collision bool) {
	x %= Width
	y %= Height

	for r, bits := range rows {
		py := y + r
		if py >= Height {
			if !wrap {
				break
			}
			py %= Height
		}

		for c := 0; c < 8; c++ {
			if bits&(0x80>>c) == 0 {
				continue
			}

			px := x + c
			if px >= Width {
				if !wrap {
					break
				}
				px %= Width
			}

			if d.pix[py][px] {
				collision = true
			}
			d.pix[py][px] = !d.pix[py][px]
		}
	}

	return
}

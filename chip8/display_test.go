package chip8

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_DrawSprite(t *testing.T) {
	assert := assert.New(t)

	var d Display

	sprite := []byte{0b10000001, 0b01000010}

	assert.False(d.DrawSprite(4, 3, sprite, false))
	assert.True(d.Pixel(4, 3))
	assert.True(d.Pixel(11, 3))
	assert.True(d.Pixel(5, 4))
	assert.True(d.Pixel(10, 4))
	assert.False(d.Pixel(5, 3))

	frame := d.Frame()
	assert.Equal(4, frame.Count())

	// xor self cancellation
	assert.True(d.DrawSprite(4, 3, sprite, false))

	frame = d.Frame()
	assert.Equal(0, frame.Count())
}

func TestDisplay_Collision(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(0, 0, []byte{0b11110000}, false)

	// overlap on a single pixel
	assert.True(d.DrawSprite(3, 0, []byte{0b10000000}, false))
	assert.False(d.Pixel(3, 0))

	// no overlap
	assert.False(d.DrawSprite(3, 0, []byte{0b10000000}, false))
}

func TestDisplay_OriginWraps(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(Width+2, Height+1, []byte{0x80}, false)

	assert.True(d.Pixel(2, 1))
}

func TestDisplay_Clip(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(60, 30, []byte{0xFF, 0xFF, 0xFF, 0xFF}, false)

	frame := d.Frame()
	assert.Equal(8, frame.Count())
	assert.True(d.Pixel(63, 31))
	assert.False(d.Pixel(0, 30))
	assert.False(d.Pixel(60, 0))
}

func TestDisplay_Wrap(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(60, 30, []byte{0xFF, 0xFF, 0xFF, 0xFF}, true)

	frame := d.Frame()
	assert.Equal(32, frame.Count())
	assert.True(d.Pixel(0, 30))
	assert.True(d.Pixel(3, 1))
	assert.False(d.Pixel(4, 1))
}

func TestDisplay_Clear(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(0, 0, []byte{0xFF}, false)
	d.Clear()

	frame := d.Frame()
	assert.Equal(0, frame.Count())
}

func TestFrame_String(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(0, 0, []byte{0b10100000}, false)

	frame := d.Frame()
	lines := strings.Split(frame.String(), "\n")

	assert.Len(lines, Height+1)
	assert.Equal("#.#"+strings.Repeat(".", Width-3), lines[0])
	assert.Equal(strings.Repeat(".", Width), lines[1])
}

func TestFrame_Image(t *testing.T) {
	assert := assert.New(t)

	var d Display

	d.DrawSprite(1, 2, []byte{0x80}, false)

	frame := d.Frame()
	img := frame.Image()

	assert.Equal(Width, img.Bounds().Dx())
	assert.Equal(Height, img.Bounds().Dy())
	assert.Equal(uint8(1), img.ColorIndexAt(1, 2))
	assert.Equal(uint8(0), img.ColorIndexAt(0, 0))
}

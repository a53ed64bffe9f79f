package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massung/chip8vm/chip8"
)

func TestScreenshot(t *testing.T) {
	assert := assert.New(t)

	var frame chip8.Frame
	frame[0][0] = true
	frame[31][63] = true

	var buf bytes.Buffer
	require.NoError(t, Screenshot(&buf, frame, 4))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(chip8.Width*4, img.Bounds().Dx())
	assert.Equal(chip8.Height*4, img.Bounds().Dy())

	on, off := chip8.Palette[1], chip8.Palette[0]

	// each pixel becomes a 4x4 block
	assert.Equal(on, img.At(0, 0))
	assert.Equal(on, img.At(3, 3))
	assert.Equal(off, img.At(4, 0))
	assert.Equal(on, img.At(chip8.Width*4-1, chip8.Height*4-1))
	assert.Equal(off, img.At(chip8.Width*4-5, chip8.Height*4-1))
}

func TestSaveScreenshot(t *testing.T) {
	assert := assert.New(t)

	var frame chip8.Frame
	frame[5][7] = true

	name := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, SaveScreenshot(name, frame, 2))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(chip8.Width*2, img.Bounds().Dx())
	assert.Equal(chip8.Palette[1], img.At(14, 10))

	// unwritable paths are reported
	assert.Error(SaveScreenshot(filepath.Join(t.TempDir(), "missing", "shot.png"), frame, 2))
}

func TestGlyph(t *testing.T) {
	rows, ok := glyph('0')
	require.True(t, ok)
	assert.Equal(t, chip8.Font[:chip8.GlyphSize], rows)

	rows, ok = glyph('f')
	require.True(t, ok)
	assert.Equal(t, chip8.Font[15*chip8.GlyphSize:], rows)

	_, ok = glyph('G')
	assert.False(t, ok)
}

func TestSquareWave(t *testing.T) {
	wave := squareWave(100, 10, 0x80)

	assert.Len(t, wave, 100)
	assert.Equal(t, byte(0x80+amplitude), wave[0])
	assert.Equal(t, byte(0x80+amplitude), wave[4])
	assert.Equal(t, byte(0x80-amplitude), wave[5])
	assert.Equal(t, byte(0x80+amplitude), wave[10])
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massung/chip8vm/chip8"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	return file
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("pong.c8s"))
	assert.True(t, IsSource("PONG.ASM"))
	assert.False(t, IsSource("pong.ch8"))
	assert.False(t, IsSource("pong"))
}

func TestReadROM(t *testing.T) {
	t.Run("raw", func(t *testing.T) {
		file := writeFile(t, "test.ch8", []byte{0x00, 0xE0, 0x12, 0x00})

		rom, err := ReadROM(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, rom)
	})

	t.Run("source", func(t *testing.T) {
		file := writeFile(t, "test.c8s", []byte(".loop\n  CLS\n  JP LOOP\n"))

		rom, err := ReadROM(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, rom)
	})

	t.Run("syntax error", func(t *testing.T) {
		file := writeFile(t, "bad.c8s", []byte("  CLS\n  FOO V0\n"))

		_, err := ReadROM(file)

		var syntax *chip8.SyntaxError
		require.ErrorAs(t, err, &syntax)
		assert.Equal(t, 2, syntax.Line)
	})

	t.Run("too large", func(t *testing.T) {
		file := writeFile(t, "big.ch8", make([]byte, chip8.MemorySize))

		_, err := ReadROM(file)
		assert.ErrorIs(t, err, chip8.ErrRomTooLarge)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ReadROM(filepath.Join(t.TempDir(), "none.ch8"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

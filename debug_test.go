package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massung/chip8vm/chip8"
)

func TestReport(t *testing.T) {
	assert := assert.New(t)

	m := chip8.NewMachine()
	require.NoError(t, m.Load([]byte{
		0x60, 0x2A, // LD V0, #2A
		0x00, 0xEE, // RET with an empty stack
	}, chip8.ProgramAddress))

	_, err := m.Step()
	require.NoError(t, err)

	_, err = m.Step()

	var fault *chip8.Fault
	require.True(t, errors.As(err, &fault))

	var buf bytes.Buffer
	Report(&buf, m, fault)

	out := buf.String()

	assert.Contains(out, fault.Error())
	assert.Contains(out, "  V0 - #2A")
	assert.Contains(out, "PC - #0202")
	assert.Contains(out, "> 0202 - RET")
	assert.Contains(out, "  0200 - LD")

	// the screen is dumped too
	frame := m.Framebuffer()
	assert.Contains(out, frame.String())
}

func TestReport_Screen(t *testing.T) {
	m := chip8.NewMachine()
	require.NoError(t, m.Load([]byte{
		0xF0, 0x29, // LD F, V0
		0xD0, 0x05, // DRW V0, V0, 5
		0x00, 0xEE, // RET with an empty stack
	}, chip8.ProgramAddress))

	var err error
	for err == nil {
		_, err = m.Step()
	}

	var fault *chip8.Fault
	require.ErrorAs(t, err, &fault)

	var buf bytes.Buffer
	Report(&buf, m, fault)

	// the top row of the "0" glyph
	assert.Contains(t, buf.String(), "####"+strings.Repeat(".", chip8.Width-4)+"\n")
}

package chip8

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer

	err := Listing(&out, []byte{0x00, 0xE0, 0xA2, 0x2A, 0xD0, 0x15, 0xFF}, ProgramAddress)
	assert.NoError(err)

	assert.Equal(""+
		"0200 - CLS\n"+
		"0202 - LD     I, #022A\n"+
		"0204 - DRW    V0, V1, 5\n"+
		"0206 - BYTE   #FF\n", out.String())
}

func TestListing_Reassembles(t *testing.T) {
	assert := assert.New(t)

	src := `
.LOOP   LD    V0, #20
        SKP   V0
        JP    LOOP
        LD    [I], V3
        SHR   V2
        WORD  #FFFF
`

	asm, err := Assemble([]byte(src))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Listing(&out, asm.ROM, ProgramAddress))

	// strip the addresses and assemble the listing again
	var again bytes.Buffer
	for _, line := range bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n")) {
		again.WriteString("  ")
		again.Write(line[len("0200 - "):])
		again.WriteByte('\n')
	}

	asm2, err := Assemble(again.Bytes())
	require.NoError(t, err)
	assert.Equal(asm.ROM, asm2.ROM)
}

func TestMachine_Disassemble(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t, 0x2206, 0x0000)

	assert.Equal("0200 - CALL   #0206", m.Disassemble(0x200))
	assert.Equal("0202 -", m.Disassemble(0x202))
	assert.Equal("", m.Disassemble(0xFFF))
}

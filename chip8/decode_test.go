package chip8

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_Total(t *testing.T) {
	assert := assert.New(t)

	counts := make(map[Op]int)

	for w := 0; w <= 0xFFFF; w++ {
		inst := Decode(uint16(w))

		assert.Equal(uint16(w), inst.Word)
		assert.LessOrEqual(int(inst.Op), int(OpLDVxMem))
		assert.NotEmpty(inst.String())

		counts[inst.Op]++
	}

	// every instruction is reachable
	for op := OpUnknown; op <= OpLDVxMem; op++ {
		assert.NotZero(counts[op], op.Mnemonic())
	}

	assert.Equal(2, counts[OpCLS]+counts[OpRET])
	assert.Equal(0x1000-2, counts[OpSYS])
	assert.Equal(0x1000, counts[OpDRW])
	assert.Equal(0x100, counts[OpSEReg])
	assert.Equal(0x10, counts[OpLDVxK])
}

func TestDecode_Table(t *testing.T) {
	table := []struct {
		word uint16
		op   Op
		text string
	}{
		{0x00E0, OpCLS, "CLS"},
		{0x00EE, OpRET, "RET"},
		{0x0123, OpSYS, "SYS    #0123"},
		{0x1ABC, OpJP, "JP     #0ABC"},
		{0x2ABC, OpCALL, "CALL   #0ABC"},
		{0x3A12, OpSEByte, "SE     VA, #12"},
		{0x4A12, OpSNEByte, "SNE    VA, #12"},
		{0x5AB0, OpSEReg, "SE     VA, VB"},
		{0x5AB1, OpUnknown, "WORD   #5AB1"},
		{0x6A12, OpLDByte, "LD     VA, #12"},
		{0x7A12, OpADDByte, "ADD    VA, #12"},
		{0x8AB0, OpLDReg, "LD     VA, VB"},
		{0x8AB1, OpOR, "OR     VA, VB"},
		{0x8AB2, OpAND, "AND    VA, VB"},
		{0x8AB3, OpXOR, "XOR    VA, VB"},
		{0x8AB4, OpADDReg, "ADD    VA, VB"},
		{0x8AB5, OpSUB, "SUB    VA, VB"},
		{0x8AB6, OpSHR, "SHR    VA, VB"},
		{0x8AA6, OpSHR, "SHR    VA"},
		{0x8AB7, OpSUBN, "SUBN   VA, VB"},
		{0x8ABE, OpSHL, "SHL    VA, VB"},
		{0x8AB8, OpUnknown, "WORD   #8AB8"},
		{0x9AB0, OpSNEReg, "SNE    VA, VB"},
		{0xAABC, OpLDI, "LD     I, #0ABC"},
		{0xBABC, OpJPV0, "JP     V0, #0ABC"},
		{0xCA12, OpRND, "RND    VA, #12"},
		{0xDAB5, OpDRW, "DRW    VA, VB, 5"},
		{0xEA9E, OpSKP, "SKP    VA"},
		{0xEAA1, OpSKNP, "SKNP   VA"},
		{0xEA00, OpUnknown, "WORD   #EA00"},
		{0xFA07, OpLDVxDT, "LD     VA, DT"},
		{0xFA0A, OpLDVxK, "LD     VA, K"},
		{0xFA15, OpLDDTVx, "LD     DT, VA"},
		{0xFA18, OpLDSTVx, "LD     ST, VA"},
		{0xFA1E, OpADDI, "ADD    I, VA"},
		{0xFA29, OpLDF, "LD     F, VA"},
		{0xFA33, OpLDB, "LD     B, VA"},
		{0xFA55, OpLDMemVx, "LD     [I], VA"},
		{0xFA65, OpLDVxMem, "LD     VA, [I]"},
		{0xFAFF, OpUnknown, "WORD   #FAFF"},
	}

	for _, tc := range table {
		t.Run(fmt.Sprintf("%04X", tc.word), func(t *testing.T) {
			assert := assert.New(t)

			inst := Decode(tc.word)

			assert.Equal(tc.op, inst.Op)
			assert.Equal(tc.text, inst.String())
		})
	}
}

func TestDecode_Operands(t *testing.T) {
	assert := assert.New(t)

	inst := Decode(0xD3A7)

	assert.Equal(3, inst.X)
	assert.Equal(0xA, inst.Y)
	assert.Equal(byte(7), inst.N)
	assert.Equal(byte(0xA7), inst.NN)
	assert.Equal(uint16(0x3A7), inst.NNN)
}

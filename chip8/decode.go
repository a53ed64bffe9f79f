package chip8

import (
	"fmt"
)

/// Op identifies one of the baseline CHIP-8 instructions.
///
type Op uint8

const (
	OpUnknown  Op = iota // any word outside the instruction table
	OpCLS                // 00E0
	OpRET                // 00EE
	OpSYS                // 0NNN
	OpJP                 // 1NNN
	OpCALL               // 2NNN
	OpSEByte             // 3XNN
	OpSNEByte            // 4XNN
	OpSEReg              // 5XY0
	OpLDByte             // 6XNN
	OpADDByte            // 7XNN
	OpLDReg              // 8XY0
	OpOR                 // 8XY1
	OpAND                // 8XY2
	OpXOR                // 8XY3
	OpADDReg             // 8XY4
	OpSUB                // 8XY5
	OpSHR                // 8XY6
	OpSUBN               // 8XY7
	OpSHL                // 8XYE
	OpSNEReg             // 9XY0
	OpLDI                // ANNN
	OpJPV0               // BNNN
	OpRND                // CXNN
	OpDRW                // DXYN
	OpSKP                // EX9E
	OpSKNP               // EXA1
	OpLDVxDT             // FX07
	OpLDVxK              // FX0A
	OpLDDTVx             // FX15
	OpLDSTVx             // FX18
	OpADDI               // FX1E
	OpLDF                // FX29
	OpLDB                // FX33
	OpLDMemVx            // FX55
	OpLDVxMem            // FX65
)

var opNames = [...]string{
	OpUnknown: "??",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpSYS:     "SYS",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDMemVx: "LD",
	OpLDVxMem: "LD",
}

/// Mnemonic returns the assembler mnemonic of op.
///
func (op Op) Mnemonic() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

/// Instruction is a decoded opcode with its operand fields extracted.
///
type Instruction struct {
	Op   Op
	Word uint16 // the opcode it was decoded from

	X   int    // register operand (bits 8-11)
	Y   int    // register operand (bits 4-7)
	N   byte   // nibble (bits 0-3)
	NN  byte   // immediate byte (bits 0-7)
	NNN uint16 // 12-bit address (bits 0-11)
}

/// Decode maps every 16-bit word to an instruction. Words outside the
/// instruction table decode to OpUnknown; Decode never fails.
///
func Decode(word uint16) Instruction {
	inst := Instruction{
		Word: word,
		X:    int(word >> 8 & 0xF),
		Y:    int(word >> 4 & 0xF),
		N:    byte(word & 0xF),
		NN:   byte(word & 0xFF),
		NNN:  word & 0xFFF,
	}

	inst.Op = decodeOp(word)

	return inst
}

func decodeOp(word uint16) Op {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
		return OpSYS
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if word&0xF == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		switch word & 0xF {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if word&0xF == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch word & 0xFF {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch word & 0xFF {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDMemVx
		case 0x65:
			return OpLDVxMem
		}
	}

	return OpUnknown
}

/// String disassembles the instruction. The output is accepted by Assemble
/// and assembles back to the same word.
///
func (inst Instruction) String() string {
	m := inst.Op.Mnemonic()

	switch inst.Op {
	case OpCLS, OpRET:
		return m
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%-6s #%04X", m, inst.NNN)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("%-6s V%X, #%02X", m, inst.X, inst.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("%-6s V%X, V%X", m, inst.X, inst.Y)
	case OpSHR, OpSHL:
		if inst.X == inst.Y {
			return fmt.Sprintf("%-6s V%X", m, inst.X)
		}
		return fmt.Sprintf("%-6s V%X, V%X", m, inst.X, inst.Y)
	case OpLDI:
		return fmt.Sprintf("%-6s I, #%04X", m, inst.NNN)
	case OpJPV0:
		return fmt.Sprintf("%-6s V0, #%04X", m, inst.NNN)
	case OpDRW:
		return fmt.Sprintf("%-6s V%X, V%X, %d", m, inst.X, inst.Y, inst.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%-6s V%X", m, inst.X)
	case OpLDVxDT:
		return fmt.Sprintf("%-6s V%X, DT", m, inst.X)
	case OpLDVxK:
		return fmt.Sprintf("%-6s V%X, K", m, inst.X)
	case OpLDDTVx:
		return fmt.Sprintf("%-6s DT, V%X", m, inst.X)
	case OpLDSTVx:
		return fmt.Sprintf("%-6s ST, V%X", m, inst.X)
	case OpADDI:
		return fmt.Sprintf("%-6s I, V%X", m, inst.X)
	case OpLDF:
		return fmt.Sprintf("%-6s F, V%X", m, inst.X)
	case OpLDB:
		return fmt.Sprintf("%-6s B, V%X", m, inst.X)
	case OpLDMemVx:
		return fmt.Sprintf("%-6s [I], V%X", m, inst.X)
	case OpLDVxMem:
		return fmt.Sprintf("%-6s V%X, [I]", m, inst.X)
	}

	// unknown words are emitted as data
	return fmt.Sprintf("%-6s #%04X", "WORD", inst.Word)
}

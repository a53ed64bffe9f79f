package main

import (
	"fmt"
	"io"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

/// Report writes the state of a machine stopped by a fault: the screen,
/// the registers, the disassembled instructions around the program counter
/// and the end of the log.
///
func Report(w io.Writer, m *chip8.Machine, fault *chip8.Fault) {
	fmt.Fprintf(w, "%v\n\n", fault)

	frame := m.Framebuffer()
	fmt.Fprintln(w, frame.String())

	reportRegisters(w, m)
	fmt.Fprintln(w)

	reportAssembly(w, m, fault.PC)
	fmt.Fprintln(w)

	logger.Tail(w, 8)
}

/// Show the value of all the CHIP-8 registers, two columns.
///
func reportRegisters(w io.Writer, m *chip8.Machine) {
	special := []string{
		fmt.Sprintf("PC - #%04X", m.PC()),
		fmt.Sprintf("SP - #%02X", m.Depth()),
		fmt.Sprintf("I  - #%04X", m.Index()),
		fmt.Sprintf("DT - #%02X", m.DelayTimer()),
		fmt.Sprintf("ST - #%02X", m.SoundTimer()),
	}

	for i := 0; i < 16; i++ {
		fmt.Fprintf(w, "  V%X - #%02X", i, m.Reg(i))

		if i < len(special) {
			fmt.Fprintf(w, "    %s", special[i])
		}

		fmt.Fprintln(w)
	}
}

/// Show the disassembled instructions around an address, marking it.
///
func reportAssembly(w io.Writer, m *chip8.Machine, pc uint16) {
	start := pc &^ 1
	if start >= 8 {
		start -= 8
	} else {
		start = 0
	}

	for address := start; address <= pc+8 && address < chip8.MemorySize; address += 2 {
		marker := " "
		if address == pc {
			marker = ">"
		}

		if line := m.Disassemble(address); line != "" {
			fmt.Fprintf(w, "%s %s\n", marker, line)
		}
	}
}

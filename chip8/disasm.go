package chip8

import (
	"fmt"
	"io"
)

/// Disassemble the CHIP-8 instruction at address.
///
func (m *Machine) Disassemble(address uint16) string {
	word, err := m.ReadWord(address)
	if err != nil {
		return ""
	}

	// end of program memory?
	if word == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %v", address, Decode(word))
}

/// Listing writes the disassembly of a ROM loaded at base, one instruction
/// per line. A trailing odd byte is listed as data.
///
func Listing(w io.Writer, rom []byte, base uint16) error {
	for i := 0; i < len(rom); i += 2 {
		address := base + uint16(i)

		var line string

		if i+1 < len(rom) {
			word := uint16(rom[i])<<8 | uint16(rom[i+1])

			line = fmt.Sprintf("%04X - %v\n", address, Decode(word))
		} else {
			line = fmt.Sprintf("%04X - %-6s #%02X\n", address, "BYTE", rom[i])
		}

		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	return nil
}

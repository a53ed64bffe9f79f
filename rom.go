package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

var errNoProgram = errors.New("no program to run")

/// IsSource is true if the file is CHIP-8 assembly rather than a ROM.
///
func IsSource(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".c8s", ".asm":
		return true
	}
	return false
}

/// ReadROM returns the program image in a file, assembling it first when
/// the file is source code.
///
func ReadROM(file string) ([]byte, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	if !IsSource(file) {
		if len(program) > chip8.MemorySize-chip8.ProgramAddress {
			return nil, fmt.Errorf("%s: %w", file, chip8.ErrRomTooLarge)
		}
		return program, nil
	}

	asm, err := chip8.Assemble(program)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	logger.Logf("asm", "assembled %s (%d bytes)", filepath.Base(file), len(asm.ROM))

	return asm.ROM, nil
}

/// OpenDialog asks the user for a program to run. An empty name is
/// returned if the dialog was cancelled.
///
func OpenDialog() (string, error) {
	file, err := dialog.File().
		Filter("CHIP-8 Programs", "ch8", "c8", "c8s", "asm").
		Filter("All Files", "*").
		Title("Load CHIP-8 Program").
		Load()

	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}

	return file, err
}

// Package chip8 implements the CHIP-8 virtual machine: 4K of memory, sixteen
// 8-bit V registers, the I address register, a 16 level call stack, the
// delay and sound timers, a 64x32 monochrome display and a 16 key hex pad.
//
// A Machine executes one instruction per call to Step. Instructions are
// decoded by Decode into an Instruction value before being applied, so the
// decoder and the executor can be tested on their own. Timers are decremented
// by Tick or Advance, never by Step; a Clock drives both cadences against the
// wall clock and hands frames and sound state to a Frontend.
//
// The package also contains an assembler for the baseline instruction set
// and a disassembler that produces listings the assembler accepts.
package chip8

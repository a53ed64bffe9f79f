package chip8

import (
	"errors"

	"github.com/massung/chip8vm/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrMemoryFault        = errors.New(f("memory fault"))
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrUnknownInstruction = errors.New(f("unknown instruction"))
	ErrRomTooLarge        = errors.New(f("rom too large"))

	// Assembler errors
	ErrUnexpectedToken    = errors.New(f("unexpected token"))
	ErrExpectedOperand    = errors.New(f("expected operand"))
	ErrExpectedLabel      = errors.New(f("expected .label"))
	ErrIllegalLabel       = errors.New(f("illegal label assignment"))
	ErrDuplicateLabel     = errors.New(f("duplicate label"))
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrIllegalIndirection = errors.New(f("illegal indirection"))
	ErrIllegalLiteral     = errors.New(f("illegal literal"))
	ErrIllegalExpression  = errors.New(f("illegal expression"))
	ErrIllegalDirective   = errors.New(f("illegal directive"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
)

/// AddressError is an access outside of the 4K address space.
///
type AddressError uint16

func (err AddressError) Error() string {
	return f("address %04X out of range", uint16(err))
}

func (err AddressError) Unwrap() error {
	return ErrMemoryFault
}

/// Fault is an error raised while executing the instruction at PC.
///
type Fault struct {
	PC          uint16
	Instruction Instruction
	Err         error
}

func (err *Fault) Error() string {
	return f("%04X %v: %v", err.PC, err.Instruction, err.Err)
}

func (err *Fault) Unwrap() error {
	return err.Err
}

/// LabelError is a label referenced but never defined.
///
type LabelError string

func (err LabelError) Error() string {
	return f("unresolved label: %v", string(err))
}

/// SyntaxError locates an assembler error in the source.
///
type SyntaxError struct {
	Line int
	Err  error
}

func (err *SyntaxError) Error() string {
	return f("line %d - %v", err.Line, err.Err)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

/// QuirkError is an unknown name passed to ParseQuirks.
///
type QuirkError string

func (err QuirkError) Error() string {
	return f("unknown quirk %q", string(err))
}

/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at Base.
	///
	ROM []byte

	/// Base address the ROM begins at.
	///
	Base int

	/// Label mapping. Labels are addresses, EQU literals or VAR registers.
	///
	labels map[string]token

	/// Addresses with unresolved labels.
	///
	unresolved map[int]string

	/// Unresolved labels referenced by the instruction being assembled.
	///
	pending map[int]string
}

/// Assemble an input CHIP-8 source code file. Errors in the source are
/// returned as a *SyntaxError, labels that are never defined as a
/// LabelError.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	// base address for program
	base := ProgramAddress

	// create an empty, return assembly
	out = &Assembly{
		ROM:        make([]byte, base, MemorySize),
		Base:       base,
		labels:     make(map[string]token),
		unresolved: make(map[int]string),
		pending:    make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}

			if line > 0 {
				err = &SyntaxError{Line: line, Err: e}
			} else {
				err = e
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	reader := bytes.NewReader(bytes.ToUpper(program))
	scanner := bufio.NewScanner(reader)

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic(ErrProgramTooLarge)
		}
	}

	if err := scanner.Err(); err != nil {
		panic(err)
	}

	// clear the line number as we're done assembling
	line = 0

	out.resolve()

	// drop the reserved bytes before the base address
	out.ROM = out.ROM[base:]

	return
}

/// Label returns the value of an address or EQU label.
///
func (a *Assembly) Label(name string) (int, bool) {
	if t, ok := a.labels[name]; ok && t.typ == TOKEN_LIT {
		return t.val.(int), true
	}
	return 0, false
}

/// Labels returns the names of all labels, sorted.
///
func (a *Assembly) Labels() []string {
	names := make([]string, 0, len(a.labels))
	for name := range a.labels {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

/// Patch every forward reference with its label's address.
///
func (a *Assembly) resolve() {
	for address, label := range a.unresolved {
		t, ok := a.labels[label]
		if !ok {
			panic(LabelError(label))
		}

		if t.typ != TOKEN_LIT || t.val.(int) < 0 || t.val.(int) >= MemorySize {
			panic(fmt.Errorf("%w: %s", ErrIllegalLabel, label))
		}

		msb := byte(t.val.(int) >> 8)
		lsb := byte(t.val.(int) & 0xFF)

		// NOTE: Forward references only assemble where a 12-bit address
		//       is accepted (SYS, JP, CALL, LD I and WORD), so replacing
		//       the low nibble of the first byte and the second byte
		//       patches any of them.
		a.ROM[address] = msb | (a.ROM[address] & 0xF0)
		a.ROM[address+1] = lsb

		delete(a.unresolved, address)
	}
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s)
	case TOKEN_END:
	default:
		panic(ErrUnexpectedToken)
	}
}

/// Scan for a label and add it to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.labels[label]; exists {
		panic(fmt.Errorf("%w: %s", ErrDuplicateLabel, label))
	}

	// by default, the label is assigned the current address
	a.labels[label] = token{typ: TOKEN_LIT, val: len(a.ROM)}

	// scan the next token
	t := s.scanToken()

	// if EQU or VAR, reassign the label
	if t.typ == TOKEN_EQU || t.typ == TOKEN_VAR {
		v := s.scanToken()

		if v.typ == TOKEN_EXPR {
			v = a.eval(v.val.(string))
		}

		// equ requires a literal, and var requires a v-register
		if (t.typ == TOKEN_EQU && v.typ == TOKEN_LIT) || (t.typ == TOKEN_VAR && v.typ == TOKEN_V) {
			a.labels[label] = v

			// should be the final token
			if t = s.scanToken(); t.typ == TOKEN_END {
				return t
			}
		}

		panic(ErrIllegalLabel)
	}

	return t
}

/// Compile a single instruction into the assembly.
///
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	clear(a.pending)

	var b []byte

	switch i {
	case "CLS":
		b = a.assembleCLS(tokens)
	case "RET":
		b = a.assembleRET(tokens)
	case "SYS":
		b = a.assembleSYS(tokens)
	case "JP":
		b = a.assembleJP(tokens)
	case "CALL":
		b = a.assembleCALL(tokens)
	case "SE":
		b = a.assembleSE(tokens)
	case "SNE":
		b = a.assembleSNE(tokens)
	case "SKP":
		b = a.assembleSKP(tokens)
	case "SKNP":
		b = a.assembleSKNP(tokens)
	case "OR":
		b = a.assembleXY(tokens, 0x1)
	case "AND":
		b = a.assembleXY(tokens, 0x2)
	case "XOR":
		b = a.assembleXY(tokens, 0x3)
	case "SUB":
		b = a.assembleXY(tokens, 0x5)
	case "SUBN":
		b = a.assembleXY(tokens, 0x7)
	case "SHR":
		b = a.assembleShift(tokens, 0x6)
	case "SHL":
		b = a.assembleShift(tokens, 0xE)
	case "ADD":
		b = a.assembleADD(tokens)
	case "BCD":
		b = a.assembleBCD(tokens)
	case "RND":
		b = a.assembleRND(tokens)
	case "DRW":
		b = a.assembleDRW(tokens)
	case "LD":
		b = a.assembleLD(tokens)
	case "BYTE":
		b = a.assembleBYTE(tokens)
	case "WORD":
		b = a.assembleWORD(tokens)
	case "ALIGN":
		b = a.assembleALIGN(tokens)
	case "PAD":
		b = a.assemblePAD(tokens)
	default:
		panic(ErrIllegalDirective)
	}

	// the instruction was accepted, so its forward references stand
	for address, label := range a.pending {
		a.unresolved[address] = label
	}

	a.ROM = append(a.ROM, b...)
}

/// Assemble a single operand, expanding label references and expressions.
/// A forward reference is assumed to be an address and will be patched at
/// offset once the label is defined.
///
func (a *Assembly) assembleOperand(t token, offset int) token {
	switch t.typ {
	case TOKEN_REF:
		label := t.val.(string)
		if v, exists := a.labels[label]; exists {
			return v
		}

		a.pending[len(a.ROM)+offset] = label

		return token{typ: TOKEN_LIT, val: ProgramAddress}
	case TOKEN_EXPR:
		return a.eval(t.val.(string))
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expand labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	ops := make([]token, 0, 3)

	// forget references made by forms that were tried and rejected
	clear(a.pending)

	// the number of desired tokens should match
	if len(tokens) != len(m) {
		return nil, false
	}

	// expand and compare the token types
	for i, typ := range m {
		t := a.assembleOperand(tokens[i], 0)

		if t.typ != typ {
			return nil, false
		}

		ops = append(ops, t)
	}

	return ops, true
}

/// Evaluate a $(...) expression. Labels defined so far are in scope.
///
func (a *Assembly) eval(expr string) token {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}

	for label, t := range a.labels {
		if t.typ == TOKEN_LIT {
			pred[label] = starlark.MakeInt(t.val.(int))
		}
	}

	prog := "RC=" + expr + "\n"

	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrIllegalExpression, err))
	}

	if n, ok := dict["RC"].(starlark.Int); ok {
		if v, ok := n.Int64(); ok && v >= -0x8000 && v <= 0xFFFF {
			return token{typ: TOKEN_LIT, val: int(v)}
		}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalExpression, expr))
}

/// Returns n as an unsigned, 8-bit immediate. Negative bytes are allowed.
///
func imm8(n int) (byte, bool) {
	if n < -0x80 || n > 0xFF {
		return 0, false
	}
	return byte(n), true
}

/// Returns the two bytes of a 12-bit address instruction.
///
func addr(op byte, a int) ([]byte, bool) {
	if a < 0 || a >= 0x1000 {
		return nil, false
	}
	return []byte{op | byte(a>>8&0xF), byte(a & 0xFF)}, true
}

/// Assemble a CLS instruction.
///
func (a *Assembly) assembleCLS(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xE0}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a RET instruction.
///
func (a *Assembly) assembleRET(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xEE}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SYS instruction.
///
func (a *Assembly) assembleSYS(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if b, ok := addr(0x00, ops[0].val.(int)); ok {
			return b
		}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if b, ok := addr(0x10, ops[0].val.(int)); ok {
			return b
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if ops[0].val.(int) == 0 {
			if b, ok := addr(0xB0, ops[1].val.(int)); ok {
				return b
			}
		}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a CALL instruction.
///
func (a *Assembly) assembleCALL(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if b, ok := addr(0x20, ops[0].val.(int)); ok {
			return b
		}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SE instruction.
///
func (a *Assembly) assembleSE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := imm8(ops[1].val.(int)); ok {
			return []byte{0x30 | byte(x), b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return []byte{0x50 | byte(x), byte(y << 4)}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SNE instruction.
///
func (a *Assembly) assembleSNE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := imm8(ops[1].val.(int)); ok {
			return []byte{0x40 | byte(x), b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return []byte{0x90 | byte(x), byte(y << 4)}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SKP instruction.
///
func (a *Assembly) assembleSKP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return []byte{0xE0 | byte(x), 0x9E}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SKNP instruction.
///
func (a *Assembly) assembleSKNP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return []byte{0xE0 | byte(x), 0xA1}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble an 8XYn register-register instruction (OR, AND, XOR, SUB,
/// SUBN).
///
func (a *Assembly) assembleXY(tokens []token, n byte) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return []byte{0x80 | byte(x), byte(y<<4) | n}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a SHR or SHL instruction. With a single register VY is VX.
///
func (a *Assembly) assembleShift(tokens []token, n byte) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return []byte{0x80 | byte(x), byte(x<<4) | n}
	}

	return a.assembleXY(tokens, n)
}

/// Assemble a ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := imm8(ops[1].val.(int)); ok {
			return []byte{0x70 | byte(x), b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		x := ops[1].val.(int)

		return []byte{0xF0 | byte(x), 0x1E}
	}

	return a.assembleXY(tokens, 0x4)
}

/// Assemble a BCD instruction.
///
func (a *Assembly) assembleBCD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return []byte{0xF0 | byte(x), 0x33}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := imm8(ops[1].val.(int)); ok {
			return []byte{0xC0 | byte(x), b}
		}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)
		n := ops[2].val.(int)

		if n >= 0 && n < 0x10 {
			return []byte{0xD0 | byte(x), byte(y<<4) | byte(n)}
		}
	}

	panic(ErrIllegalInstruction)
}

/// LD forms of the FX instructions, keyed by operand types.
///
var loadForms = []struct {
	dst, src tokenType
	lsb      byte
}{
	{TOKEN_V, TOKEN_DT, 0x07},
	{TOKEN_V, TOKEN_K, 0x0A},
	{TOKEN_DT, TOKEN_V, 0x15},
	{TOKEN_ST, TOKEN_V, 0x18},
	{TOKEN_F, TOKEN_V, 0x29},
	{TOKEN_B, TOKEN_V, 0x33},
	{TOKEN_EFFECTIVE_ADDRESS, TOKEN_V, 0x55},
	{TOKEN_V, TOKEN_EFFECTIVE_ADDRESS, 0x65},
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := imm8(ops[1].val.(int)); ok {
			return []byte{0x60 | byte(x), b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return []byte{0x80 | byte(x), byte(y << 4)}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		if b, ok := addr(0xA0, ops[1].val.(int)); ok {
			return b
		}
	}

	for _, form := range loadForms {
		if ops, ok := a.assembleOperands(tokens, form.dst, form.src); ok {
			x := ops[0]
			if form.dst != TOKEN_V {
				x = ops[1]
			}

			return []byte{0xF0 | byte(x.val.(int)), form.lsb}
		}
	}

	panic(ErrIllegalInstruction)
}

/// Assemble a BYTE directive.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	if len(tokens) == 0 {
		panic(ErrExpectedOperand)
	}

	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t, len(b))

		switch op.typ {
		case TOKEN_LIT:
			n, ok := imm8(op.val.(int))
			if !ok || len(a.pending) > 0 {
				panic(fmt.Errorf("%w: byte %d", ErrIllegalLiteral, op.val.(int)))
			}

			b = append(b, n)
		case TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		default:
			panic(ErrIllegalLiteral)
		}
	}

	return b
}

/// Assemble a WORD directive.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	if len(tokens) == 0 {
		panic(ErrExpectedOperand)
	}

	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperand(t, len(b))

		if op.typ != TOKEN_LIT || op.val.(int) < -0x8000 || op.val.(int) > 0xFFFF {
			panic(fmt.Errorf("%w: word", ErrIllegalLiteral))
		}

		msb := op.val.(int) >> 8 & 0xFF
		lsb := op.val.(int) & 0xFF

		// store msb first
		b = append(b, byte(msb), byte(lsb))
	}

	return b
}

/// Assemble an ALIGN directive.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n > 0 && n&(n-1) == 0 {
			pad := (n - len(a.ROM)&(n-1)) & (n - 1)

			// reserve pad bytes to meet alignment
			return make([]byte, pad)
		}
	}

	panic(ErrIllegalDirective)
}

/// Assemble a PAD directive.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n >= 0 && n <= MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic(ErrProgramTooLarge)
}

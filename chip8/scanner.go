package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

/// Type for scanned tokens.
///
type tokenType uint

/// Lexical assembly tokens.
///
const (
	TOKEN_END tokenType = iota
	TOKEN_CHAR
	TOKEN_LABEL
	TOKEN_REF
	TOKEN_INSTRUCTION
	TOKEN_EFFECTIVE_ADDRESS
	TOKEN_OPERAND
	TOKEN_V
	TOKEN_B
	TOKEN_I
	TOKEN_F
	TOKEN_K
	TOKEN_DT
	TOKEN_ST
	TOKEN_LIT
	TOKEN_EXPR
	TOKEN_TEXT
	TOKEN_EQU
	TOKEN_VAR
)

/// A parsed, lexical token.
///
type token struct {
	typ tokenType

	// tokens can have an optional value associated with them
	val any
}

/// CHIP-8 assembler token scanner. It works on a single, upper-cased line.
/// Scan errors are raised with panic and recovered by Assemble.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// Reads the next token from a scanner. Returns the token.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// if at the end, return an end token
	if len(s.bytes) <= s.pos {
		return token{typ: TOKEN_END, val: ""}
	}

	c := s.bytes[s.pos]

	switch {
	case c == ';':
		return s.scanToEnd()
	case c == '.' && s.pos == 0:
		return s.scanLabel()
	case s.pos == 0:
		panic(ErrExpectedLabel)
	case c == '[':
		return s.scanIndirection()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		return s.scanHexLit()
	case c == '$' && s.peek(1) == '(':
		return s.scanExpr()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanDecLit()
	case c >= 'A' && c <= 'Z':
		return s.scanIdentifier()
	case c == '"' || c == '\'':
		return s.scanString(c)
	}

	return s.scanChar()
}

/// Returns the byte n past the scan position, or 0.
///
func (s *tokenScanner) peek(n int) byte {
	if s.pos+n < len(s.bytes) {
		return s.bytes[s.pos+n]
	}
	return 0
}

/// Scan a list of comma-separated tokens.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	// is this the end of the operand list?
	for t := s.scanToken(); t.typ != TOKEN_END; {
		tokens = append(tokens, t)

		// get another token, are we at the end?
		if t = s.scanToken(); t.typ != TOKEN_OPERAND {
			if t.typ == TOKEN_END {
				break
			}

			panic(ErrUnexpectedToken)
		}

		// expand the operand
		t = t.val.(token)
	}

	return tokens
}

/// Scan a single character.
///
func (s *tokenScanner) scanChar() token {
	i := s.pos

	// advance the scan pos
	s.pos += 1

	return token{typ: TOKEN_CHAR, val: s.bytes[i]}
}

/// Scan to the end of the input and return.
///
func (s *tokenScanner) scanToEnd() token {
	text := string(s.bytes[s.pos:])

	// skip to the end
	s.pos = len(s.bytes)

	return token{typ: TOKEN_END, val: strings.TrimSpace(text)}
}

/// Scan a comma-separated operand token.
///
func (s *tokenScanner) scanOperand() token {
	s.pos += 1

	// scan the next token as the operand
	t := s.scanToken()

	// make sure there was an operand
	if t.typ == TOKEN_END {
		panic(ErrExpectedOperand)
	}

	return token{typ: TOKEN_OPERAND, val: t}
}

/// Scan a label, which is a specific type of identifier.
///
func (s *tokenScanner) scanLabel() token {
	s.pos += 1

	// advance and validate the first identifier character
	if c := s.peek(0); c >= 'A' && c <= 'Z' {
		if id := s.scanIdentifier(); id.typ == TOKEN_REF {
			return token{typ: TOKEN_LABEL, val: id.val}
		}
	}

	panic(ErrExpectedLabel)
}

/// Registers, by name.
///
var registers = map[string]token{
	"I":  {typ: TOKEN_I},
	"B":  {typ: TOKEN_B},
	"F":  {typ: TOKEN_F},
	"K":  {typ: TOKEN_K},
	"DT": {typ: TOKEN_DT},
	"ST": {typ: TOKEN_ST},
}

/// Instruction mnemonics and assembler directives.
///
var instructions = map[string]bool{
	"CLS": true, "RET": true, "SYS": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "SKP": true, "SKNP": true, "LD": true,
	"OR": true, "AND": true, "XOR": true, "ADD": true, "SUB": true,
	"SUBN": true, "SHR": true, "SHL": true, "BCD": true, "RND": true,
	"DRW": true, "BYTE": true, "WORD": true, "ALIGN": true, "PAD": true,
}

/// Scan an identifier: instruction, register, or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	// advance to the first non-identifier character
	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		// validate identifier characters
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
	}

	id := string(s.bytes[i:s.pos])

	// v-registers
	if len(id) == 2 && id[0] == 'V' {
		if n := strings.IndexByte("0123456789ABCDEF", id[1]); n >= 0 {
			return token{typ: TOKEN_V, val: n}
		}
	}

	if t, ok := registers[id]; ok {
		return t
	}

	if instructions[id] {
		return token{typ: TOKEN_INSTRUCTION, val: id}
	}

	switch id {
	case "EQU":
		return token{typ: TOKEN_EQU}
	case "VAR":
		return token{typ: TOKEN_VAR}
	}

	return token{typ: TOKEN_REF, val: id}
}

/// Scan an indirect address of I. It is the only indirection there is.
///
func (s *tokenScanner) scanIndirection() token {
	s.pos += 1

	// scan the next token to take the indirect address of
	t := s.scanToken()

	// the next token should close the indirection
	if c := s.scanToken(); c.typ != TOKEN_CHAR || c.val.(byte) != ']' || t.typ != TOKEN_I {
		panic(ErrIllegalIndirection)
	}

	return token{typ: TOKEN_EFFECTIVE_ADDRESS, val: t}
}

/// Scan a $(...) expression. It is evaluated once the labels it refers
/// to are known.
///
func (s *tokenScanner) scanExpr() token {
	s.pos += 2

	i := s.pos

	// find the matching close paren
	for depth := 1; s.pos < len(s.bytes); s.pos++ {
		switch s.bytes[s.pos] {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				expr := string(s.bytes[i:s.pos])

				// skip the close paren
				s.pos++

				return token{typ: TOKEN_EXPR, val: expr}
			}
		}
	}

	panic(fmt.Errorf("%w: $(%s", ErrIllegalExpression, s.bytes[i:]))
}

/// Scan a decimal literal.
///
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	// skip a unary minus negation
	if s.bytes[i] == '-' {
		s.pos += 1
	}

	// find the first non-numeric character
	for ; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte("0123456789", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// convert to a signed number
	if n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalLiteral, s.bytes[i:s.pos]))
}

/// Scan a hexadecimal literal.
///
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	// find the first non-hex character
	for s.pos += 1; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// convert the hex value to an unsigned number
	if n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalLiteral, s.bytes[i:s.pos]))
}

/// Scan a binary literal. A '.' may be used in place of '0', so sprite
/// data can be drawn in the source.
///
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	// find the first non-binary character
	for s.pos += 1; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// replace all '.' with '0'
	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	if n, err := strconv.ParseInt(v, 2, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalLiteral, s.bytes[i:s.pos]))
}

/// Scan a quoted string.
///
func (s *tokenScanner) scanString(term byte) token {
	s.pos += 1

	// store starting position
	i := s.pos

	// find the terminating quotation
	for s.pos < len(s.bytes) && s.bytes[s.pos] != term {
		s.pos++
	}

	if s.pos == len(s.bytes) {
		panic(ErrUnexpectedToken)
	}

	// skip the terminating quotation
	s.pos++

	return token{typ: TOKEN_TEXT, val: string(s.bytes[i : s.pos-1])}
}

package chip8

import (
	"github.com/massung/chip8vm/logger"
)

/// StepResult summarises the side effects of a single Step.
///
type StepResult struct {
	/// Instruction is the instruction executed, if any.
	///
	Instruction Instruction

	/// DisplayChanged is true when video memory was cleared or drawn to.
	///
	DisplayChanged bool

	/// SoundActive is true while the sound timer is running.
	///
	SoundActive bool

	/// Waiting is true while the machine is waiting for a key (FX0A).
	/// No instruction was executed.
	///
	Waiting bool
}

/// Step the CHIP-8 virtual machine a single instruction.
///
/// A fault leaves the machine as it was before the instruction and PC on
/// the faulting instruction, except for an unknown instruction, which is
/// skipped. Faults are returned as a *Fault.
///
func (m *Machine) Step() (res StepResult, err error) {
	if m.waiting {
		return m.waitKey(), nil
	}

	pc := m.pc

	// fetch the next instruction
	word, err := m.ReadWord(pc)
	if err != nil {
		return res, &Fault{PC: pc, Err: err}
	}

	inst := Decode(word)

	if m.Trace {
		logger.Logf("cpu", "%04X %v", pc, inst)
	}

	res.Instruction = inst

	if err = m.execute(inst, &res); err != nil {
		return res, &Fault{PC: pc, Instruction: inst, Err: err}
	}

	// increment the cycle count
	m.cycles++

	res.SoundActive = m.SoundActive()
	res.Waiting = m.waiting

	return res, nil
}

/// waitKey completes a pending FX0A once a key has been pressed. The
/// result carries the FX0A being waited on.
///
func (m *Machine) waitKey() StepResult {
	res := StepResult{
		Instruction: Decode(0xF00A | uint16(m.w)<<8),
		SoundActive: m.SoundActive(),
	}

	key, ok := m.keys.takePress()
	if !ok {
		res.Waiting = true
		return res
	}

	m.v[m.w] = byte(key)
	m.waiting = false

	return res
}

/// execute applies inst. On success PC is left on the next instruction.
///
func (m *Machine) execute(inst Instruction, res *StepResult) error {
	x, y := inst.X, inst.Y

	// advance past the instruction unless it transfers control
	next := m.pc + 2

	switch inst.Op {
	case OpCLS:
		m.cls()
		res.DisplayChanged = true
	case OpRET:
		address, ok := m.stack.Pop()
		if !ok {
			return ErrStackUnderflow
		}
		next = address
	case OpSYS:
		m.sys(inst.NNN)
	case OpJP:
		next = inst.NNN
	case OpCALL:
		if !m.stack.Push(next) {
			return ErrStackOverflow
		}
		next = inst.NNN
	case OpSEByte:
		next = m.skipIf(next, m.v[x] == inst.NN)
	case OpSNEByte:
		next = m.skipIf(next, m.v[x] != inst.NN)
	case OpSEReg:
		next = m.skipIf(next, m.v[x] == m.v[y])
	case OpSNEReg:
		next = m.skipIf(next, m.v[x] != m.v[y])
	case OpLDByte:
		m.v[x] = inst.NN
	case OpADDByte:
		m.v[x] += inst.NN
	case OpLDReg:
		m.v[x] = m.v[y]
	case OpOR:
		m.v[x] |= m.v[y]
	case OpAND:
		m.v[x] &= m.v[y]
	case OpXOR:
		m.v[x] ^= m.v[y]
	case OpADDReg:
		m.addXY(x, y)
	case OpSUB:
		m.subXY(x, y)
	case OpSUBN:
		m.subYX(x, y)
	case OpSHR:
		m.shr(x, y)
	case OpSHL:
		m.shl(x, y)
	case OpLDI:
		m.i = inst.NNN
	case OpJPV0:
		next = m.jumpV0(inst)
	case OpRND:
		m.v[x] = m.Rand() & inst.NN
	case OpDRW:
		if err := m.drw(x, y, inst.N); err != nil {
			return err
		}
		res.DisplayChanged = true
	case OpSKP:
		next = m.skipIf(next, m.keys.Pressed(Key(m.v[x])))
	case OpSKNP:
		next = m.skipIf(next, !m.keys.Pressed(Key(m.v[x])))
	case OpLDVxDT:
		m.v[x] = m.dt
	case OpLDVxK:
		m.loadXK(x)
	case OpLDDTVx:
		m.dt = m.v[x]
	case OpLDSTVx:
		m.st = m.v[x]
	case OpADDI:
		m.i += uint16(m.v[x])
	case OpLDF:
		m.i = FontAddress + uint16(m.v[x]&0xF)*GlyphSize
	case OpLDB:
		if err := m.loadB(x); err != nil {
			return err
		}
	case OpLDMemVx:
		if err := m.saveRegs(x); err != nil {
			return err
		}
	case OpLDVxMem:
		if err := m.loadRegs(x); err != nil {
			return err
		}
	default:
		// skip it, the driver decides whether to halt
		m.pc = next
		return ErrUnknownInstruction
	}

	m.pc = next

	return nil
}

/// Clear the video display memory.
///
func (m *Machine) cls() {
	m.display.Clear()
}

/// system call an RCA 1802 program at address. There is no 1802 to run
/// it, so it is ignored.
///
func (m *Machine) sys(address uint16) {
}

/// skip the next instruction if cond holds.
///
func (m *Machine) skipIf(next uint16, cond bool) uint16 {
	if cond {
		return next + 2
	}
	return next
}

/// jump to address + v0 (or + vx when quirked).
///
func (m *Machine) jumpV0(inst Instruction) uint16 {
	if m.Quirks.JumpUsesVX {
		return inst.NNN + uint16(m.v[inst.X])
	}
	return inst.NNN + uint16(m.v[0])
}

/// add vy to vx and set carry.
///
func (m *Machine) addXY(x, y int) {
	sum := uint16(m.v[x]) + uint16(m.v[y])

	m.v[x] = byte(sum)
	m.v[0xF] = byte(sum >> 8)
}

/// subtract vy from vx, set carry if no borrow.
///
func (m *Machine) subXY(x, y int) {
	var carry byte
	if m.v[x] >= m.v[y] {
		carry = 1
	}

	m.v[x] -= m.v[y]
	m.v[0xF] = carry
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (m *Machine) subYX(x, y int) {
	var carry byte
	if m.v[y] >= m.v[x] {
		carry = 1
	}

	m.v[x] = m.v[y] - m.v[x]
	m.v[0xF] = carry
}

/// shr vx 1 bit, set carry to LSB before the shift.
///
func (m *Machine) shr(x, y int) {
	src := m.v[x]
	if m.Quirks.ShiftUsesVY {
		src = m.v[y]
	}

	m.v[x] = src >> 1
	m.v[0xF] = src & 1
}

/// shl vx 1 bit, set carry to MSB before the shift.
///
func (m *Machine) shl(x, y int) {
	src := m.v[x]
	if m.Quirks.ShiftUsesVY {
		src = m.v[y]
	}

	m.v[x] = src << 1
	m.v[0xF] = src >> 7
}

/// draw a sprite at I to video memory at vx, vy.
///
func (m *Machine) drw(x, y int, n byte) error {
	if err := m.check(m.i, int(n)); err != nil {
		return err
	}

	sprite := m.memory[m.i : m.i+uint16(n)]

	// set carry flag if any collision occurred
	if m.display.DrawSprite(int(m.v[x]), int(m.v[y]), sprite, m.Quirks.WrapSprites) {
		m.v[0xF] = 1
	} else {
		m.v[0xF] = 0
	}

	return nil
}

/// load vx with next key hit. The machine waits cooperatively: later
/// steps do nothing until a key is pressed.
///
func (m *Machine) loadXK(x int) {
	m.keys.clearPresses()

	m.waiting = true
	m.w = byte(x)
}

/// load address with BCD of vx.
///
func (m *Machine) loadB(x int) error {
	if err := m.check(m.i, 3); err != nil {
		return err
	}

	n := m.v[x]

	m.memory[m.i+0] = n / 100
	m.memory[m.i+1] = n / 10 % 10
	m.memory[m.i+2] = n % 10

	return nil
}

/// save registers v0..vx to I.
///
func (m *Machine) saveRegs(x int) error {
	if err := m.check(m.i, x+1); err != nil {
		return err
	}

	copy(m.memory[m.i:], m.v[:x+1])

	if m.Quirks.LoadStoreIncrementsI {
		m.i += uint16(x + 1)
	}

	return nil
}

/// load registers v0..vx from I.
///
func (m *Machine) loadRegs(x int) error {
	if err := m.check(m.i, x+1); err != nil {
		return err
	}

	copy(m.v[:x+1], m.memory[m.i:])

	if m.Quirks.LoadStoreIncrementsI {
		m.i += uint16(x + 1)
	}

	return nil
}

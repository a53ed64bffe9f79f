package chip8

import (
	"math/rand/v2"
	"time"

	"github.com/massung/chip8vm/logger"
)

const (
	/// MemorySize is the size of the CHIP-8 address space.
	///
	MemorySize = 0x1000

	/// ProgramAddress is where programs are loaded and begin execution.
	///
	ProgramAddress = 0x200

	/// TimerHz is the rate the delay and sound timers count down at.
	///
	TimerHz = 60

	/// TickPeriod is the time between two timer decrements.
	///
	TickPeriod = time.Second / TimerHz
)

/// Machine is the CHIP-8 virtual machine.
///
type Machine struct {
	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the font sprites.
	///
	memory [MemorySize]byte

	/// ROM is the pristine program image that Reset copies back into
	/// memory at origin.
	///
	rom    []byte
	origin uint16

	/// V are the 16 virtual registers. VF doubles as the flag register.
	///
	v [16]byte

	/// I is the address register.
	///
	i uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	pc uint16

	/// Return addresses for CALL.
	///
	stack Stack

	/// The delay and sound timer registers, and how much elapsed time has
	/// been accumulated by Advance toward the next tick.
	///
	dt, st byte
	debt   time.Duration

	/// Video memory (64x32 pixels).
	///
	display Display

	/// Keys hold the current state for the 16-key pad keys.
	///
	keys Keypad

	/// When waiting for a key press (FX0A), w is the register that will
	/// receive the key.
	///
	waiting bool
	w       byte

	/// Cycles is how many instructions have been executed.
	///
	cycles uint64

	/// Quirks selects between the conflicting conventions ROMs rely on.
	///
	Quirks Quirks

	/// Trace logs the font and ROM loads and every instruction executed.
	///
	Trace bool

	/// Rand returns the random byte used by RND. It can be replaced for
	/// deterministic execution.
	///
	Rand func() byte
}

/// NewMachine returns a reset machine with no program loaded.
///
func NewMachine() *Machine {
	m := &Machine{
		Rand: randomByte,
	}

	m.Reset()

	return m
}

func randomByte() byte {
	return byte(rand.UintN(0x100))
}

/// Reset the virtual machine. The font is reloaded, registers, stack,
/// timers, keys and video are cleared, and the last loaded ROM is copied
/// back into memory.
///
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}

	// copy the font sprites into reserved memory
	copy(m.memory[FontAddress:], Font[:])

	if m.Trace {
		logger.Logf("cpu", "font loaded at %04X", FontAddress)
	}

	// restore the program
	copy(m.memory[m.origin:], m.rom)

	// reset program counter, address register and virtual registers
	m.pc = ProgramAddress
	m.i = 0
	m.v = [16]byte{}

	m.stack.Reset()

	// reset timer registers
	m.dt = 0
	m.st = 0
	m.debt = 0

	m.display.Clear()
	m.keys.Reset()

	// not waiting for a key
	m.waiting = false
	m.w = 0

	m.cycles = 0
}

/// Load copies a raw ROM image into memory at origin. The image is kept so
/// that Reset can restore it.
///
func (m *Machine) Load(rom []byte, origin uint16) error {
	if int(origin) > MemorySize || len(rom) > MemorySize-int(origin) {
		return ErrRomTooLarge
	}

	m.rom = append([]byte(nil), rom...)
	m.origin = origin

	copy(m.memory[origin:], m.rom)

	if m.Trace {
		logger.Logf("cpu", "rom loaded at %04X (%d bytes)", origin, len(rom))
	}

	return nil
}

/// Read a byte of memory.
///
func (m *Machine) Read(address uint16) (byte, error) {
	if address >= MemorySize {
		return 0, AddressError(address)
	}

	return m.memory[address], nil
}

/// Write a byte of memory.
///
func (m *Machine) Write(address uint16, b byte) error {
	if address >= MemorySize {
		return AddressError(address)
	}

	m.memory[address] = b

	return nil
}

/// ReadWord returns the big-endian 16-bit word at address.
///
func (m *Machine) ReadWord(address uint16) (uint16, error) {
	if err := m.check(address, 2); err != nil {
		return 0, err
	}

	return uint16(m.memory[address])<<8 | uint16(m.memory[address+1]), nil
}

/// check that n bytes starting at address are all addressable.
///
func (m *Machine) check(address uint16, n int) error {
	if int(address)+n > MemorySize {
		// report the first byte out of range
		if address < MemorySize {
			return AddressError(MemorySize)
		}
		return AddressError(address)
	}

	return nil
}

/// Reg returns the value of V[x].
///
func (m *Machine) Reg(x int) byte {
	return m.v[x&0xF]
}

/// SetReg sets V[x].
///
func (m *Machine) SetReg(x int, b byte) {
	m.v[x&0xF] = b
}

func (m *Machine) Index() uint16 {
	return m.i
}

func (m *Machine) SetIndex(address uint16) {
	m.i = address
}

func (m *Machine) PC() uint16 {
	return m.pc
}

func (m *Machine) SetPC(address uint16) {
	m.pc = address
}

/// Depth returns the number of return addresses on the stack.
///
func (m *Machine) Depth() int {
	return m.stack.Depth()
}

func (m *Machine) DelayTimer() byte {
	return m.dt
}

func (m *Machine) SetDelayTimer(b byte) {
	m.dt = b
}

func (m *Machine) SoundTimer() byte {
	return m.st
}

func (m *Machine) SetSoundTimer(b byte) {
	m.st = b
}

/// SoundActive is true while the sound timer is non-zero.
///
func (m *Machine) SoundActive() bool {
	return m.st > 0
}

/// Cycles returns the number of instructions executed since Reset.
///
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

/// Tick counts both timers down once, stopping at zero.
///
func (m *Machine) Tick() {
	if m.dt > 0 {
		m.dt--
	}
	if m.st > 0 {
		m.st--
	}
}

/// Advance accounts elapsed time against the 60Hz timers and applies one
/// Tick per whole period. It returns the number of ticks applied.
///
func (m *Machine) Advance(elapsed time.Duration) (ticks int) {
	m.debt += elapsed

	for m.debt >= TickPeriod {
		m.debt -= TickPeriod
		m.Tick()
		ticks++
	}

	return
}

/// SetKey emulates a CHIP-8 key being pressed or released. It is safe to
/// call from any goroutine.
///
func (m *Machine) SetKey(key Key, pressed bool) {
	m.keys.SetKey(key, pressed)
}

/// Pressed reports whether key is currently held down.
///
func (m *Machine) Pressed(key Key) bool {
	return m.keys.Pressed(key)
}

/// Waiting returns the register FX0A will store a key in, if the machine is
/// waiting for a key press.
///
func (m *Machine) Waiting() (x int, ok bool) {
	return int(m.w), m.waiting
}

/// Framebuffer returns a snapshot of video memory.
///
func (m *Machine) Framebuffer() Frame {
	return m.display.Frame()
}

package chip8

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMachine returns a machine with the words loaded at 0x200 and a
// deterministic random source.
func newTestMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()

	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}

	m := NewMachine()
	m.Rand = func() byte { return 0xA5 }

	require.NoError(t, m.Load(rom, ProgramAddress))

	return m
}

func TestMachine_Reset(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t, 0x6012, 0x00E0)
	m.SetReg(3, 7)
	m.SetIndex(0x300)
	m.SetDelayTimer(9)
	m.SetSoundTimer(4)
	m.SetKey(Key5, true)
	assert.NoError(m.Write(0x200, 0xFF))

	m.Reset()

	assert.Equal(uint16(ProgramAddress), m.PC())
	assert.Equal(uint16(0), m.Index())
	assert.Equal(byte(0), m.Reg(3))
	assert.Equal(byte(0), m.DelayTimer())
	assert.False(m.SoundActive())
	assert.False(m.Pressed(Key5))
	assert.Equal(0, m.Depth())
	assert.Equal(uint64(0), m.Cycles())

	// the rom and font are restored
	b, err := m.Read(0x200)
	assert.NoError(err)
	assert.Equal(byte(0x60), b)

	b, err = m.Read(FontAddress)
	assert.NoError(err)
	assert.Equal(Font[0], b)
}

func TestMachine_Load(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	assert.NoError(m.Load(make([]byte, MemorySize-ProgramAddress), ProgramAddress))
	assert.ErrorIs(m.Load(make([]byte, MemorySize-ProgramAddress+1), ProgramAddress), ErrRomTooLarge)
	assert.ErrorIs(m.Load([]byte{1}, MemorySize), ErrRomTooLarge)
}

func TestMachine_Memory(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	assert.NoError(m.Write(0xFFE, 0x12))
	assert.NoError(m.Write(0xFFF, 0x34))

	w, err := m.ReadWord(0xFFE)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), w)

	_, err = m.ReadWord(0xFFF)
	assert.ErrorIs(err, ErrMemoryFault)

	_, err = m.Read(MemorySize)
	assert.ErrorIs(err, ErrMemoryFault)

	err = m.Write(0xFFFF, 0)
	var address AddressError
	assert.True(errors.As(err, &address))
	assert.Equal(AddressError(0xFFFF), address)
}

func TestMachine_Registers(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	for x := 0; x < 16; x++ {
		m.SetReg(x, byte(x*3))
	}
	for x := 0; x < 16; x++ {
		assert.Equal(byte(x*3), m.Reg(x))
	}
}

func TestMachine_Tick(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.SetDelayTimer(10)
	m.SetSoundTimer(2)

	for i := 0; i < 10; i++ {
		m.Tick()
	}

	assert.Equal(byte(0), m.DelayTimer())
	assert.Equal(byte(0), m.SoundTimer())

	// floor at zero
	m.Tick()
	assert.Equal(byte(0), m.DelayTimer())
}

func TestMachine_Advance(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.SetDelayTimer(10)

	assert.Equal(0, m.Advance(TickPeriod/2))
	assert.Equal(byte(10), m.DelayTimer())

	// the remainder carries over
	assert.Equal(1, m.Advance(TickPeriod/2+TickPeriod/4))
	assert.Equal(byte(9), m.DelayTimer())

	assert.Equal(60, m.Advance(time.Second))
	assert.Equal(byte(0), m.DelayTimer())
}

func TestMachine_TimersIndependentOfStep(t *testing.T) {
	assert := assert.New(t)

	// LD DT, V0 then spin
	m := newTestMachine(t, 0x6005, 0xF015, 0x1204)

	for i := 0; i < 100; i++ {
		_, err := m.Step()
		assert.NoError(err)
	}

	assert.Equal(byte(5), m.DelayTimer())
}

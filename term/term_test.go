package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massung/chip8vm/chip8"
)

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")

	term, err := New(screen)
	require.NoError(t, err)
	t.Cleanup(term.Close)

	return term, screen
}

// pollUntil polls the terminal until cond holds, since injected events are
// delivered by another goroutine.
func pollUntil(t *testing.T, term *Terminal, c *chip8.Clock, m *chip8.Machine, cond func() bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		term.Poll(c, m)
		return cond()
	}, time.Second, time.Millisecond)
}

func TestCell(t *testing.T) {
	assert.Equal(t, ' ', cell(false, false))
	assert.Equal(t, '▀', cell(true, false))
	assert.Equal(t, '▄', cell(false, true))
	assert.Equal(t, '█', cell(true, true))
}

func TestTerminal_Keys(t *testing.T) {
	term, screen := newTestTerminal(t)

	now := time.Now()
	term.now = func() time.Time { return now }

	m := chip8.NewMachine()
	c := chip8.NewClock(chip8.DefaultSpeed)

	screen.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	pollUntil(t, term, c, m, func() bool { return m.Pressed(chip8.Key5) })

	// still held before the timeout
	now = now.Add(KeyHold / 2)
	assert.True(t, term.Poll(c, m))
	assert.True(t, m.Pressed(chip8.Key5))

	now = now.Add(KeyHold)
	assert.True(t, term.Poll(c, m))
	assert.False(t, m.Pressed(chip8.Key5))
}

func TestTerminal_Controls(t *testing.T) {
	term, screen := newTestTerminal(t)

	m := chip8.NewMachine()
	c := chip8.NewClock(chip8.DefaultSpeed)

	screen.InjectKey(tcell.KeyRune, ']', tcell.ModNone)
	pollUntil(t, term, c, m, func() bool { return c.Speed == chip8.DefaultSpeed+chip8.SpeedStep })

	screen.InjectKey(tcell.KeyRune, '[', tcell.ModNone)
	pollUntil(t, term, c, m, func() bool { return c.Speed == chip8.DefaultSpeed })

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	pollUntil(t, term, c, m, func() bool { return c.Paused })
}

func TestTerminal_Quit(t *testing.T) {
	term, screen := newTestTerminal(t)

	m := chip8.NewMachine()
	c := chip8.NewClock(chip8.DefaultSpeed)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	require.Eventually(t, func() bool {
		return !term.Poll(c, m)
	}, time.Second, time.Millisecond)
}

func TestTerminal_Refresh(t *testing.T) {
	assert := assert.New(t)

	term, screen := newTestTerminal(t)

	var f chip8.Frame
	f[0][0] = true
	f[1][1] = true
	f[2][2] = true
	f[3][2] = true

	term.Refresh(f, true)

	cells, w, _ := screen.GetContents()
	at := func(x, y int) rune {
		runes := cells[y*w+x].Runes
		if len(runes) == 0 {
			return 0
		}
		return runes[0]
	}

	// the display sits inside a one cell border
	assert.Equal('┌', at(0, 0))
	assert.Equal('▀', at(1, 1))
	assert.Equal('▄', at(2, 1))
	assert.Equal('█', at(3, 2))
	assert.Equal(' ', at(4, 2))
	assert.Equal('┘', at(chip8.Width+1, chip8.Height/2+1))

	// unchanged frames are not redrawn
	f[0][0] = false
	term.Refresh(f, false)

	cells, w, _ = screen.GetContents()
	assert.Equal('▀', at(1, 1))
}

func TestTerminal_Sound(t *testing.T) {
	term, _ := newTestTerminal(t)

	term.Sound(true)
	assert.True(t, term.sound)

	term.Sound(false)
	assert.False(t, term.sound)
}

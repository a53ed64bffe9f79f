// Package term runs a CHIP-8 machine in a terminal with tcell. Pixels are
// drawn with half block characters, so the 64x32 display needs 64x16 cells.
//
// Terminals only report key presses, so a key is held down until it has not
// been repeated for KeyHold.
package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

// KeyHold is how long a key stays down after it was last reported.
const KeyHold = 150 * time.Millisecond

// KeyMap maps the left side of a QWERTY keyboard to the CHIP-8 keys.
var KeyMap = map[rune]chip8.Key{
	'x': chip8.Key0,
	'1': chip8.Key1,
	'2': chip8.Key2,
	'3': chip8.Key3,
	'q': chip8.Key4,
	'w': chip8.Key5,
	'e': chip8.Key6,
	'a': chip8.Key7,
	's': chip8.Key8,
	'd': chip8.Key9,
	'z': chip8.KeyA,
	'c': chip8.KeyB,
	'4': chip8.KeyC,
	'r': chip8.KeyD,
	'f': chip8.KeyE,
	'v': chip8.KeyF,
}

var (
	lit   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(17, 29, 43)).Background(tcell.NewRGBColor(143, 145, 133))
	frame = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal is a chip8.Frontend drawing to a tcell screen.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	// keys held down and when they were last reported
	held map[chip8.Key]time.Time

	// now is replaced by tests
	now func() time.Time

	sound bool
}

// New takes ownership of screen, initialising it. When screen is nil the
// terminal's own screen is used.
func New(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		var err error

		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	screen.HideCursor()
	screen.Clear()

	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
		held:   make(map[chip8.Key]time.Time),
		now:    time.Now,
	}

	go screen.ChannelEvents(t.events, t.quit)

	return t, nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	close(t.quit)
	t.screen.Fini()
}

// Poll implements chip8.Frontend.
func (t *Terminal) Poll(c *chip8.Clock, m *chip8.Machine) bool {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return false
			}
			if !t.handle(ev, c, m) {
				return false
			}
			continue
		default:
		}
		break
	}

	// release keys that are no longer repeating
	now := t.now()
	for key, last := range t.held {
		if now.Sub(last) >= KeyHold {
			m.SetKey(key, false)
			delete(t.held, key)
		}
	}

	return true
}

func (t *Terminal) handle(ev tcell.Event, c *chip8.Clock, m *chip8.Machine) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			logger.Log("term", "reset")
			m.Reset()
		case tcell.KeyRune:
			t.handleRune(ev.Rune(), c, m)
		}
	}

	return true
}

func (t *Terminal) handleRune(r rune, c *chip8.Clock, m *chip8.Machine) {
	if key, ok := KeyMap[r]; ok {
		m.SetKey(key, true)
		t.held[key] = t.now()
		return
	}

	switch r {
	case '[':
		c.DecSpeed()
		logger.Logf("term", "speed %d", c.Speed)
	case ']':
		c.IncSpeed()
		logger.Logf("term", "speed %d", c.Speed)
	case ' ':
		c.Paused = !c.Paused
	}
}

// Refresh implements chip8.Frontend.
func (t *Terminal) Refresh(f chip8.Frame, changed bool) {
	if !changed {
		return
	}

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			t.screen.SetContent(x+1, y/2+1, cell(f.Pixel(x, y), f.Pixel(x, y+1)), nil, lit)
		}
	}

	t.border()
	t.screen.Show()
}

// cell returns the half block character for a pair of vertical pixels.
func cell(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

func (t *Terminal) border() {
	w, h := chip8.Width+1, chip8.Height/2+1

	for x := 1; x < w; x++ {
		t.screen.SetContent(x, 0, '─', nil, frame)
		t.screen.SetContent(x, h, '─', nil, frame)
	}
	for y := 1; y < h; y++ {
		t.screen.SetContent(0, y, '│', nil, frame)
		t.screen.SetContent(w, y, '│', nil, frame)
	}

	t.screen.SetContent(0, 0, '┌', nil, frame)
	t.screen.SetContent(w, 0, '┐', nil, frame)
	t.screen.SetContent(0, h, '└', nil, frame)
	t.screen.SetContent(w, h, '┘', nil, frame)
}

// Sound implements chip8.Frontend. The terminal bell rings once each time
// the sound timer starts.
func (t *Terminal) Sound(active bool) {
	if active && !t.sound {
		if err := t.screen.Beep(); err != nil {
			logger.Logf("term", "beep: %v", err)
		}
	}

	t.sound = active
}

package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]chip8.Key{
		sdl.SCANCODE_X: chip8.Key0,
		sdl.SCANCODE_1: chip8.Key1,
		sdl.SCANCODE_2: chip8.Key2,
		sdl.SCANCODE_3: chip8.Key3,
		sdl.SCANCODE_Q: chip8.Key4,
		sdl.SCANCODE_W: chip8.Key5,
		sdl.SCANCODE_E: chip8.Key6,
		sdl.SCANCODE_A: chip8.Key7,
		sdl.SCANCODE_S: chip8.Key8,
		sdl.SCANCODE_D: chip8.Key9,
		sdl.SCANCODE_Z: chip8.KeyA,
		sdl.SCANCODE_C: chip8.KeyB,
		sdl.SCANCODE_4: chip8.KeyC,
		sdl.SCANCODE_R: chip8.KeyD,
		sdl.SCANCODE_F: chip8.KeyE,
		sdl.SCANCODE_V: chip8.KeyF,
	}
)

/// Poll events from SDL and map keys to the CHIP-8 machine. Implements
/// chip8.Frontend.
///
func (w *Window) Poll(c *chip8.Clock, m *chip8.Machine) bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				m.SetKey(key, ev.Type == sdl.KEYDOWN)
				continue
			}

			if ev.Type != sdl.KEYDOWN {
				continue
			}

			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_BACKSPACE:
				logger.Log("sdl", "reset")
				m.Reset()

				// holding control during reset will reboot paused
				if ev.Keysym.Mod&sdl.KMOD_CTRL != 0 {
					c.Paused = true
				}
			case sdl.SCANCODE_F2:
				w.reload(c)
			case sdl.SCANCODE_F3:
				w.load(c)
			case sdl.SCANCODE_F12:
				w.screenshot()
			case sdl.SCANCODE_LEFTBRACKET:
				c.DecSpeed()
			case sdl.SCANCODE_RIGHTBRACKET:
				c.IncSpeed()
			case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
				c.Paused = !c.Paused
			}
		}
	}

	w.speed = c.Speed
	w.paused = c.Paused

	return true
}

/// reload the program from disk.
///
func (w *Window) reload(c *chip8.Clock) {
	rom, err := ReadROM(w.file)
	if err != nil {
		logger.Logf("sdl", "reload: %v", err)
		return
	}

	c.Swap(rom)
}

/// load a new program picked from the file dialog.
///
func (w *Window) load(c *chip8.Clock) {
	file, err := OpenDialog()
	if err != nil {
		logger.Logf("sdl", "open: %v", err)
		return
	}
	if file == "" {
		return
	}

	rom, err := ReadROM(file)
	if err != nil {
		logger.Logf("sdl", "open: %v", err)
		return
	}

	w.file = file
	w.setTitle()

	c.Swap(rom)
}

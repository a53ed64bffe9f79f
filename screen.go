package main

import (
	"fmt"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

const (
	/// Scale is the size of a CHIP-8 pixel in the window.
	///
	Scale = 10

	/// Margin around the screen and the status line.
	///
	Margin = 8

	windowWidth  = chip8.Width*Scale + Margin*2
	windowHeight = chip8.Height*Scale + Margin*3 + GlyphHeight
)

/// Window is the SDL front end. It shows the CHIP-8 video memory, plays the
/// buzzer and maps the keyboard to the keypad.
///
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	/// Render target holding the video memory at 1:1.
	///
	screen *sdl.Texture

	audio *Audio

	/// The program running, reloaded with F2.
	///
	file string

	/// Last frame refreshed, kept for screenshots.
	///
	frame chip8.Frame

	/// Status shown below the screen.
	///
	speed  int
	paused bool
}

/// NewWindow initializes SDL and opens the main window for a program.
///
func NewWindow(file string) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	w := &Window{file: file}

	var err error

	// create the main window and renderer
	if w.window, w.renderer, err = sdl.CreateWindowAndRenderer(windowWidth, windowHeight, sdl.WINDOW_OPENGL); err != nil {
		sdl.Quit()
		return nil, err
	}

	w.setTitle()

	// create a render target for the display
	w.screen, err = w.renderer.CreateTexture(sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_TARGET, chip8.Width, chip8.Height)
	if err != nil {
		w.Close()
		return nil, err
	}

	// a missing audio device only silences the buzzer
	if w.audio, err = NewAudio(); err != nil {
		logger.Logf("sdl", "audio: %v", err)
	}

	return w, nil
}

/// Close the window and shut down SDL.
///
func (w *Window) Close() {
	if w.audio != nil {
		w.audio.Close()
	}
	if w.screen != nil {
		w.screen.Destroy()
	}

	w.renderer.Destroy()
	w.window.Destroy()

	sdl.Quit()
}

func (w *Window) setTitle() {
	w.window.SetTitle(fmt.Sprintf("CHIP-8 - %s", filepath.Base(w.file)))
}

/// Refresh implements chip8.Frontend.
///
func (w *Window) Refresh(frame chip8.Frame, changed bool) {
	if changed {
		w.frame = frame
		w.refreshScreen()
	}

	w.renderer.SetDrawColor(32, 42, 53, 255)
	w.renderer.Clear()

	// frame the screen
	w.drawFrame(Margin-2, Margin-2, chip8.Width*Scale+3, chip8.Height*Scale+3)

	w.copyScreen(Margin, Margin, chip8.Width*Scale, chip8.Height*Scale)

	// speed on the status line
	w.renderer.SetDrawColor(95, 112, 120, 255)
	w.DrawText(fmt.Sprint(w.speed), Margin, windowHeight-Margin-GlyphHeight)

	w.renderer.Present()
}

/// refreshScreen redraws the render target with the last frame.
///
func (w *Window) refreshScreen() {
	if err := w.renderer.SetRenderTarget(w.screen); err != nil {
		logger.Logf("sdl", "render target: %v", err)
		return
	}

	// the background color for the screen
	w.renderer.SetDrawColor(143, 145, 133, 255)
	w.renderer.Clear()

	// set the pixel color
	w.renderer.SetDrawColor(17, 29, 43, 255)

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if w.frame[y][x] {
				w.renderer.DrawPoint(int32(x), int32(y))
			}
		}
	}

	// restore the render target
	w.renderer.SetRenderTarget(nil)
}

/// copyScreen stretches the render target to the window.
///
func (w *Window) copyScreen(x, y, width, height int32) {
	src := sdl.Rect{W: chip8.Width, H: chip8.Height}

	w.renderer.Copy(w.screen, &src, &sdl.Rect{X: x, Y: y, W: width, H: height})
}

/// drawFrame outlines a portion of the window. The highlight turns red
/// while paused.
///
func (w *Window) drawFrame(x, y, width, height int32) {
	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.DrawLine(x, y, x+width, y)
	w.renderer.DrawLine(x, y, x, y+height)

	// highlight
	if w.paused {
		w.renderer.SetDrawColor(176, 32, 57, 255)
	} else {
		w.renderer.SetDrawColor(95, 112, 120, 255)
	}

	w.renderer.DrawLine(x+width, y, x+width, y+height)
	w.renderer.DrawLine(x, y+height, x+width, y+height)
}

/// Sound implements chip8.Frontend.
///
func (w *Window) Sound(active bool) {
	if w.audio == nil {
		return
	}

	if err := w.audio.Sound(active); err != nil {
		logger.Logf("sdl", "audio: %v", err)
	}
}

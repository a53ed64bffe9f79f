package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

/// Screenshot scales a frame by scale and writes it as a PNG.
///
func Screenshot(w io.Writer, frame chip8.Frame, scale int) error {
	src := frame.Image()

	dst := image.NewPaletted(image.Rect(0, 0, chip8.Width*scale, chip8.Height*scale), chip8.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return png.Encode(w, dst)
}

/// SaveScreenshot writes a scaled frame to a PNG file.
///
func SaveScreenshot(name string, frame chip8.Frame, scale int) (rerr error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = err
		}
	}()

	return Screenshot(f, frame, scale)
}

/// screenshot saves the last frame refreshed to the working directory.
///
func (w *Window) screenshot() {
	name := fmt.Sprintf("chip8_%s.png", time.Now().Format("20060102_150405"))

	if err := SaveScreenshot(name, w.frame, Scale); err != nil {
		logger.Logf("sdl", "screenshot: %v", err)
		return
	}

	logger.Logf("sdl", "saved %s", name)
}

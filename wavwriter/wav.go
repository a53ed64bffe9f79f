// Package wavwriter records the CHIP-8 buzzer to a WAV file. Note that audio
// data is buffered in memory in its entirety, and written to disk when
// recording ends.
package wavwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
)

const (
	// SampleRate of the recording.
	SampleRate = 44100

	// ToneHz is the pitch of the buzzer.
	ToneHz = 440

	bitDepth = 16
	volume   = 0x2000

	// one call to Sound covers a single 60Hz frame
	samplesPerFrame = SampleRate / chip8.TimerHz
	period          = SampleRate / ToneHz
)

// WavWriter buffers the square wave of the sound timer.
type WavWriter struct {
	filename string
	buffer   []int

	// position within the square wave
	phase int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("wavwriter: no filename")
	}

	aw := &WavWriter{
		filename: filename,
		buffer:   make([]int, 0, SampleRate),
	}

	return aw, nil
}

// Sound appends one frame of audio, the tone when active and silence
// otherwise.
func (aw *WavWriter) Sound(active bool) {
	for i := 0; i < samplesPerFrame; i++ {
		if !active {
			aw.buffer = append(aw.buffer, 0)
			continue
		}

		if aw.phase < period/2 {
			aw.buffer = append(aw.buffer, volume)
		} else {
			aw.buffer = append(aw.buffer, -volume)
		}

		aw.phase = (aw.phase + 1) % period
	}
}

// Samples returns the number of samples recorded.
func (aw *WavWriter) Samples() int {
	return len(aw.buffer)
}

// Encode writes the recording as 16-bit mono PCM.
func (aw *WavWriter) Encode(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, SampleRate, bitDepth, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}

// EndMixing writes the recording to disk.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	logger.Logf("wavwriter", "writing audio to %s", aw.filename)

	return aw.Encode(f)
}

// Wrap returns a frontend that records the sound timer as well as passing
// it on to fe.
func (aw *WavWriter) Wrap(fe chip8.Frontend) chip8.Frontend {
	return &recorder{Frontend: fe, aw: aw}
}

type recorder struct {
	chip8.Frontend
	aw *WavWriter
}

func (r *recorder) Sound(active bool) {
	r.aw.Sound(active)
	r.Frontend.Sound(active)
}

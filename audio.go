package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/massung/chip8vm/chip8"
)

const (
	/// AudioFreq is the sample rate of the audio device.
	///
	AudioFreq = 22050

	/// ToneHz is the pitch of the buzzer.
	///
	ToneHz = 440

	/// one chip8.Frontend.Sound call covers a 60Hz frame
	///
	frameSamples = AudioFreq / chip8.TimerHz

	/// maximum queued audio before frames are dropped to keep latency low
	///
	maxQueued = frameSamples * 4

	amplitude = 48
)

/// Audio plays the buzzer through an SDL audio queue.
///
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	/// One frame of tone, built once.
	///
	tone []byte
}

/// NewAudio opens the default audio device.
///
func NewAudio() (*Audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     AudioFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	aud := &Audio{}

	var err error

	if aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0); err != nil {
		return nil, err
	}

	aud.tone = squareWave(frameSamples, int(aud.spec.Freq)/ToneHz, aud.spec.Silence)

	// start playing immediately, an empty queue is silent
	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

/// squareWave returns n unsigned 8-bit samples of a square wave centred on
/// silence.
///
func squareWave(n, period int, silence uint8) []byte {
	wave := make([]byte, n)

	for i := range wave {
		if i%period < period/2 {
			wave[i] = silence + amplitude
		} else {
			wave[i] = silence - amplitude
		}
	}

	return wave
}

/// Sound queues a frame of the tone while the sound timer is active.
///
func (aud *Audio) Sound(active bool) error {
	if !active {
		sdl.ClearQueuedAudio(aud.id)
		return nil
	}

	if sdl.GetQueuedAudioSize(aud.id) > maxQueued {
		return nil
	}

	return sdl.QueueAudio(aud.id, aud.tone)
}

/// Close the audio device.
///
func (aud *Audio) Close() {
	sdl.CloseAudioDevice(aud.id)
}

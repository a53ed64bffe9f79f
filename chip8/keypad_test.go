package chip8

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_SetKey(t *testing.T) {
	assert := assert.New(t)

	var k Keypad

	k.SetKey(Key3, true)
	assert.True(k.Pressed(Key3))
	assert.False(k.Pressed(Key4))

	k.SetKey(Key3, false)
	assert.False(k.Pressed(Key3))

	// out of range keys are ignored
	k.SetKey(Key(0x10), true)
	assert.False(k.Pressed(Key(0x10)))
}

func TestKeypad_Press(t *testing.T) {
	assert := assert.New(t)

	var k Keypad

	_, ok := k.takePress()
	assert.False(ok)

	k.SetKey(KeyE, true)
	k.SetKey(Key9, true)

	key, ok := k.takePress()
	assert.True(ok)
	assert.Equal(Key9, key)

	// taken
	_, ok = k.takePress()
	assert.False(ok)

	// holding a key is not a new press
	k.SetKey(Key9, true)
	_, ok = k.takePress()
	assert.False(ok)

	// released and pressed again is
	k.SetKey(Key9, false)
	k.SetKey(Key9, true)

	key, ok = k.takePress()
	assert.True(ok)
	assert.Equal(Key9, key)
}

func TestKeypad_ClearPresses(t *testing.T) {
	assert := assert.New(t)

	var k Keypad

	k.SetKey(Key1, true)
	k.clearPresses()

	_, ok := k.takePress()
	assert.False(ok)
	assert.True(k.Pressed(Key1))

	k.Reset()
	assert.False(k.Pressed(Key1))
}

func TestKeypad_Concurrent(t *testing.T) {
	assert := assert.New(t)

	var (
		k  Keypad
		wg sync.WaitGroup
	)

	for key := Key0; key <= KeyF; key++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				k.SetKey(key, i%2 == 0)
			}
		}()
	}

	wg.Wait()

	// the last write for every key was a release
	for key := Key0; key <= KeyF; key++ {
		assert.False(k.Pressed(key))
	}
}

package chip8

import (
	"math/bits"
	"sync/atomic"
)

/// The computers which originally used CHIP-8 had a 16-key hexadecimal
/// keypad with the following layout:
///
///	+---+---+---+---+
///	| 1 | 2 | 3 | C |
///	+---+---+---+---+
///	| 4 | 5 | 6 | D |
///	+---+---+---+---+
///	| 7 | 8 | 9 | E |
///	+---+---+---+---+
///	| A | 0 | B | F |
///	+---+---+---+---+
///
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

/// Keypad is the state of the 16 keys. It has a single writer (the input
/// collaborator) and a single reader (the machine), possibly on different
/// goroutines, so the state is kept in atomics.
///
type Keypad struct {
	/// down has one bit set per key held.
	///
	down atomic.Uint32

	/// presses latches keys that went from up to down since the last
	/// time the latch was taken.
	///
	presses atomic.Uint32
}

/// SetKey records key as pressed or released. Keys above KeyF are ignored.
///
func (k *Keypad) SetKey(key Key, pressed bool) {
	if key > KeyF {
		return
	}

	bit := uint32(1) << key

	if !pressed {
		k.down.And(^bit)
		return
	}

	// only an up to down transition counts as a press
	if k.down.Or(bit)&bit == 0 {
		k.presses.Or(bit)
	}
}

/// Pressed reports whether key is held down. Keys above KeyF never are.
///
func (k *Keypad) Pressed(key Key) bool {
	if key > KeyF {
		return false
	}
	return k.down.Load()&(1<<key) != 0
}

/// Reset releases every key.
///
func (k *Keypad) Reset() {
	k.down.Store(0)
	k.presses.Store(0)
}

/// clearPresses forgets any press transitions seen so far.
///
func (k *Keypad) clearPresses() {
	k.presses.Store(0)
}

/// takePress returns the lowest key pressed since the latch was last taken.
///
func (k *Keypad) takePress() (Key, bool) {
	p := k.presses.Swap(0)
	if p == 0 {
		return 0, false
	}
	return Key(bits.TrailingZeros32(p)), true
}

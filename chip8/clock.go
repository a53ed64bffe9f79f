package chip8

import (
	"context"
	"errors"
	"time"

	"github.com/massung/chip8vm/logger"
)

const (
	/// DefaultSpeed is the number of instructions executed per second.
	///
	DefaultSpeed = 700

	/// MinSpeed and MaxSpeed bound IncSpeed and DecSpeed.
	///
	MinSpeed = 60
	MaxSpeed = 6000

	/// SpeedStep is how much IncSpeed and DecSpeed change the speed by.
	///
	SpeedStep = 60

	/// CyclePeriod is how often the clock catches up on owed cycles.
	///
	CyclePeriod = time.Millisecond

	/// maxCatchUp limits how far behind the clock can fall before owed
	/// time is thrown away (e.g. after the host was suspended).
	///
	maxCatchUp = 100 * time.Millisecond
)

/// Frontend presents a running machine to the user.
///
type Frontend interface {
	/// Poll processes pending input events, applying them to the machine
	/// (SetKey) or clock (Paused, speed). It returns false to quit.
	///
	Poll(c *Clock, m *Machine) bool

	/// Refresh is called at 60Hz with the current video memory. changed
	/// is false when nothing has been drawn since the last refresh.
	///
	Refresh(frame Frame, changed bool)

	/// Sound is called at 60Hz with the state of the sound timer.
	///
	Sound(active bool)
}

/// Clock drives a machine at a fixed instruction rate and the timers at
/// 60Hz.
///
type Clock struct {
	/// Speed is the number of instructions executed per second.
	///
	Speed int

	/// Paused stops the machine. Time that passes while paused is not
	/// owed once execution resumes.
	///
	Paused bool

	/// Continue decides if Run keeps going after a fault. When nil,
	/// unknown instructions are logged and skipped and any other fault
	/// stops Run.
	///
	Continue func(err error) bool

	/// Time accounted toward the next instruction, scaled by Speed.
	///
	budget time.Duration

	/// A ROM handed over by Swap, waiting to be loaded.
	///
	swap chan []byte
}

/// NewClock returns a clock running at speed instructions per second.
///
func NewClock(speed int) *Clock {
	c := &Clock{
		swap: make(chan []byte, 1),
	}

	c.SetSpeed(speed)

	return c
}

/// SetSpeed changes the number of instructions per second, clamped to
/// [MinSpeed, MaxSpeed].
///
func (c *Clock) SetSpeed(speed int) {
	c.Speed = min(max(speed, MinSpeed), MaxSpeed)
}

func (c *Clock) IncSpeed() {
	c.SetSpeed(c.Speed + SpeedStep)
}

func (c *Clock) DecSpeed() {
	c.SetSpeed(c.Speed - SpeedStep)
}

/// Swap hands a new ROM to the running clock. The machine is reset and the
/// ROM loaded before the next instruction. A ROM still waiting to be
/// loaded is replaced. Swap never blocks and is safe to call from any
/// goroutine.
///
func (c *Clock) Swap(rom []byte) {
	for {
		select {
		case c.swap <- rom:
			return
		default:
		}

		// drop the stale ROM
		select {
		case <-c.swap:
		default:
		}
	}
}

/// Process CHIP-8 emulation for elapsed wall time. This will execute until
/// the clock is caught up, and returns the combined result of every step.
///
func (c *Clock) Process(m *Machine, elapsed time.Duration) (res StepResult, err error) {
	if c.Paused {
		c.budget = 0
		return
	}

	c.budget += min(elapsed, maxCatchUp) * time.Duration(c.Speed)

	// calculate how many cycles should have been executed
	count := c.budget / time.Second
	c.budget %= time.Second

	for ; count > 0; count-- {
		step, stepErr := m.Step()

		res.Instruction = step.Instruction
		res.DisplayChanged = res.DisplayChanged || step.DisplayChanged
		res.SoundActive = step.SoundActive
		res.Waiting = step.Waiting

		if stepErr != nil && !c.keepGoing(stepErr) {
			return res, stepErr
		}

		// if waiting for a key, catch up
		if step.Waiting {
			c.budget = 0
			break
		}
	}

	return
}

func (c *Clock) keepGoing(err error) bool {
	if c.Continue != nil {
		return c.Continue(err)
	}

	if errors.Is(err, ErrUnknownInstruction) {
		logger.Log("cpu", err.Error())
		return true
	}

	return false
}

/// Run the machine until the frontend quits, the context is cancelled or
/// a fault stops it.
///
func (c *Clock) Run(ctx context.Context, m *Machine, fe Frontend) error {
	video := time.NewTicker(TickPeriod)
	defer video.Stop()

	cpu := time.NewTicker(CyclePeriod)
	defer cpu.Stop()

	var (
		lastStep = time.Now()
		lastTick = lastStep
		changed  = true
	)

	// loop until window closed or user quit
	for fe.Poll(c, m) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rom := <-c.swap:
			if err := m.Load(rom, ProgramAddress); err != nil {
				logger.Logf("clock", "swap: %v", err)
			} else {
				logger.Logf("clock", "swapped rom (%d bytes)", len(rom))
			}

			m.Reset()

			c.budget = 0
			changed = true
		case now := <-video.C:
			if !c.Paused {
				m.Advance(now.Sub(lastTick))
			}
			lastTick = now

			fe.Sound(!c.Paused && m.SoundActive())
			fe.Refresh(m.Framebuffer(), changed)

			changed = false
		case now := <-cpu.C:
			res, err := c.Process(m, now.Sub(lastStep))
			if err != nil {
				return err
			}
			lastStep = now

			changed = changed || res.DisplayChanged
		}
	}

	return nil
}

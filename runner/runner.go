// Package runner drives a CHIP-8 machine: it polls input, paces cycles and
// hands the framebuffer to the display after every cycle.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tliron/commonlog"

	"github.com/adrichey/chip8vm/emulator"
)

// Machine is the part of emulator.Chip8 the driver needs.
type Machine interface {
	Cycle() error
	Reset()
	Video() *emulator.Screen
	Keypad() *[emulator.KEY_COUNT]bool
	Snapshot() emulator.State
}

// Display presents the framebuffer.
type Display interface {
	Update(video *emulator.Screen, pitch int) error
}

// Event is what the input collaborator asks the driver to do.
type Event int

const (
	EventNone Event = iota
	EventQuit
	EventReset
)

// Input writes the current key states into keys and reports any requested action.
type Input interface {
	ProcessInput(keys *[emulator.KEY_COUNT]bool) Event
}

type Options struct {
	// Minimum time between two cycles
	CycleDelay time.Duration

	// Stop after this many cycles. Zero runs until quit or cancellation.
	MaxCycles uint64
}

/*
Run calls Cycle continuously until the input asks to quit, ctx is cancelled or the machine fails.

With each iteration of the loop: input is polled, a delay is checked to see if enough time has
passed between cycles and a cycle is run if so, and the screen is updated.

Unknown opcodes are logged and skipped. Any other machine error stops the loop and is returned.
*/
func Run(ctx context.Context, m Machine, display Display, input Input, opts Options) error {
	log := commonlog.GetLogger("chip8.runner")

	lastCycleTime := time.Time{}
	var cycles uint64

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch input.ProcessInput(m.Keypad()) {
		case EventQuit:
			log.Info("quit requested", "cycles", cycles)
			return nil
		case EventReset:
			log.Info("reset requested", "cycles", cycles)
			m.Reset()
		}

		if wait := opts.CycleDelay - time.Since(lastCycleTime); wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}
		lastCycleTime = time.Now()

		if err := m.Cycle(); err != nil {
			var unknown *emulator.UnknownOpcodeError
			if !errors.As(err, &unknown) {
				return fmt.Errorf("machine halted (%s): %w", m.Snapshot(), err)
			}
			log.Warningf("skipping %s", err)
		}
		cycles++

		if err := display.Update(m.Video(), emulator.VIDEO_PITCH); err != nil {
			return fmt.Errorf("updating display: %w", err)
		}

		if opts.MaxCycles != 0 && cycles >= opts.MaxCycles {
			log.Debugf("stopping after %d cycles", cycles)
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

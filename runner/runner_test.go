package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrichey/chip8vm/emulator"
)

type recordingDisplay struct {
	updates int
	pitch   int
	err     error
}

func (d *recordingDisplay) Update(video *emulator.Screen, pitch int) error {
	d.updates++
	d.pitch = pitch
	return d.err
}

// scriptedInput returns events in order, then EventNone. Pressed keys are held on every poll.
type scriptedInput struct {
	events  []Event
	pressed []byte
	polls   int
}

func (in *scriptedInput) ProcessInput(keys *[emulator.KEY_COUNT]bool) Event {
	in.polls++
	for _, k := range in.pressed {
		keys[k] = true
	}
	if len(in.events) == 0 {
		return EventNone
	}
	ev := in.events[0]
	in.events = in.events[1:]
	return ev
}

func machine(t *testing.T, rom ...byte) *emulator.Chip8 {
	t.Helper()

	m := emulator.New()
	require.NoError(t, m.LoadProgram(rom))
	return m
}

func TestRun_MaxCycles(t *testing.T) {
	assert := assert.New(t)

	// V0 += 1; JP 0x200
	m := machine(t, 0x70, 0x01, 0x12, 0x00)
	display := &recordingDisplay{}

	err := Run(context.Background(), m, display, &scriptedInput{}, Options{MaxCycles: 10})
	assert.NoError(err)
	assert.Equal(10, display.updates)
	assert.Equal(emulator.VIDEO_PITCH, display.pitch)
	assert.Equal(byte(5), m.Snapshot().Registers[0])
}

func TestRun_Quit(t *testing.T) {
	assert := assert.New(t)

	m := machine(t, 0x12, 0x00)
	display := &recordingDisplay{}
	input := &scriptedInput{events: []Event{EventNone, EventNone, EventQuit}}

	assert.NoError(Run(context.Background(), m, display, input, Options{}))
	assert.Equal(2, display.updates)
	assert.Equal(3, input.polls)
}

func TestRun_Reset(t *testing.T) {
	assert := assert.New(t)

	// V0 += 1; JP 0x200
	m := machine(t, 0x70, 0x01, 0x12, 0x00)
	input := &scriptedInput{events: []Event{EventNone, EventNone, EventReset}}

	assert.NoError(Run(context.Background(), m, &recordingDisplay{}, input, Options{MaxCycles: 3}))
	// Without the reset the third cycle would leave V0 at 2.
	assert.Equal(byte(1), m.Snapshot().Registers[0])
	assert.Equal(uint16(0x202), m.Snapshot().PC)
}

func TestRun_KeysReachMachine(t *testing.T) {
	// LD V3, K waits until a key is down.
	m := machine(t, 0xF3, 0x0A)
	input := &scriptedInput{pressed: []byte{0xB}}

	require.NoError(t, Run(context.Background(), m, &recordingDisplay{}, input, Options{MaxCycles: 1}))
	assert.Equal(t, byte(0xB), m.Snapshot().Registers[3])
	assert.Equal(t, uint16(0x202), m.Snapshot().PC)
}

func TestRun_UnknownOpcodeContinues(t *testing.T) {
	assert := assert.New(t)

	m := machine(t, 0xFF, 0xFF, 0x60, 0x07)
	assert.NoError(Run(context.Background(), m, &recordingDisplay{}, &scriptedInput{}, Options{MaxCycles: 2}))
	assert.Equal(byte(7), m.Snapshot().Registers[0])
}

func TestRun_HaltsOnStackError(t *testing.T) {
	m := machine(t, 0x00, 0xEE)

	err := Run(context.Background(), m, &recordingDisplay{}, &scriptedInput{}, Options{})
	var underflow *emulator.StackUnderflowError
	assert.ErrorAs(t, err, &underflow)
}

func TestRun_DisplayError(t *testing.T) {
	boom := errors.New("boom")
	m := machine(t, 0x12, 0x00)

	err := Run(context.Background(), m, &recordingDisplay{err: boom}, &scriptedInput{}, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestRun_Cancelled(t *testing.T) {
	m := machine(t, 0x12, 0x00)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, m, &recordingDisplay{}, &scriptedInput{}, Options{CycleDelay: time.Hour})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_Delay(t *testing.T) {
	m := machine(t, 0x12, 0x00)
	display := &recordingDisplay{}

	start := time.Now()
	require.NoError(t, Run(context.Background(), m, display, &scriptedInput{}, Options{CycleDelay: 5 * time.Millisecond, MaxCycles: 3}))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 3, display.updates)
}

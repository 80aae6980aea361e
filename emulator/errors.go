package emulator

import (
	"errors"
	"fmt"
)

// ErrROMTooLarge is wrapped by the LoadError returned when a program image does not fit above START_ADDRESS.
var ErrROMTooLarge = errors.New("rom too large")

// LoadError reports a program image that could not be read or does not fit in memory.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("loading program: %v", e.Err)
	}
	return fmt.Sprintf("loading program %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StackOverflowError is returned by a CALL executed with all 16 stack slots in use.
type StackOverflowError struct {
	PC     uint16
	Opcode uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: %04X at %03X", e.Opcode, e.PC)
}

// StackUnderflowError is returned by a RET executed with an empty stack.
type StackUnderflowError struct {
	PC     uint16
	Opcode uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow: %04X at %03X", e.Opcode, e.PC)
}

// UnknownOpcodeError is returned for an instruction word that decodes to no handler.
// The instruction is skipped, so the VM may keep running after it is reported.
type UnknownOpcodeError struct {
	PC     uint16
	Opcode uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %03X", e.Opcode, e.PC)
}

// MemoryBoundsError is returned when an instruction would touch memory past 0xFFF.
type MemoryBoundsError struct {
	PC      uint16
	Opcode  uint16
	Address uint
	Length  uint
}

func (e *MemoryBoundsError) Error() string {
	return fmt.Sprintf("memory access of %d bytes at %04X out of bounds: %04X at %03X",
		e.Length, e.Address, e.Opcode, e.PC)
}

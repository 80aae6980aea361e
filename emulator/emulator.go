package emulator

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/tliron/commonlog"
)

/*
There is relatively little register-space (because it's expensive), so a computer needs a large chunk of general
memory dedicated to holding program instructions, long-term data, and short-term data. It references different
locations in that memory using an address.

The CHIP-8 has 4096 bytes of memory, meaning the address space is from 0x000 to 0xFFF.
The address space is segmented into three sections:

	0x000-0x1FF: Originally reserved for the CHIP-8 interpreter. Nothing but the fontset lives here.
	0x050-0x0A0: Storage space for the 16 built-in characters (0 through F).
	0x200-0xFFF: Instructions from the ROM are stored starting at 0x200, anything after the ROM is free to use.
*/
const (
	MEMORY_SIZE           uint = 4096
	START_ADDRESS         uint = 0x200
	FONTSET_START_ADDRESS uint = 0x50
	MAX_ROM_SIZE               = MEMORY_SIZE - START_ADDRESS

	STACK_SIZE = 16
	KEY_COUNT  = 16
)

var fontset = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Chip8 holds the complete interpreter state. A Chip8 is not safe for concurrent use.
type Chip8 struct {
	// Chip8 has 16 8-bit registers. VF doubles as the carry, borrow and collision flag.
	registers [16]byte

	// 4k bytes of memory
	memory [MEMORY_SIZE]byte

	// The Index Register is a special register used to store memory addresses for use in operations
	// It's a 16-bit register because the maximum memory address (0xFFF) is too big for an 8-bit register
	indexRegister uint16

	// The Program Counter (PC) holds the address of the next instruction to execute
	programCounter uint16

	// 16-level stack used to hold return addresses
	stack [STACK_SIZE]uint16

	// Number of occupied stack slots, 0 through 16
	stackPointer byte

	// Both timers count down by one per cycle while non-zero
	delayTimer byte
	soundTimer byte

	// The instruction currently being executed
	opcode uint16

	/*
		Keypad layout:
		+-+-+-+-+
		|1|2|3|C|
		+-+-+-+-+
		|4|5|6|D|
		+-+-+-+-+
		|7|8|9|E|
		+-+-+-+-+
		|A|0|B|F|
		+-+-+-+-+
	*/
	keypad [KEY_COUNT]bool

	video Screen

	rng    *rand.Rand
	quirks Quirks
	trace  bool
	log    commonlog.Logger

	// Last image handed to LoadProgram, restored by Reset
	program []byte
}

// Option configures a Chip8 at construction.
type Option func(*Chip8)

// WithQuirks selects the behaviour of the instructions that differ between interpreters.
func WithQuirks(q Quirks) Option {
	return func(c8 *Chip8) {
		c8.quirks = q
	}
}

// WithRandomSource replaces the time-seeded generator used by CXKK.
func WithRandomSource(src rand.Source) Option {
	return func(c8 *Chip8) {
		c8.rng = rand.New(src)
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(enabled bool) Option {
	return func(c8 *Chip8) {
		c8.trace = enabled
	}
}

// WithLogger sets the logger used for tracing.
func WithLogger(log commonlog.Logger) Option {
	return func(c8 *Chip8) {
		c8.log = log
	}
}

// New returns a powered-on machine: fontset loaded and the program counter at START_ADDRESS.
func New(opts ...Option) *Chip8 {
	seed := uint64(time.Now().UnixNano())
	c8 := &Chip8{
		rng: rand.New(rand.NewPCG(seed, seed>>32)),
		log: commonlog.GetLogger("chip8.vm"),
	}
	for _, opt := range opts {
		opt(c8)
	}
	c8.powerOn()
	return c8
}

func (c8 *Chip8) powerOn() {
	c8.memory = [MEMORY_SIZE]byte{}
	copy(c8.memory[FONTSET_START_ADDRESS:], fontset[:])

	c8.registers = [16]byte{}
	c8.stack = [STACK_SIZE]uint16{}
	c8.indexRegister = 0
	c8.stackPointer = 0
	c8.delayTimer = 0
	c8.soundTimer = 0
	c8.opcode = 0
	c8.programCounter = uint16(START_ADDRESS)

	c8.op00E0()
}

// Reset returns the machine to its power-on state and reloads the most recent program.
// Key state set by the input is kept.
func (c8 *Chip8) Reset() {
	c8.powerOn()
	copy(c8.memory[START_ADDRESS:], c8.program)
}

// LoadProgram copies rom into memory at START_ADDRESS. No other state is touched.
func (c8 *Chip8) LoadProgram(rom []byte) error {
	if uint(len(rom)) > MAX_ROM_SIZE {
		return &LoadError{Err: fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(rom), MAX_ROM_SIZE)}
	}

	copy(c8.memory[START_ADDRESS:], rom)
	c8.program = append(c8.program[:0], rom...)
	return nil
}

// LoadProgramFrom reads a whole program image from r and loads it.
func (c8 *Chip8) LoadProgramFrom(r io.Reader) error {
	// One byte of slack lets an oversized image be detected without reading all of it.
	data, err := io.ReadAll(io.LimitReader(r, int64(MAX_ROM_SIZE)+1))
	if err != nil {
		return &LoadError{Err: err}
	}
	return c8.LoadProgram(data)
}

// LoadFile loads the program image stored at path.
func (c8 *Chip8) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	if err := c8.LoadProgramFrom(f); err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Source = path
		}
		return err
	}
	return nil
}

/*
When we talk about one cycle of this primitive CPU that we're emulating, we're talking about it doing four things:
- Fetch the next instruction in the form of an opcode
- Decode the instruction to determine what operation needs to occur
- Execute the instruction
- Count the timers down

A stack or memory error leaves the machine exactly as it was before the cycle.
An unknown opcode is skipped like a no-op and reported.
*/
func (c8 *Chip8) Cycle() error {
	pc, previous := c8.programCounter, c8.opcode

	// Fetch
	if uint(pc)+1 >= MEMORY_SIZE {
		return &MemoryBoundsError{PC: pc, Address: uint(pc), Length: 2}
	}
	c8.opcode = uint16(c8.memory[pc])<<8 | uint16(c8.memory[pc+1])

	if c8.trace && c8.log.AllowLevel(commonlog.Debug) {
		c8.log.Debugf("%03X  %04X  %s", pc, c8.opcode, Disassemble(c8.opcode))
	}

	// Increment the PC before we execute anything
	c8.programCounter += 2

	// Decode and Execute
	if err := c8.execute(); err != nil {
		var unknown *UnknownOpcodeError
		if !errors.As(err, &unknown) {
			c8.programCounter, c8.opcode = pc, previous
			return err
		}
		c8.tickTimers()
		return err
	}

	c8.tickTimers()
	return nil
}

func (c8 *Chip8) tickTimers() {
	if c8.delayTimer > 0 {
		c8.delayTimer -= 1
	}

	if c8.soundTimer > 0 {
		c8.soundTimer -= 1
	}
}

func (c8 *Chip8) execute() error {
	switch c8.opcode & 0xF000 {
	case 0x0000:
		switch c8.opcode {
		case 0x00E0:
			c8.op00E0()
		case 0x00EE:
			return c8.op00EE()
		default:
			return c8.unknownOpcode()
		}
	case 0x1000:
		c8.op1nnn()
	case 0x2000:
		return c8.op2nnn()
	case 0x3000:
		c8.op3xkk()
	case 0x4000:
		c8.op4xkk()
	case 0x5000:
		if c8.opcode&0x000F != 0 {
			return c8.unknownOpcode()
		}
		c8.op5xy0()
	case 0x6000:
		c8.op6xkk()
	case 0x7000:
		c8.op7xkk()
	case 0x8000:
		switch c8.opcode & 0x000F {
		case 0x0000:
			c8.op8xy0()
		case 0x0001:
			c8.op8xy1()
		case 0x0002:
			c8.op8xy2()
		case 0x0003:
			c8.op8xy3()
		case 0x0004:
			c8.op8xy4()
		case 0x0005:
			c8.op8xy5()
		case 0x0006:
			c8.op8xy6()
		case 0x0007:
			c8.op8xy7()
		case 0x000E:
			c8.op8xyE()
		default:
			return c8.unknownOpcode()
		}
	case 0x9000:
		if c8.opcode&0x000F != 0 {
			return c8.unknownOpcode()
		}
		c8.op9xy0()
	case 0xA000:
		c8.opAnnn()
	case 0xB000:
		c8.opBnnn()
	case 0xC000:
		c8.opCxkk()
	case 0xD000:
		return c8.opDxyn()
	case 0xE000:
		switch c8.opcode & 0x00FF {
		case 0x009E:
			c8.opEx9E()
		case 0x00A1:
			c8.opExA1()
		default:
			return c8.unknownOpcode()
		}
	case 0xF000:
		switch c8.opcode & 0x00FF {
		case 0x0007:
			c8.opFx07()
		case 0x000A:
			c8.opFx0A()
		case 0x0015:
			c8.opFx15()
		case 0x0018:
			c8.opFx18()
		case 0x001E:
			c8.opFx1E()
		case 0x0029:
			c8.opFx29()
		case 0x0033:
			return c8.opFx33()
		case 0x0055:
			return c8.opFx55()
		case 0x0065:
			return c8.opFx65()
		default:
			return c8.unknownOpcode()
		}
	}
	return nil
}

// Address of the instruction being executed. The PC has already moved past it.
func (c8 *Chip8) instructionAddress() uint16 {
	return c8.programCounter - 2
}

func (c8 *Chip8) unknownOpcode() error {
	return &UnknownOpcodeError{PC: c8.instructionAddress(), Opcode: c8.opcode}
}

func (c8 *Chip8) boundsError(address, length uint) error {
	return &MemoryBoundsError{
		PC:      c8.instructionAddress(),
		Opcode:  c8.opcode,
		Address: address,
		Length:  length,
	}
}

// Video returns the framebuffer. The display reads it after each cycle.
func (c8 *Chip8) Video() *Screen {
	return &c8.video
}

// Keypad returns the key-state array the input collaborator writes before each cycle.
func (c8 *Chip8) Keypad() *[KEY_COUNT]bool {
	return &c8.keypad
}

// SetKey records the state of hex key (0x0-0xF). Higher bits are ignored.
func (c8 *Chip8) SetKey(key byte, pressed bool) {
	c8.keypad[key&0xF] = pressed
}

// Quirks returns the instruction variants in effect.
func (c8 *Chip8) Quirks() Quirks {
	return c8.quirks
}

// State is a copy of the CPU-visible machine state.
type State struct {
	Registers    [16]byte
	Index        uint16
	PC           uint16
	Stack        [STACK_SIZE]uint16
	StackPointer byte
	DelayTimer   byte
	SoundTimer   byte
	Opcode       uint16
}

// Snapshot copies out the current registers, stack and timers.
func (c8 *Chip8) Snapshot() State {
	return State{
		Registers:    c8.registers,
		Index:        c8.indexRegister,
		PC:           c8.programCounter,
		Stack:        c8.stack,
		StackPointer: c8.stackPointer,
		DelayTimer:   c8.delayTimer,
		SoundTimer:   c8.soundTimer,
		Opcode:       c8.opcode,
	}
}

func (s State) String() string {
	return fmt.Sprintf("PC=%03X I=%03X SP=%d DT=%d ST=%d OP=%04X V=% X",
		s.PC, s.Index, s.StackPointer, s.DelayTimer, s.SoundTimer, s.Opcode, s.Registers[:])
}

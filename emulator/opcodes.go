package emulator

/*
INSTRUCTIONS IMPLEMENTATION

The following section is the set of all instruction operations allowed in Chip8.
See this documentation for more details:
https://github.com/mattmikolay/chip-8/wiki/Mastering-CHIP%E2%80%908
https://github.com/mattmikolay/chip-8/wiki/CHIP%E2%80%908-Instruction-Set

Handlers that can fail check every bound before touching state.
*/

func (c8 *Chip8) vx() byte {
	return byte((c8.opcode & 0x0F00) >> 8)
}

func (c8 *Chip8) vy() byte {
	return byte((c8.opcode & 0x00F0) >> 4)
}

func (c8 *Chip8) kk() byte {
	return byte(c8.opcode & 0x00FF)
}

func (c8 *Chip8) nnn() uint16 {
	return c8.opcode & 0x0FFF
}

func (c8 *Chip8) skipIf(cond bool) {
	if cond {
		c8.programCounter += 2
	}
}

/*
00E0: CLS
Clear the display
*/
func (c8 *Chip8) op00E0() {
	c8.video.Clear()
}

/*
00EE: RET
Return from a subroutine
*/
func (c8 *Chip8) op00EE() error {
	if c8.stackPointer == 0 {
		return &StackUnderflowError{PC: c8.instructionAddress(), Opcode: c8.opcode}
	}

	c8.stackPointer -= 1
	c8.programCounter = c8.stack[c8.stackPointer]
	return nil
}

/*
1nnn: JP addr
Jump to location nnn.
A jump doesn't remember its origin, so no stack interaction required.
*/
func (c8 *Chip8) op1nnn() {
	c8.programCounter = c8.nnn()
}

/*
2nnn - CALL addr
Call subroutine at nnn.
The PC already points at the following instruction, which is where RET comes back to.
*/
func (c8 *Chip8) op2nnn() error {
	if c8.stackPointer >= STACK_SIZE {
		return &StackOverflowError{PC: c8.instructionAddress(), Opcode: c8.opcode}
	}

	c8.stack[c8.stackPointer] = c8.programCounter
	c8.stackPointer += 1
	c8.programCounter = c8.nnn()
	return nil
}

/*
3xkk - SE Vx, byte
Skip next instruction if Vx = kk.
Since our PC has already been incremented by 2 in Cycle(), we can just increment by 2 again to skip the next instruction.
*/
func (c8 *Chip8) op3xkk() {
	c8.skipIf(c8.registers[c8.vx()] == c8.kk())
}

/*
4xkk - SNE Vx, byte
Skip next instruction if Vx != kk.
*/
func (c8 *Chip8) op4xkk() {
	c8.skipIf(c8.registers[c8.vx()] != c8.kk())
}

/*
5xy0 - SE Vx, Vy
Skip next instruction if Vx = Vy.
*/
func (c8 *Chip8) op5xy0() {
	c8.skipIf(c8.registers[c8.vx()] == c8.registers[c8.vy()])
}

/*
6xkk - LD Vx, byte
Set Vx = kk.
*/
func (c8 *Chip8) op6xkk() {
	c8.registers[c8.vx()] = c8.kk()
}

/*
7xkk - ADD Vx, byte
Set Vx = Vx + kk. Wraps without touching VF.
*/
func (c8 *Chip8) op7xkk() {
	c8.registers[c8.vx()] += c8.kk()
}

/*
8xy0 - LD Vx, Vy
Set Vx = Vy.
*/
func (c8 *Chip8) op8xy0() {
	c8.registers[c8.vx()] = c8.registers[c8.vy()]
}

/*
8xy1 - OR Vx, Vy
Set Vx = Vx OR Vy.
*/
func (c8 *Chip8) op8xy1() {
	c8.registers[c8.vx()] |= c8.registers[c8.vy()]
}

/*
8xy2 - AND Vx, Vy
Set Vx = Vx AND Vy.
*/
func (c8 *Chip8) op8xy2() {
	c8.registers[c8.vx()] &= c8.registers[c8.vy()]
}

/*
8xy3 - XOR Vx, Vy
Set Vx = Vx XOR Vy.
*/
func (c8 *Chip8) op8xy3() {
	c8.registers[c8.vx()] ^= c8.registers[c8.vy()]
}

/*
8xy4 - ADD Vx, Vy
Set Vx = Vx + Vy, set VF = carry.
The flag is written last so that x = F ends up holding the carry.
*/
func (c8 *Chip8) op8xy4() {
	vx, vy := c8.vx(), c8.vy()

	sum := uint16(c8.registers[vx]) + uint16(c8.registers[vy])
	c8.registers[vx] = byte(sum & 0xFF)
	c8.registers[0xF] = flag(sum > 0xFF)
}

/*
8xy5 - SUB Vx, Vy
Set Vx = Vx - Vy, set VF = NOT borrow.
If Vx >= Vy, then VF is set to 1, otherwise 0.
*/
func (c8 *Chip8) op8xy5() {
	vx, vy := c8.vx(), c8.vy()

	noBorrow := c8.registers[vx] >= c8.registers[vy]
	c8.registers[vx] -= c8.registers[vy]
	c8.registers[0xF] = flag(noBorrow)
}

/*
8xy6 - SHR Vx {, Vy}
Set Vx = Vx SHR 1.
The least significant bit is saved in VF. With the ShiftUsesVy quirk Vy is copied into Vx first.
*/
func (c8 *Chip8) op8xy6() {
	vx := c8.vx()
	if c8.quirks.ShiftUsesVy {
		c8.registers[vx] = c8.registers[c8.vy()]
	}

	lsb := c8.registers[vx] & 0x1
	c8.registers[vx] >>= 1
	c8.registers[0xF] = lsb
}

/*
8xy7 - SUBN Vx, Vy
Set Vx = Vy - Vx, set VF = NOT borrow.
If Vy >= Vx, then VF is set to 1, otherwise 0.
*/
func (c8 *Chip8) op8xy7() {
	vx, vy := c8.vx(), c8.vy()

	noBorrow := c8.registers[vy] >= c8.registers[vx]
	c8.registers[vx] = c8.registers[vy] - c8.registers[vx]
	c8.registers[0xF] = flag(noBorrow)
}

/*
8xyE - SHL Vx {, Vy}
Set Vx = Vx SHL 1.
The most significant bit is saved in VF. With the ShiftUsesVy quirk Vy is copied into Vx first.
*/
func (c8 *Chip8) op8xyE() {
	vx := c8.vx()
	if c8.quirks.ShiftUsesVy {
		c8.registers[vx] = c8.registers[c8.vy()]
	}

	msb := (c8.registers[vx] & 0x80) >> 7
	c8.registers[vx] <<= 1
	c8.registers[0xF] = msb
}

/*
9xy0 - SNE Vx, Vy
Skip next instruction if Vx != Vy.
*/
func (c8 *Chip8) op9xy0() {
	c8.skipIf(c8.registers[c8.vx()] != c8.registers[c8.vy()])
}

/*
Annn - LD I, addr
Set I = nnn.
*/
func (c8 *Chip8) opAnnn() {
	c8.indexRegister = c8.nnn()
}

/*
Bnnn - JP V0, addr
Jump to location nnn + V0.
The target may land past 0xFFF, which the next fetch reports.
*/
func (c8 *Chip8) opBnnn() {
	c8.programCounter = uint16(c8.registers[0]) + c8.nnn()
}

/*
Cxkk - RND Vx, byte
Set Vx = random byte AND kk.
*/
func (c8 *Chip8) opCxkk() {
	c8.registers[c8.vx()] = byte(c8.rng.Uint32()) & c8.kk()
}

/*
Dxyn - DRW Vx, Vy, nibble
Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
The origin wraps around the screen. Pixels running off the right or bottom edge are clipped,
unless the WrapSprites quirk is set, in which case they wrap as well.
Screen pixels are 0x00000000 or 0xFFFFFFFF, so toggling is an XOR with PIXEL_ON.
*/
func (c8 *Chip8) opDxyn() error {
	height := uint(c8.opcode & 0x000F)
	start := uint(c8.indexRegister)
	if start+height > MEMORY_SIZE {
		return c8.boundsError(start, height)
	}

	originX := uint(c8.registers[c8.vx()]) % VIDEO_WIDTH
	originY := uint(c8.registers[c8.vy()]) % VIDEO_HEIGHT

	c8.registers[0xF] = 0
	for row := uint(0); row < height; row++ {
		y := originY + row
		if y >= VIDEO_HEIGHT {
			if !c8.quirks.WrapSprites {
				break
			}
			y %= VIDEO_HEIGHT
		}

		sprite := c8.memory[start+row]
		for col := uint(0); col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}

			x := originX + col
			if x >= VIDEO_WIDTH {
				if !c8.quirks.WrapSprites {
					break
				}
				x %= VIDEO_WIDTH
			}

			pixel := &c8.video[y*VIDEO_WIDTH+x]
			if *pixel == PIXEL_ON {
				c8.registers[0xF] = 1
			}
			*pixel ^= PIXEL_ON
		}
	}
	return nil
}

/*
Ex9E - SKP Vx
Skip next instruction if key with the value of Vx is pressed.
Only the low nibble of Vx selects the key.
*/
func (c8 *Chip8) opEx9E() {
	key := c8.registers[c8.vx()] & 0xF
	c8.skipIf(c8.keypad[key])
}

/*
ExA1 - SKNP Vx
Skip next instruction if key with the value of Vx is not pressed.
*/
func (c8 *Chip8) opExA1() {
	key := c8.registers[c8.vx()] & 0xF
	c8.skipIf(!c8.keypad[key])
}

/*
Fx07 - LD Vx, DT
Set Vx = delay timer value.
*/
func (c8 *Chip8) opFx07() {
	c8.registers[c8.vx()] = c8.delayTimer
}

/*
Fx0A - LD Vx, K
Wait for a key press, store the value of the key in Vx.
The easiest way to "wait" is to decrement the PC by 2 whenever a keypad value is not detected.
This has the effect of running the same instruction repeatedly. The lowest pressed key wins.
*/
func (c8 *Chip8) opFx0A() {
	for k, pressed := range c8.keypad {
		if pressed {
			c8.registers[c8.vx()] = byte(k)
			return
		}
	}

	c8.programCounter -= 2
}

/*
Fx15 - LD DT, Vx
Set delay timer = Vx.
*/
func (c8 *Chip8) opFx15() {
	c8.delayTimer = c8.registers[c8.vx()]
}

/*
Fx18 - LD ST, Vx
Set sound timer = Vx.
*/
func (c8 *Chip8) opFx18() {
	c8.soundTimer = c8.registers[c8.vx()]
}

/*
Fx1E - ADD I, Vx
Set I = I + Vx, wrapping at 16 bits.
VF is only touched under the IndexOverflowFlag quirk, where it reports I passing 0xFFF.
*/
func (c8 *Chip8) opFx1E() {
	sum := uint(c8.indexRegister) + uint(c8.registers[c8.vx()])
	c8.indexRegister = uint16(sum)
	if c8.quirks.IndexOverflowFlag {
		c8.registers[0xF] = flag(sum >= MEMORY_SIZE)
	}
}

/*
Fx29 - LD F, Vx
Set I = location of sprite for digit Vx.
The font characters are located at 0x50 and are five bytes each.
*/
func (c8 *Chip8) opFx29() {
	digit := uint16(c8.registers[c8.vx()])
	c8.indexRegister = uint16(FONTSET_START_ADDRESS) + (5 * digit)
}

/*
Fx33 - LD B, Vx
Store BCD representation of Vx in memory locations I, I+1, and I+2.
*/
func (c8 *Chip8) opFx33() error {
	start := uint(c8.indexRegister)
	if start+3 > MEMORY_SIZE {
		return c8.boundsError(start, 3)
	}

	value := c8.registers[c8.vx()]

	// Ones-place
	c8.memory[start+2] = value % 10
	value /= 10

	// Tens-place
	c8.memory[start+1] = value % 10
	value /= 10

	// Hundreds-place
	c8.memory[start] = value % 10
	return nil
}

/*
Fx55 - LD [I], Vx
Store registers V0 through Vx in memory starting at location I.
*/
func (c8 *Chip8) opFx55() error {
	vx := uint(c8.vx())
	start := uint(c8.indexRegister)
	if start+vx+1 > MEMORY_SIZE {
		return c8.boundsError(start, vx+1)
	}

	copy(c8.memory[start:start+vx+1], c8.registers[:vx+1])
	if c8.quirks.LoadStoreIncrementsIndex {
		c8.indexRegister += uint16(vx + 1)
	}
	return nil
}

/*
Fx65 - LD Vx, [I]
Read registers V0 through Vx from memory starting at location I.
*/
func (c8 *Chip8) opFx65() error {
	vx := uint(c8.vx())
	start := uint(c8.indexRegister)
	if start+vx+1 > MEMORY_SIZE {
		return c8.boundsError(start, vx+1)
	}

	copy(c8.registers[:vx+1], c8.memory[start:start+vx+1])
	if c8.quirks.LoadStoreIncrementsIndex {
		c8.indexRegister += uint16(vx + 1)
	}
	return nil
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}

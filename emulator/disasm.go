package emulator

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble renders an instruction word as a mnemonic, e.g. "LD V3, 0x2A".
// Words that decode to no instruction render as "DW 0xNNNN".
func Disassemble(opcode uint16) string {
	op, ok := lookup(opcode)
	if !ok {
		return fmt.Sprintf("DW 0x%04X", opcode)
	}

	name := strings.ToUpper(op.Instruction.Name)
	if params := operands(op.Info, opcode); params != "" {
		return name + " " + params
	}
	return name
}

func lookup(opcode uint16) (chip8.Opcode, bool) {
	for _, op := range chip8.Opcodes[(opcode&0xF000)>>12] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// operands formats the parameters of a decoded word. The opcode pattern picks the layout,
// since one mnemonic such as LD covers several of them.
func operands(info chip8.OpcodeInfo, opcode uint16) string {
	x := (opcode & 0x0F00) >> 8
	y := (opcode & 0x00F0) >> 4
	n := opcode & 0x000F
	kk := opcode & 0x00FF
	nnn := opcode & 0x0FFF

	switch info {
	case chip8.Opcode00E0, chip8.Opcode00EE:
		return ""
	case chip8.Opcode1000, chip8.Opcode2000:
		return fmt.Sprintf("0x%03X", nnn)
	case chip8.Opcode3000, chip8.Opcode4000, chip8.Opcode6000, chip8.Opcode7000, chip8.OpcodeC000:
		return fmt.Sprintf("V%X, 0x%02X", x, kk)
	case chip8.OpcodeA000:
		return fmt.Sprintf("I, 0x%03X", nnn)
	case chip8.OpcodeB000:
		return fmt.Sprintf("V0, 0x%03X", nnn)
	case chip8.OpcodeD000:
		return fmt.Sprintf("V%X, V%X, %d", x, y, n)
	case chip8.OpcodeE09E, chip8.OpcodeE0A1:
		return fmt.Sprintf("V%X", x)
	case chip8.OpcodeF007:
		return fmt.Sprintf("V%X, DT", x)
	case chip8.OpcodeF00A:
		return fmt.Sprintf("V%X, K", x)
	case chip8.OpcodeF015:
		return fmt.Sprintf("DT, V%X", x)
	case chip8.OpcodeF018:
		return fmt.Sprintf("ST, V%X", x)
	case chip8.OpcodeF01E:
		return fmt.Sprintf("I, V%X", x)
	case chip8.OpcodeF029:
		return fmt.Sprintf("F, V%X", x)
	case chip8.OpcodeF033:
		return fmt.Sprintf("B, V%X", x)
	case chip8.OpcodeF055:
		return fmt.Sprintf("[I], V%X", x)
	case chip8.OpcodeF065:
		return fmt.Sprintf("V%X, [I]", x)
	}

	// 5XY0, 9XY0 and the 8XYN register operations
	return fmt.Sprintf("V%X, V%X", x, y)
}

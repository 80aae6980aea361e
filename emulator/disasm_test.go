package emulator

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/stretchr/testify/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		opcode   uint16
		name     string
		operands string
	}{
		{0x00E0, chip8.ClsName, ""},
		{0x00EE, chip8.RetName, ""},
		{0x1ABC, chip8.JpName, "0xABC"},
		{0x2300, chip8.CallName, "0x300"},
		{0x3A42, chip8.SeName, "VA, 0x42"},
		{0x4A42, chip8.SneName, "VA, 0x42"},
		{0x5120, chip8.SeName, "V1, V2"},
		{0x6F01, chip8.LdName, "VF, 0x01"},
		{0x7005, chip8.AddName, "V0, 0x05"},
		{0x8120, chip8.LdName, "V1, V2"},
		{0x8124, chip8.AddName, "V1, V2"},
		{0x8127, chip8.SubnName, "V1, V2"},
		{0x812E, chip8.ShlName, "V1, V2"},
		{0x9120, chip8.SneName, "V1, V2"},
		{0xA123, chip8.LdName, "I, 0x123"},
		{0xB200, chip8.JpName, "V0, 0x200"},
		{0xC3FF, chip8.RndName, "V3, 0xFF"},
		{0xD125, chip8.DrwName, "V1, V2, 5"},
		{0xE39E, chip8.SkpName, "V3"},
		{0xE3A1, chip8.SknpName, "V3"},
		{0xF307, chip8.LdName, "V3, DT"},
		{0xF30A, chip8.LdName, "V3, K"},
		{0xF31E, chip8.AddName, "I, V3"},
		{0xF333, chip8.LdName, "B, V3"},
		{0xF355, chip8.LdName, "[I], V3"},
		{0xF365, chip8.LdName, "V3, [I]"},
	}

	for _, tt := range tests {
		want := strings.ToUpper(tt.name)
		if tt.operands != "" {
			want += " " + tt.operands
		}
		assert.Equal(t, want, Disassemble(tt.opcode), "%04X", tt.opcode)
	}
}

func TestDisassemble_UnknownWords(t *testing.T) {
	for _, opcode := range []uint16{0x0000, 0x0123, 0x5121, 0x8128, 0x912F, 0xE3A2, 0xF3FF} {
		assert.Equal(t, fmt.Sprintf("DW 0x%04X", opcode), Disassemble(opcode))
	}
}

// Every word the machine executes has a mnemonic, and every word it rejects has none.
func TestDisassemble_AgreesWithDecoder(t *testing.T) {
	for word := 0; word <= 0xFFFF; word++ {
		c8 := New()
		c8.opcode = uint16(word)

		var unknown *UnknownOpcodeError
		rejected := errors.As(c8.execute(), &unknown)
		_, known := lookup(uint16(word))
		if !assert.Equal(t, rejected, !known, "%04X", word) {
			return
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrichey/chip8vm/emulator"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chip8.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.NoError(cfg.Validate())
	assert.Equal(10, cfg.Scale)
	assert.Equal(2*time.Millisecond, cfg.Delay.Duration)
	assert.Equal(emulator.Quirks{}, cfg.Quirks)
	assert.Len(cfg.Keys, 16)
	assert.Equal(0x0, cfg.Keys["X"])
	assert.Equal(0xF, cfg.Keys["V"])
}

func TestDefaultKeys_CoverKeypad(t *testing.T) {
	seen := map[int]bool{}
	for _, index := range DefaultKeys() {
		seen[index] = true
	}
	assert.Len(t, seen, emulator.KEY_COUNT)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
scale = 15
delay = "500us"

[quirks]
shift_uses_vy = true
wrap_sprites = true

[palette]
foreground = "LimeGreen"
background = "navy"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(15, cfg.Scale)
	assert.Equal(500*time.Microsecond, cfg.Delay.Duration)
	assert.True(cfg.Quirks.ShiftUsesVy)
	assert.True(cfg.Quirks.WrapSprites)
	assert.False(cfg.Quirks.IndexOverflowFlag)
	assert.Equal("LimeGreen", cfg.Palette.Foreground)
	assert.Equal(DefaultKeys(), cfg.Keys)
}

func TestLoad_KeysReplaceDefaults(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
[keys]
Up = 0x2
Down = 0x8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(map[string]int{"Up": 2, "Down": 8}, cfg.Keys)
	assert.Equal(10, cfg.Scale)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":       `scale = `,
		"scale":        `scale = 0`,
		"delay":        `delay = "-1ms"`,
		"bad duration": `delay = "soon"`,
		"colour":       "[palette]\nforeground = \"ultraviolet\"",
		"key index":    "[keys]\nSpace = 16",
		"unknown":      `speed = 3`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPalette_RGBA8888(t *testing.T) {
	assert := assert.New(t)

	fg, bg, err := Palette{Foreground: "white", Background: "black"}.RGBA8888()
	assert.NoError(err)
	assert.Equal(uint32(0xFFFFFFFF), fg)
	assert.Equal(uint32(0x000000FF), bg)

	fg, _, err = Palette{Foreground: "Red", Background: "black"}.RGBA8888()
	assert.NoError(err)
	assert.Equal(uint32(0xFF0000FF), fg)
}

// Package config handles the emulator's TOML configuration: window scale,
// cycle pacing, interpreter quirks, display colours and the key map.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"

	"github.com/adrichey/chip8vm/emulator"
)

// Config is the content of a chip8.toml file.
type Config struct {
	Scale   int             `toml:"scale"`
	Delay   Duration        `toml:"delay"`
	Quirks  emulator.Quirks `toml:"quirks"`
	Palette Palette         `toml:"palette"`

	// Keys maps SDL key names to hex keypad indices.
	Keys map[string]int `toml:"keys"`
}

// Palette names the on and off pixel colours, using the SVG colour names.
type Palette struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

// Duration is a time.Duration written as a string such as "2ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

/*
Default key mapping:
Keypad       Keyboard
+-+-+-+-+    +-+-+-+-+
|1|2|3|C|    |1|2|3|4|
+-+-+-+-+    +-+-+-+-+
|4|5|6|D|    |Q|W|E|R|
+-+-+-+-+ => +-+-+-+-+
|7|8|9|E|    |A|S|D|F|
+-+-+-+-+    +-+-+-+-+
|A|0|B|F|    |Z|X|C|V|
+-+-+-+-+    +-+-+-+-+
*/
func DefaultKeys() map[string]int {
	return map[string]int{
		"X": 0x0, "1": 0x1, "2": 0x2, "3": 0x3,
		"Q": 0x4, "W": 0x5, "E": 0x6, "A": 0x7,
		"S": 0x8, "D": 0x9, "Z": 0xA, "C": 0xB,
		"4": 0xC, "R": 0xD, "F": 0xE, "V": 0xF,
	}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scale: 10,
		Delay: Duration{2 * time.Millisecond},
		Palette: Palette{
			Foreground: "white",
			Background: "black",
		},
		Keys: DefaultKeys(),
	}
}

// Load reads the file at path over the defaults. A [keys] table replaces the default map entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg.Keys = nil
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if !meta.IsDefined("keys") {
		cfg.Keys = DefaultKeys()
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown setting %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", c.Scale)
	}
	if c.Delay.Duration < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	if _, _, err := c.Palette.RGBA8888(); err != nil {
		return err
	}
	if len(c.Keys) == 0 {
		return errors.New("key map is empty")
	}
	for name, index := range c.Keys {
		if index < 0 || index >= emulator.KEY_COUNT {
			return fmt.Errorf("key %q maps to %d, want 0 through 15", name, index)
		}
	}
	return nil
}

// RGBA8888 resolves the palette into packed texture colours.
func (p Palette) RGBA8888() (foreground, background uint32, err error) {
	fg, err := lookupColor(p.Foreground)
	if err != nil {
		return 0, 0, err
	}
	bg, err := lookupColor(p.Background)
	if err != nil {
		return 0, 0, err
	}
	return pack(fg), pack(bg), nil
}

func lookupColor(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", name)
	}
	return c, nil
}

func pack(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

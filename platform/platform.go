// Package platform presents the CHIP-8 framebuffer in an SDL window and feeds keyboard state back to the machine.
package platform

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/adrichey/chip8vm/emulator"
	"github.com/adrichey/chip8vm/runner"
)

// Options selects colours and key bindings for a Platform.
type Options struct {
	// Packed RGBA8888 colours for set and clear pixels
	Foreground uint32
	Background uint32

	// SDL key names mapped to hex keypad indices
	Keys map[string]int
}

type Platform struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	keymap     map[sdl.Keycode]byte
	foreground uint32
	background uint32

	// Framebuffer converted to the palette, reused for every upload
	frame emulator.Screen
}

// New opens a window of windowWidth x windowHeight and a streaming texture of textureWidth x textureHeight.
// SDL scales the texture to the window.
func New(title string, windowWidth, windowHeight, textureWidth, textureHeight int32, opts Options) (*Platform, error) {
	keymap, err := buildKeymap(opts.Keys)
	if err != nil {
		return nil, err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	p := &Platform{
		keymap:     keymap,
		foreground: opts.Foreground,
		background: opts.Background,
	}

	p.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	p.renderer, err = sdl.CreateRenderer(p.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	p.texture, err = p.renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, textureWidth, textureHeight)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	return p, nil
}

// Close releases everything New acquired. It is safe on a partially constructed Platform.
func (p *Platform) Close() {
	if p.texture != nil {
		_ = p.texture.Destroy()
		p.texture = nil
	}
	if p.renderer != nil {
		_ = p.renderer.Destroy()
		p.renderer = nil
	}
	if p.window != nil {
		_ = p.window.Destroy()
		p.window = nil
	}
	sdl.Quit()
}

// Update uploads the framebuffer and presents it. pitch is the length of one row in bytes.
func (p *Platform) Update(video *emulator.Screen, pitch int) error {
	colorize(&p.frame, video, p.foreground, p.background)

	if err := p.texture.Update(nil, unsafe.Pointer(&p.frame[0]), pitch); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := p.renderer.Clear(); err != nil {
		return err
	}
	if err := p.renderer.Copy(p.texture, nil, nil); err != nil {
		return err
	}
	p.renderer.Present()
	return nil
}

/*
ProcessInput drains pending SDL events into keys.
Closing the window or pressing Escape quits, Backspace resets the machine.
*/
func (p *Platform) ProcessInput(keys *[emulator.KEY_COUNT]bool) runner.Event {
	ev := runner.EventNone

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			ev = runner.EventQuit
		case *sdl.KeyboardEvent:
			pressed := t.Type == sdl.KEYDOWN

			switch t.Keysym.Sym {
			case sdl.K_ESCAPE:
				if pressed {
					ev = runner.EventQuit
				}
			case sdl.K_BACKSPACE:
				if pressed && t.Repeat == 0 && ev != runner.EventQuit {
					ev = runner.EventReset
				}
			default:
				if index, ok := p.keymap[t.Keysym.Sym]; ok {
					keys[index] = pressed
				}
			}
		}
	}

	return ev
}

func buildKeymap(keys map[string]int) (map[sdl.Keycode]byte, error) {
	keymap := make(map[sdl.Keycode]byte, len(keys))
	for name, index := range keys {
		if index < 0 || index >= emulator.KEY_COUNT {
			return nil, fmt.Errorf("key %q: index %d out of range", name, index)
		}

		code := sdl.GetKeyFromName(name)
		if code == sdl.K_UNKNOWN {
			return nil, fmt.Errorf("unknown key name %q", name)
		}
		keymap[code] = byte(index)
	}
	return keymap, nil
}

func colorize(dst, video *emulator.Screen, foreground, background uint32) {
	for i, pixel := range video {
		if pixel == emulator.PIXEL_ON {
			dst[i] = foreground
		} else {
			dst[i] = background
		}
	}
}

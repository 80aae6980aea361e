package emulator

import "strings"

const (
	VIDEO_WIDTH  uint = 64
	VIDEO_HEIGHT uint = 32

	// Bytes per framebuffer row, as expected by texture uploads
	VIDEO_PITCH = int(VIDEO_WIDTH) * 4

	PIXEL_ON  uint32 = 0xFFFFFFFF
	PIXEL_OFF uint32 = 0x00000000
)

// Screen is the 64x32 framebuffer, row-major with index y*64+x.
type Screen [VIDEO_WIDTH * VIDEO_HEIGHT]uint32

// Clear turns every pixel off.
func (s *Screen) Clear() {
	for i := range s {
		s[i] = PIXEL_OFF
	}
}

// Pixel reports whether the pixel at (x, y) is set. Coordinates outside the screen are never set.
func (s *Screen) Pixel(x, y uint) bool {
	if x >= VIDEO_WIDTH || y >= VIDEO_HEIGHT {
		return false
	}
	return s[y*VIDEO_WIDTH+x] == PIXEL_ON
}

// String draws the screen as text, one line per row.
func (s *Screen) String() string {
	var b strings.Builder
	b.Grow(int((VIDEO_WIDTH + 1) * VIDEO_HEIGHT))

	for y := uint(0); y < VIDEO_HEIGHT; y++ {
		for x := uint(0); x < VIDEO_WIDTH; x++ {
			if s.Pixel(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

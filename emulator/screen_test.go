package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreen_Pixel(t *testing.T) {
	assert := assert.New(t)

	var s Screen
	s[1*VIDEO_WIDTH+2] = PIXEL_ON
	assert.True(s.Pixel(2, 1))
	assert.False(s.Pixel(1, 2))
	assert.False(s.Pixel(VIDEO_WIDTH, 0))
	assert.False(s.Pixel(0, VIDEO_HEIGHT))

	s.Clear()
	assert.False(s.Pixel(2, 1))
}

func TestScreen_String(t *testing.T) {
	assert := assert.New(t)

	var s Screen
	s[0] = PIXEL_ON
	s[len(s)-1] = PIXEL_ON

	lines := strings.Split(strings.TrimSuffix(s.String(), "\n"), "\n")
	assert.Len(lines, int(VIDEO_HEIGHT))
	assert.Equal("#"+strings.Repeat(".", int(VIDEO_WIDTH)-1), lines[0])
	assert.Equal(strings.Repeat(".", int(VIDEO_WIDTH)-1)+"#", lines[VIDEO_HEIGHT-1])
}

func TestVideoPitch(t *testing.T) {
	assert.Equal(t, 256, VIDEO_PITCH)
}

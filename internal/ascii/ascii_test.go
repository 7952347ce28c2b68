package ascii

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boriwo/termart/internal/config"
)

func uniformRGB(w, h int, value byte) []byte {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = value
	}
	return pix
}

func TestFrameUniformBlack(t *testing.T) {
	cfg, err := config.Derive("f.mp4", 4, 8, 8, 30)
	require.NoError(t, err)

	frame := Frame(uniformRGB(8, 8, 0), cfg, DefaultPalette)
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	require.Len(t, lines, cfg.Rows)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(string(DefaultPalette[0]), cfg.Cols), line)
	}
}

func TestFrameUniformWhite(t *testing.T) {
	cfg, err := config.Derive("f.mp4", 4, 8, 8, 30)
	require.NoError(t, err)

	brightest := string(DefaultPalette[len(DefaultPalette)-1])
	frame := Frame(uniformRGB(8, 8, 255), cfg, DefaultPalette)
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	require.Len(t, lines, cfg.Rows)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(brightest, cfg.Cols), line)
	}
}

func TestFrameUnevenDimensions(t *testing.T) {
	// 10x7 at width 3: neither dimension divides its stride evenly.
	cfg, err := config.Derive("f.mp4", 3, 10, 7, 30)
	require.NoError(t, err)

	frame := Frame(uniformRGB(10, 7, 128), cfg, DefaultPalette)
	assert.Equal(t, cfg.Rows, strings.Count(frame, "\n"))
	for _, line := range strings.Split(strings.TrimRight(frame, "\n"), "\n") {
		assert.Len(t, line, cfg.Cols)
	}
}

func TestFrameShortBuffer(t *testing.T) {
	cfg, err := config.Derive("f.mp4", 4, 8, 8, 30)
	require.NoError(t, err)

	// A truncated buffer must not panic; output just ends early.
	assert.NotPanics(t, func() {
		Frame(uniformRGB(8, 8, 200)[:50], cfg, DefaultPalette)
	})
}

func TestFrameDeterministic(t *testing.T) {
	cfg, err := config.Derive("f.mp4", 4, 8, 8, 30)
	require.NoError(t, err)

	pix := uniformRGB(8, 8, 77)
	assert.Equal(t, Frame(pix, cfg, DefaultPalette), Frame(pix, cfg, DefaultPalette))
}

func TestPaletteCharClamps(t *testing.T) {
	assert.Equal(t, DefaultPalette[0], DefaultPalette.Char(0))
	assert.Equal(t, DefaultPalette[0], DefaultPalette.Char(-5))
	assert.Equal(t, DefaultPalette[len(DefaultPalette)-1], DefaultPalette.Char(255))
	assert.Equal(t, DefaultPalette[len(DefaultPalette)-1], DefaultPalette.Char(300))
}

func TestLuminanceWeights(t *testing.T) {
	assert.InDelta(t, 0, Luminance(0, 0, 0), 1e-9)
	assert.InDelta(t, 255, Luminance(255, 255, 255), 1e-9)
	// Green dominates the weighted sum.
	assert.Greater(t, Luminance(0, 200, 0), Luminance(200, 0, 0))
}

func TestBuildPaletteOrdersAndDedupes(t *testing.T) {
	pal, err := buildPalette([]glyph{
		{ch: 'a', ink: 5},
		{ch: 'b', ink: 2},
		{ch: 'c', ink: 5},
		{ch: 'd', ink: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, Palette("dba"), pal)
}

func TestBuildPaletteEmpty(t *testing.T) {
	_, err := buildPalette(nil)
	assert.Error(t, err)
}

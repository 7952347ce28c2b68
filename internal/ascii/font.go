package ascii

import (
	"image"
	"image/draw"
	"os"
	"sort"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
)

// DefaultCharset is the alphabet used for font-derived palettes.
const DefaultCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!@#$%^&*()-_=+1234567890[]{};':\",.<>/?\\|~` "

const (
	glyphCell     = 18
	glyphDPI      = 150
	glyphFontSize = 14
)

type glyph struct {
	ch  byte
	ink int // dark pixels in the rendered cell
}

// FromFont builds a palette by rendering every charset character with
// the given TTF font and ranking the glyphs by ink coverage. On a dark
// terminal, more ink reads as brighter.
func FromFont(ttfPath, charset string) (Palette, error) {
	data, err := os.ReadFile(ttfPath)
	if err != nil {
		return "", errors.Wrap(err, "read font file")
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return "", errors.Wrapf(err, "parse font %s", ttfPath)
	}
	glyphs := make([]glyph, 0, len(charset))
	for i := 0; i < len(charset); i++ {
		cell, err := renderGlyph(charset[i:i+1], font)
		if err != nil {
			return "", err
		}
		glyphs = append(glyphs, glyph{ch: charset[i], ink: countInk(cell)})
	}
	return buildPalette(glyphs)
}

func renderGlyph(s string, font *truetype.Font) (*image.RGBA, error) {
	cell := image.NewRGBA(image.Rect(0, 0, glyphCell, glyphCell))
	draw.Draw(cell, cell.Bounds(), image.White, image.Point{}, draw.Src)
	c := freetype.NewContext()
	c.SetDPI(glyphDPI)
	c.SetFont(font)
	c.SetFontSize(glyphFontSize)
	c.SetClip(cell.Bounds())
	c.SetDst(cell)
	c.SetSrc(image.Black)
	if _, err := c.DrawString(s, freetype.Pt(0, glyphCell)); err != nil {
		return nil, errors.Wrapf(err, "draw glyph %q", s)
	}
	return cell, nil
}

func countInk(cell *image.RGBA) int {
	n := 0
	bounds := cell.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := cell.At(x, y).RGBA()
			if r+g+b < 3*0x8000 {
				n++
			}
		}
	}
	return n
}

// buildPalette orders glyphs from least to most ink and drops glyphs
// that share a shade with their predecessor.
func buildPalette(glyphs []glyph) (Palette, error) {
	if len(glyphs) == 0 {
		return "", errors.New("empty charset")
	}
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].ink < glyphs[j].ink })
	var sb strings.Builder
	prev := -1
	for _, g := range glyphs {
		if g.ink == prev {
			continue
		}
		prev = g.ink
		sb.WriteByte(g.ch)
	}
	return Palette(sb.String()), nil
}

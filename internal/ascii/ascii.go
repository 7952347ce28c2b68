/**
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ascii

import (
	"strings"

	"github.com/boriwo/termart/internal/config"
)

// Palette is an ordered character set, darkest first. Palettes are
// ASCII-only; indexing is by byte.
type Palette string

// DefaultPalette covers 64 shades from blank to dense.
const DefaultPalette Palette = " ,\":;Il!i~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"

// Char maps a luminance value in [0, 255] onto the palette.
func (p Palette) Char(lum float64) byte {
	idx := int(lum * float64(len(p)) / 256)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p) {
		idx = len(p) - 1
	}
	return p[idx]
}

// Luminance computes perceived brightness from one RGB pixel.
func Luminance(r, g, b byte) float64 {
	return 0.21*float64(r) + 0.72*float64(g) + 0.07*float64(b)
}

// Frame renders one flat row-major RGB24 buffer as a text frame,
// sampling rows and columns at the configured strides. Pure; safe to
// call from the producer goroutine.
func Frame(pix []byte, cfg *config.Playback, pal Palette) string {
	var sb strings.Builder
	sb.Grow(cfg.FrameSizeHint)
	rowBytes := cfg.VideoWidth * 3
	for y := 0; y < cfg.VideoHeight; y += cfg.SampleY {
		off := y * rowBytes
		if off >= len(pix) {
			break
		}
		row := pix[off:]
		if len(row) > rowBytes {
			row = row[:rowBytes]
		}
		for x := 0; x+3 <= len(row); x += cfg.SampleX * 3 {
			sb.WriteByte(pal.Char(Luminance(row[x], row[x+1], row[x+2])))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

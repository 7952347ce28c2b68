package config

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultWidth is the output width used when none is given and the
// terminal size cannot be probed.
const DefaultWidth = 72

// Playback holds everything derived from the decoder metadata and the
// requested output width. It is built once before playback starts and
// never mutated afterwards.
type Playback struct {
	FileName      string
	VideoWidth    int
	VideoHeight   int
	WidthChars    int
	SampleX       int // horizontal sampling stride, source pixels per character
	SampleY       int // vertical sampling stride, source rows per text line
	Rows          int
	Cols          int
	AspectRatio   float64
	FrameRate     float64
	FrameInterval time.Duration
	FrameSizeHint int // pre-size hint for one encoded frame, bytes
}

// Derive computes the playback parameters from the decoder metadata and
// the requested character width.
func Derive(fileName string, widthChars, videoWidth, videoHeight int, frameRate float64) (*Playback, error) {
	if widthChars <= 0 {
		return nil, errors.Errorf("width must be a positive integer, got %d", widthChars)
	}
	if videoWidth <= 0 || videoHeight <= 0 {
		return nil, errors.Errorf("invalid video dimensions %dx%d", videoWidth, videoHeight)
	}
	if frameRate <= 0 {
		return nil, errors.Errorf("invalid frame rate %g", frameRate)
	}

	aspect := float64(videoWidth) / float64(videoHeight)
	sampleX := videoWidth / widthChars
	if sampleX < 1 {
		sampleX = 1
	}
	// The vertical stride follows the aspect ratio so the character
	// grid keeps the source proportions.
	sampleY := int(float64(sampleX) / aspect)
	if sampleY < 1 {
		sampleY = 1
	}

	interval := time.Duration(float64(time.Second) / frameRate)
	if interval <= 0 {
		return nil, errors.Errorf("frame rate %g leaves no frame interval", frameRate)
	}

	rows := ceilDiv(videoHeight, sampleY)
	cols := ceilDiv(videoWidth, sampleX)

	return &Playback{
		FileName:      fileName,
		VideoWidth:    videoWidth,
		VideoHeight:   videoHeight,
		WidthChars:    widthChars,
		SampleX:       sampleX,
		SampleY:       sampleY,
		Rows:          rows,
		Cols:          cols,
		AspectRatio:   aspect,
		FrameRate:     frameRate,
		FrameInterval: interval,
		FrameSizeHint: rows * (cols + 1),
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

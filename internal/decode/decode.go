package decode

import (
	"image"
	"io"

	"github.com/pkg/errors"
	"github.com/zergon321/reisen"
)

// Error marks a fatal decode failure during playback. Setup failures
// (missing file, no video stream) are plain errors; only mid-stream
// failures carry this type, which the CLI maps to exit code 2.
type Error struct {
	Err error
}

func (e *Error) Error() string { return "decode: " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Decoder wraps a reisen media file and exposes the blocking pull the
// producer needs: the next video frame as a flat RGB24 buffer, io.EOF
// once the container is exhausted.
type Decoder struct {
	media *reisen.Media
	video *reisen.VideoStream
}

// Open opens the media file and its first video stream.
func Open(fileName string) (*Decoder, error) {
	media, err := reisen.NewMedia(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	if err := media.OpenDecode(); err != nil {
		return nil, errors.Wrap(err, "open decode")
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		return nil, errors.Errorf("no video stream in %s", fileName)
	}
	video := streams[0]
	if err := video.Open(); err != nil {
		return nil, errors.Wrap(err, "open video stream")
	}
	return &Decoder{media: media, video: video}, nil
}

func (d *Decoder) Width() int  { return d.video.Width() }
func (d *Decoder) Height() int { return d.video.Height() }

// FrameRate returns the stream frame rate in frames per second.
func (d *Decoder) FrameRate() float64 {
	num, den := d.video.FrameRate()
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Next blocks until the next video frame is decoded. Packets belonging
// to other streams are skipped. Returns io.EOF on clean exhaustion; any
// other error is fatal and typed as *Error.
func (d *Decoder) Next() ([]byte, error) {
	for {
		packet, gotPacket, err := d.media.ReadPacket()
		if err != nil {
			return nil, &Error{Err: err}
		}
		if !gotPacket {
			return nil, io.EOF
		}
		if packet.Type() != reisen.StreamVideo {
			continue
		}
		stream, ok := d.media.Streams()[packet.StreamIndex()].(*reisen.VideoStream)
		if !ok {
			continue
		}
		frame, gotFrame, err := stream.ReadVideoFrame()
		if err != nil {
			return nil, &Error{Err: err}
		}
		if !gotFrame || frame == nil {
			continue
		}
		return stripAlpha(frame.Image()), nil
	}
}

// Close releases the stream and the decode context.
func (d *Decoder) Close() {
	d.video.Close()
	d.media.CloseDecode()
}

// stripAlpha flattens an RGBA image into the 3-channel row-major layout
// the encoder samples. A fresh buffer per frame keeps ownership with the
// frame as it moves through the queue.
func stripAlpha(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

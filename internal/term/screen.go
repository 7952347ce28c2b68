package term

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	xterm "golang.org/x/term"
)

// clearSeq clears the screen and homes the cursor.
const clearSeq = "\x1b[2J\x1b[1;1H"

// Screen is the render sink: it clears the terminal, writes one text
// frame and flushes before returning. It has no backpressure of its
// own; a failed write is fatal to the session.
type Screen struct {
	w *bufio.Writer
}

func NewScreen(w io.Writer) *Screen {
	return &Screen{w: bufio.NewWriterSize(w, 64*1024)}
}

func (s *Screen) Render(frame string) error {
	if _, err := s.w.WriteString(clearSeq); err != nil {
		return errors.Wrap(err, "clear screen")
	}
	if _, err := s.w.WriteString(frame); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return errors.Wrap(s.w.Flush(), "flush frame")
}

// Width reports the character width of the terminal on stdout, or
// fallback when stdout is not a terminal.
func Width(fallback int) int {
	w, _, err := xterm.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

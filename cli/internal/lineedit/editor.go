// Package lineedit is a single-line editor for a terminal in raw mode. Input
// bytes are decoded into key events which drive a small state machine
// (Buffer) until Enter submits or Ctrl+C interrupts. Raw mode is always
// restored before Edit returns.
package lineedit

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"
)

// ErrInterrupted is returned by Edit when the user presses Ctrl+C.
var ErrInterrupted = errors.New("edit interrupted")

// Editor edits one line of text read from In and echoed to Out.
type Editor struct {
	In     io.Reader
	Out    io.Writer
	Term   Terminal
	Prompt string
}

// Edit shows seed after the prompt and returns the submitted text. The
// terminal is put in raw mode for the duration and restored on every path.
func (e *Editor) Edit(seed string) (text string, err error) {
	restore, err := e.Term.MakeRaw()
	if err != nil {
		return "", errors.Wrap(err, "enter raw mode")
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "restore terminal")
		}
	}()

	buf := NewBuffer(seed)
	dec := NewDecoder(e.In)
	if err := e.render(buf); err != nil {
		return "", err
	}
	for {
		ev, err := dec.Next()
		if err != nil {
			_, _ = io.WriteString(e.Out, "\r\n")
			return "", errors.Wrap(err, "read input")
		}
		switch buf.Apply(ev) {
		case Submitted:
			_, err := io.WriteString(e.Out, "\r\n")
			return buf.String(), err
		case Interrupted:
			_, _ = io.WriteString(e.Out, "\r\n")
			return "", ErrInterrupted
		}
		if err := e.render(buf); err != nil {
			return "", err
		}
	}
}

// render redraws the line and places the cursor, measuring in terminal
// columns so wide runes stay aligned.
func (e *Editor) render(buf *Buffer) error {
	var b strings.Builder
	b.WriteString("\r\x1b[K")
	b.WriteString(e.Prompt)
	text := []rune(buf.String())
	b.WriteString(string(text))
	if back := runewidth.StringWidth(string(text[buf.Cursor():])); back > 0 {
		fmt.Fprintf(&b, "\x1b[%dD", back)
	}
	_, err := io.WriteString(e.Out, b.String())
	return err
}

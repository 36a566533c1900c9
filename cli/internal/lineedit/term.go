package lineedit

import (
	"golang.org/x/term"
)

// Terminal switches the input terminal into raw mode. restore returns it to
// the previous mode.
type Terminal interface {
	MakeRaw() (restore func() error, err error)
}

// TTY is the Terminal for a file descriptor, usually os.Stdin.
type TTY struct {
	Fd int
}

// MakeRaw puts the descriptor in raw mode. When it is not a terminal (input
// piped in tests or scripts) nothing changes and restore is a no-op.
func (t TTY) MakeRaw() (func() error, error) {
	if !term.IsTerminal(t.Fd) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(t.Fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(t.Fd, state) }, nil
}

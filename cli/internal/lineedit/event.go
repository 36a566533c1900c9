package lineedit

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Key identifies an editing event.
type Key int

const (
	KeyNone Key = iota // unrecognised input, ignored
	KeyRune
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
	KeyKillBefore // Ctrl+U
	KeyKillAfter  // Ctrl+K
	KeyEnter
	KeyInterrupt
)

// Event is one decoded keystroke. Rune is set for KeyRune.
type Event struct {
	Key  Key
	Rune rune
}

const (
	ctrlA     = 0x01
	ctrlB     = 0x02
	ctrlC     = 0x03
	ctrlE     = 0x05
	ctrlF     = 0x06
	ctrlH     = 0x08
	ctrlK     = 0x0b
	ctrlU     = 0x15
	esc       = 0x1b
	backspace = 0x7f
)

// Decoder turns raw-mode terminal bytes into Events.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder reads keystrokes from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next blocks for the next event. Errors come from the reader (io.EOF when
// input closes).
func (d *Decoder) Next() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	switch b {
	case '\r', '\n':
		return Event{Key: KeyEnter}, nil
	case ctrlC:
		return Event{Key: KeyInterrupt}, nil
	case backspace, ctrlH:
		return Event{Key: KeyBackspace}, nil
	case ctrlA:
		return Event{Key: KeyHome}, nil
	case ctrlE:
		return Event{Key: KeyEnd}, nil
	case ctrlB:
		return Event{Key: KeyLeft}, nil
	case ctrlF:
		return Event{Key: KeyRight}, nil
	case ctrlK:
		return Event{Key: KeyKillAfter}, nil
	case ctrlU:
		return Event{Key: KeyKillBefore}, nil
	case esc:
		return d.escape()
	}
	if b < 0x20 {
		return Event{}, nil
	}
	if b < utf8.RuneSelf {
		return Event{Key: KeyRune, Rune: rune(b)}, nil
	}
	if err := d.r.UnreadByte(); err != nil {
		return Event{}, err
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return Event{}, err
	}
	if r == utf8.RuneError {
		return Event{}, nil
	}
	return Event{Key: KeyRune, Rune: r}, nil
}

// escape decodes CSI ("ESC [") and SS3 ("ESC O") cursor sequences. Terminals
// write a sequence in one go, so an ESC with nothing buffered behind it is a
// lone Esc keypress and is ignored without waiting for the next key.
func (d *Decoder) escape() (Event, error) {
	if d.r.Buffered() == 0 {
		return Event{}, nil
	}
	b, err := d.r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	switch b {
	case 'O':
		c, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		return Event{Key: finalKey(c)}, nil
	case '[':
	default:
		// Alt+key; drop the escape and keep the key.
		return Event{}, d.r.UnreadByte()
	}
	// Parameters run until a final byte in 0x40-0x7e.
	var params []byte
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		if c >= 0x40 && c <= 0x7e {
			if c == '~' {
				return Event{Key: tildeKey(string(params))}, nil
			}
			return Event{Key: finalKey(c)}, nil
		}
		params = append(params, c)
	}
}

func finalKey(c byte) Key {
	switch c {
	case 'D':
		return KeyLeft
	case 'C':
		return KeyRight
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

func tildeKey(params string) Key {
	switch params {
	case "1", "7":
		return KeyHome
	case "4", "8":
		return KeyEnd
	case "3":
		return KeyDelete
	}
	return KeyNone
}

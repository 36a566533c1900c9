package lineedit

// State is where an editing session stands after an event.
type State int

const (
	Editing State = iota
	Submitted
	Interrupted
)

// Buffer is the text being edited and a cursor measured in runes. The cursor
// is always within [0, len(text)].
type Buffer struct {
	text   []rune
	cursor int
}

// NewBuffer starts with seed and the cursor at its end.
func NewBuffer(seed string) *Buffer {
	text := []rune(seed)
	return &Buffer{text: text, cursor: len(text)}
}

// String returns the current text.
func (b *Buffer) String() string { return string(b.text) }

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Apply performs ev and reports the resulting state.
func (b *Buffer) Apply(ev Event) State {
	switch ev.Key {
	case KeyRune:
		b.insert(ev.Rune)
	case KeyBackspace:
		if b.cursor > 0 {
			b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
			b.cursor--
		}
	case KeyDelete:
		if b.cursor < len(b.text) {
			b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
		}
	case KeyLeft:
		if b.cursor > 0 {
			b.cursor--
		}
	case KeyRight:
		if b.cursor < len(b.text) {
			b.cursor++
		}
	case KeyHome:
		b.cursor = 0
	case KeyEnd:
		b.cursor = len(b.text)
	case KeyKillBefore:
		b.text = append([]rune(nil), b.text[b.cursor:]...)
		b.cursor = 0
	case KeyKillAfter:
		b.text = b.text[:b.cursor]
	case KeyEnter:
		return Submitted
	case KeyInterrupt:
		return Interrupted
	}
	return Editing
}

func (b *Buffer) insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

package lineedit

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, input string) []Event {
	t.Helper()
	d := NewDecoder(strings.NewReader(input))
	var out []Event
	for {
		ev, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestDecoder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"ascii", "ab", []Event{{KeyRune, 'a'}, {KeyRune, 'b'}}},
		{"utf8", "é✨", []Event{{KeyRune, 'é'}, {KeyRune, '✨'}}},
		{"enter_cr", "\r", []Event{{Key: KeyEnter}}},
		{"enter_lf", "\n", []Event{{Key: KeyEnter}}},
		{"ctrl_c", "\x03", []Event{{Key: KeyInterrupt}}},
		{"backspace_del", "\x7f", []Event{{Key: KeyBackspace}}},
		{"backspace_ctrl_h", "\x08", []Event{{Key: KeyBackspace}}},
		{"arrows", "\x1b[D\x1b[C", []Event{{Key: KeyLeft}, {Key: KeyRight}}},
		{"csi_home_end", "\x1b[H\x1b[F", []Event{{Key: KeyHome}, {Key: KeyEnd}}},
		{"tilde_home_end", "\x1b[1~\x1b[4~\x1b[7~\x1b[8~", []Event{{Key: KeyHome}, {Key: KeyEnd}, {Key: KeyHome}, {Key: KeyEnd}}},
		{"ss3_home_end", "\x1bOH\x1bOF", []Event{{Key: KeyHome}, {Key: KeyEnd}}},
		{"delete", "\x1b[3~", []Event{{Key: KeyDelete}}},
		{"emacs_keys", "\x01\x05\x02\x06", []Event{{Key: KeyHome}, {Key: KeyEnd}, {Key: KeyLeft}, {Key: KeyRight}}},
		{"kill", "\x15\x0b", []Event{{Key: KeyKillBefore}, {Key: KeyKillAfter}}},
		{"unknown_csi", "\x1b[1;5Ax", []Event{{Key: KeyNone}, {KeyRune, 'x'}}},
		{"alt_key", "\x1bx", []Event{{Key: KeyNone}, {KeyRune, 'x'}}},
		{"trailing_esc", "a\x1b", []Event{{KeyRune, 'a'}, {Key: KeyNone}}},
		{"other_control", "\x07", []Event{{Key: KeyNone}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decodeAll(t, tt.input))
		})
	}
}

func TestDecoder_loneEscDoesNotWait(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	defer pr.Close()
	d := NewDecoder(pr)

	go func() { _, _ = pw.Write([]byte{esc}) }()
	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, Event{}, ev)

	go func() { _, _ = pw.Write([]byte("a")) }()
	ev, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, Event{Key: KeyRune, Rune: 'a'}, ev, "the key after Esc is not swallowed")
}

func apply(b *Buffer, keys ...Key) State {
	st := Editing
	for _, k := range keys {
		st = b.Apply(Event{Key: k})
	}
	return st
}

func typeText(b *Buffer, s string) {
	for _, r := range s {
		b.Apply(Event{Key: KeyRune, Rune: r})
	}
}

func TestBuffer(t *testing.T) {
	t.Parallel()
	b := NewBuffer("fix: bug")
	assert.Equal(t, 8, b.Cursor())

	apply(b, KeyBackspace, KeyBackspace, KeyBackspace)
	typeText(b, "crash")
	assert.Equal(t, "fix: crash", b.String())

	apply(b, KeyHome)
	assert.Equal(t, 0, b.Cursor())
	apply(b, KeyBackspace, KeyLeft)
	assert.Equal(t, "fix: crash", b.String(), "nothing before the cursor")
	apply(b, KeyRight, KeyRight, KeyRight)
	typeText(b, "(ui)")
	assert.Equal(t, "fix(ui): crash", b.String())
	assert.Equal(t, 7, b.Cursor())

	apply(b, KeyEnd, KeyRight, KeyDelete)
	assert.Equal(t, 14, b.Cursor(), "cursor stays in bounds")
	assert.Equal(t, "fix(ui): crash", b.String())

	apply(b, KeyHome, KeyDelete)
	assert.Equal(t, "ix(ui): crash", b.String())
}

func TestBuffer_unicode(t *testing.T) {
	t.Parallel()
	b := NewBuffer("✨ feat: é")
	assert.Equal(t, 9, b.Cursor())
	apply(b, KeyBackspace)
	typeText(b, "日本")
	assert.Equal(t, "✨ feat: 日本", b.String())
}

func TestBuffer_kill(t *testing.T) {
	t.Parallel()
	b := NewBuffer("docs: readme")
	apply(b, KeyHome, KeyRight, KeyRight, KeyRight, KeyRight, KeyKillAfter)
	assert.Equal(t, "docs", b.String())
	apply(b, KeyLeft, KeyKillBefore)
	assert.Equal(t, "s", b.String())
	assert.Equal(t, 0, b.Cursor())
}

func TestBuffer_states(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Editing, apply(NewBuffer(""), KeyLeft, KeyNone))
	assert.Equal(t, Submitted, apply(NewBuffer("x"), KeyEnter))
	assert.Equal(t, Interrupted, apply(NewBuffer("x"), KeyInterrupt))
}

type fakeTerm struct {
	raw      bool
	entered  int
	restored int
	makeErr  error
}

func (f *fakeTerm) MakeRaw() (func() error, error) {
	if f.makeErr != nil {
		return nil, f.makeErr
	}
	f.raw = true
	f.entered++
	return func() error {
		f.raw = false
		f.restored++
		return nil
	}, nil
}

func TestEditor_Edit(t *testing.T) {
	t.Parallel()
	term := &fakeTerm{}
	var out bytes.Buffer
	e := &Editor{
		In:     strings.NewReader("\x7f\x7f\x7fnew\x1b[H\x1b[C\x1b[C\x1b[C\x1b[C(x)\r"),
		Out:    &out,
		Term:   term,
		Prompt: "> ",
	}
	got, err := e.Edit("feat: old")
	require.NoError(t, err)
	assert.Equal(t, "feat(x): new", got)
	assert.False(t, term.raw, "raw mode restored")
	assert.Equal(t, 1, term.restored)
	assert.True(t, strings.HasPrefix(out.String(), "\r\x1b[K> feat: old"))
	assert.True(t, strings.HasSuffix(out.String(), "\r\n"))
}

func TestEditor_Edit_cursorPlacement(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	e := &Editor{In: strings.NewReader("\x1b[D\x1b[D\r"), Out: &out, Term: &fakeTerm{}}
	_, err := e.Edit("ab日")
	require.NoError(t, err)
	// The wide rune occupies two columns.
	assert.Contains(t, out.String(), "\r\x1b[Kab日\x1b[2D")
	assert.Contains(t, out.String(), "\r\x1b[Kab日\x1b[3D")
}

func TestEditor_Edit_interrupt(t *testing.T) {
	t.Parallel()
	term := &fakeTerm{}
	e := &Editor{In: strings.NewReader("abc\x03more"), Out: io.Discard, Term: term}
	got, err := e.Edit("seed")
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, got)
	assert.False(t, term.raw)
	assert.Equal(t, 1, term.restored)
}

func TestEditor_Edit_inputClosed(t *testing.T) {
	t.Parallel()
	term := &fakeTerm{}
	e := &Editor{In: strings.NewReader("abc"), Out: io.Discard, Term: term}
	_, err := e.Edit("")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, term.raw)
}

func TestEditor_Edit_rawModeFails(t *testing.T) {
	t.Parallel()
	e := &Editor{In: strings.NewReader("\r"), Out: io.Discard, Term: &fakeTerm{makeErr: errors.New("not a tty")}}
	_, err := e.Edit("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enter raw mode")
}

func TestTTY_notATerminal(t *testing.T) {
	t.Parallel()
	// A pipe is not a terminal, so MakeRaw is a no-op.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	restore, err := TTY{Fd: int(r.Fd())}.MakeRaw()
	require.NoError(t, err)
	assert.NoError(t, restore())
}

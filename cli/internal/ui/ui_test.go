package ui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commayte/cli/internal/lineedit"
	"commayte/cli/internal/session"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runeMsg(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestMenu_navigateAndSelect(t *testing.T) {
	t.Parallel()
	var m tea.Model = newMenu("Pick", []string{"a", "b", "c"})
	m, _ = m.Update(keyMsg(tea.KeyDown))
	m, _ = m.Update(runeMsg("j"))
	m, _ = m.Update(keyMsg(tea.KeyDown))
	assert.Equal(t, 0, m.(menuModel).cursor, "wraps past the last option")
	m, _ = m.Update(keyMsg(tea.KeyUp))
	assert.Equal(t, 2, m.(menuModel).cursor, "wraps before the first option")

	m, cmd := m.Update(keyMsg(tea.KeyEnter))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, 2, m.(menuModel).chosen)
	assert.Equal(t, "? Pick · c\n", m.View())
}

func TestMenu_quit(t *testing.T) {
	t.Parallel()
	for _, k := range []tea.KeyMsg{keyMsg(tea.KeyEsc), keyMsg(tea.KeyCtrlC), runeMsg("q")} {
		m, cmd := newMenu("Pick", []string{"a"}).Update(k)
		assert.True(t, isQuit(cmd), k.String())
		assert.True(t, m.(menuModel).aborted, k.String())
		assert.Equal(t, -1, m.(menuModel).chosen)
	}
}

func TestMenu_viewMarksCursor(t *testing.T) {
	t.Parallel()
	m, _ := newMenu("Pick", []string{"first", "second"}).Update(keyMsg(tea.KeyDown))
	lines := strings.Split(m.View(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "? Pick", lines[0])
	assert.Equal(t, "  first", lines[1])
	assert.Equal(t, "❯ second", lines[2])
}

func TestMenu_ignoresOtherMessages(t *testing.T) {
	t.Parallel()
	m, cmd := newMenu("Pick", []string{"a", "b"}).Update(tea.WindowSizeMsg{Width: 80})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.(menuModel).cursor)
}

func TestSelect_runsProgram(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	i, err := Select(strings.NewReader("j\r"), &out, "Pick", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestSelect_noOptions(t *testing.T) {
	t.Parallel()
	_, err := Select(strings.NewReader(""), io.Discard, "Pick", nil)
	assert.Error(t, err)
}

func TestSpin_update(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	cancels := 0
	var m tea.Model = newSpin("Working...", func() error { return nil }, func() { cancels++ })
	assert.Contains(t, m.View(), "Working...")

	m, _ = m.Update(keyMsg(tea.KeyCtrlC))
	m, _ = m.Update(keyMsg(tea.KeyCtrlC))
	assert.Equal(t, 1, cancels)
	assert.Contains(t, m.View(), "Cancelling...")

	m, cmd := m.Update(doneMsg{err: boom})
	assert.True(t, isQuit(cmd))
	assert.ErrorIs(t, m.(spinModel).err, boom)
	assert.Empty(t, m.View())
}

func TestSpin_runsProgram(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	ran := false
	err := Spin(nil, io.Discard, "Working...", func() error { ran = true; return boom }, nil)
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
}

type fakeTerm struct{ raw int }

func (f *fakeTerm) MakeRaw() (func() error, error) {
	f.raw++
	return func() error { return nil }, nil
}

func scripted(answers ...int) (Selector, *[]string) {
	var prompts []string
	return func(_ io.Reader, _ io.Writer, prompt string, _ []string) (int, error) {
		prompts = append(prompts, prompt)
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}, &prompts
}

func TestConsole_present(t *testing.T) {
	t.Parallel()
	tests := []struct {
		answer int
		want   session.Choice
	}{
		{0, session.ChoiceAccept},
		{1, session.ChoiceEdit},
		{2, session.ChoiceRegenerate},
		{3, session.ChoiceCancel},
		{-1, session.ChoiceCancel},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		sel, prompts := scripted(tt.answer)
		c := &Console{Out: &out, Select: sel}
		got, err := c.Present("feat: add x")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %d", tt.answer)
		assert.Equal(t, []string{"What would you like to do?"}, *prompts)
		assert.Contains(t, out.String(), "📝 Generated commit message: feat: add x")
	}
}

func TestConsole_confirmEdit(t *testing.T) {
	t.Parallel()
	for answer, want := range map[int]session.Confirmation{
		0: session.ConfirmUse, 1: session.ConfirmEditAgain, 2: session.ConfirmCancel, -1: session.ConfirmCancel,
	} {
		var out bytes.Buffer
		sel, prompts := scripted(answer)
		c := &Console{Out: &out, Select: sel}
		got, err := c.ConfirmEdit("fix: y")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, []string{"Confirm the edited message"}, *prompts)
		assert.Contains(t, out.String(), "Edited commit message: fix: y")
	}
}

func TestConsole_selectError(t *testing.T) {
	t.Parallel()
	boom := errors.New("tty gone")
	c := &Console{Out: io.Discard, Select: func(io.Reader, io.Writer, string, []string) (int, error) { return 0, boom }}
	_, err := c.Present("feat: x")
	assert.ErrorIs(t, err, boom)
}

func TestConsole_edit(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	term := &fakeTerm{}
	c := &Console{In: strings.NewReader("!\r"), Out: &out, Term: term}
	got, err := c.Edit("feat: x")
	require.NoError(t, err)
	assert.Equal(t, "feat: x!", got)
	assert.Equal(t, 1, term.raw)
	assert.Contains(t, out.String(), EditPrompt+"feat: x")
}

func TestConsole_editInterrupted(t *testing.T) {
	t.Parallel()
	c := &Console{In: strings.NewReader("\x03"), Out: io.Discard, Term: &fakeTerm{}}
	_, err := c.Edit("feat: x")
	assert.ErrorIs(t, err, lineedit.ErrInterrupted)
}

func TestConsole_busy(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	c := &Console{Out: &out, Plain: true}
	require.NoError(t, c.Busy("Generating commit message...", func() error { return nil }))
	assert.Equal(t, "Generating commit message...\n", out.String())

	var labels []string
	c = &Console{Out: io.Discard, Spin: func(_ io.Reader, _ io.Writer, label string, fn func() error, _ func()) error {
		labels = append(labels, label)
		return fn()
	}}
	boom := errors.New("boom")
	assert.ErrorIs(t, c.Busy("Committing changes...", func() error { return boom }), boom)
	assert.Equal(t, []string{"Committing changes..."}, labels)
}

func TestConsole_notify(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	c := &Console{Out: &out}
	c.Notify(session.LevelInfo, "kept")
	c.Notify(session.LevelWarn, "careful")
	c.Notify(session.LevelError, "broken")
	assert.Equal(t, "kept\n⚠️  careful\n❌ broken\n", out.String())
}

func TestOutcome(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		res  session.Result
		want string
	}{
		{
			name: "committed",
			res:  session.Result{Outcome: session.OutcomeCommitted, Message: "feat: x"},
			want: "✅ Commit successful!\n📄 Message: feat: x\n",
		},
		{
			name: "warning",
			res:  session.Result{Outcome: session.OutcomeCommitWarning, Message: "feat: x", ExitCode: 1},
			want: "⚠️ Commit completed with warnings.\n📄 Message: feat: x\n🔍 Exit code: 1\n",
		},
		{
			name: "failed",
			res:  session.Result{Outcome: session.OutcomeCommitFailed, Message: "feat: x", Err: errors.New("git not found")},
			want: "❌ Git commit failed.\n📄 Message: feat: x\ngit not found\n",
		},
		{
			name: "cancelled",
			res:  session.Result{Outcome: session.OutcomeCancelled},
			want: "❌ Cancelled by user\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			Outcome(&out, tt.res)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestHeaderAndNoChanges(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	Header(&out, "1.2.0", "mistral")
	NoChanges(&out)
	assert.Equal(t, "> Commayte (v1.2.0) (using mistral)\n\n⚠️  No changes to commit.\n", out.String())
}

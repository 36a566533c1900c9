package ui

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

type doneMsg struct{ err error }

// spinModel animates label until fn finishes. Ctrl+C calls cancel (if any)
// and keeps waiting, so fn always completes before the program exits.
type spinModel struct {
	spinner    spinner.Model
	label      string
	fn         func() error
	cancel     func()
	cancelling bool
	done       bool
	err        error
}

func newSpin(label string, fn func() error, cancel func()) spinModel {
	return spinModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinStyle)),
		label:   label,
		fn:      fn,
		cancel:  cancel,
	}
}

func (m spinModel) Init() tea.Cmd {
	fn := m.fn
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return doneMsg{err: fn()} })
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && !m.cancelling {
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}
	label := m.label
	if m.cancelling {
		label = "Cancelling..."
	}
	return m.spinner.View() + " " + label
}

// Spin runs fn while showing a spinner with label and returns fn's error.
func Spin(in io.Reader, out io.Writer, label string, fn func() error, cancel func()) error {
	final, err := tea.NewProgram(newSpin(label, fn, cancel), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return errors.Wrap(err, "run spinner")
	}
	return final.(spinModel).err
}

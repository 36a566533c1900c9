package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var defaultMenuKeys = menuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

// menuModel is a vertical single-choice list. chosen stays -1 until the user
// selects; aborted is set when they quit instead.
type menuModel struct {
	prompt  string
	options []string
	cursor  int
	chosen  int
	aborted bool
	keys    menuKeys
}

func newMenu(prompt string, options []string) menuModel {
	return menuModel{prompt: prompt, options: options, chosen: -1, keys: defaultMenuKeys}
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)
	case key.Matches(k, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.options)
	case key.Matches(k, m.keys.Select):
		m.chosen = m.cursor
		return m, tea.Quit
	case key.Matches(k, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("? " + m.prompt))
	switch {
	case m.chosen >= 0:
		b.WriteString(hintStyle.Render(" · "))
		b.WriteString(selectStyle.Render(m.options[m.chosen]))
		b.WriteString("\n")
		return b.String()
	case m.aborted:
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ "))
			b.WriteString(selectStyle.Render(opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render(m.keys.Up.Help().Key + " " + m.keys.Down.Help().Key + " move · enter select · esc cancel"))
	return b.String()
}

// Select shows options under prompt and returns the chosen index, or -1 when
// the user quits the menu.
func Select(in io.Reader, out io.Writer, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("menu has no options")
	}
	final, err := tea.NewProgram(newMenu(prompt, options), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return -1, errors.Wrap(err, "run menu")
	}
	m := final.(menuModel)
	if m.aborted {
		return -1, nil
	}
	return m.chosen, nil
}

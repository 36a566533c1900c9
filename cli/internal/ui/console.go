package ui

import (
	"fmt"
	"io"

	"commayte/cli/internal/lineedit"
	"commayte/cli/internal/session"
)

// EditPrompt is shown in front of the message being edited.
const EditPrompt = "Edit commit message: "

var (
	presentOptions = []string{"✅ Accept and commit", "✏️ Edit message", "🔄 Regenerate message", "❌ Cancel"}
	presentChoices = []session.Choice{session.ChoiceAccept, session.ChoiceEdit, session.ChoiceRegenerate, session.ChoiceCancel}

	confirmOptions = []string{"✅ Use this message", "✏️ Edit again", "❌ Cancel"}
	confirmChoices = []session.Confirmation{session.ConfirmUse, session.ConfirmEditAgain, session.ConfirmCancel}
)

// Selector runs a menu and returns the chosen index, -1 for quit.
type Selector func(in io.Reader, out io.Writer, prompt string, options []string) (int, error)

// Spinner runs fn behind a progress indicator.
type Spinner func(in io.Reader, out io.Writer, label string, fn func() error, cancel func()) error

// Console implements session.UI on a terminal.
type Console struct {
	In  io.Reader
	Out io.Writer
	// Term switches In to raw mode for the line editor.
	Term lineedit.Terminal
	// Plain disables the spinner, for output that is not a terminal.
	Plain bool
	// Cancel aborts in-flight work when Ctrl+C is pressed under the spinner.
	Cancel func()

	// Select and Spin default to the bubbletea implementations.
	Select Selector
	Spin   Spinner
}

var _ session.UI = (*Console)(nil)

func (c *Console) selector() Selector {
	if c.Select != nil {
		return c.Select
	}
	return Select
}

// Busy implements session.UI.
func (c *Console) Busy(label string, fn func() error) error {
	if c.Plain {
		fmt.Fprintln(c.Out, label)
		return fn()
	}
	spin := c.Spin
	if spin == nil {
		spin = Spin
	}
	return spin(c.In, c.Out, label, fn, c.Cancel)
}

// Present implements session.UI. Quitting the menu counts as cancel.
func (c *Console) Present(msg string) (session.Choice, error) {
	fmt.Fprintf(c.Out, "\n📝 %s %s\n\n", labelStyle.Render("Generated commit message:"), messageStyle.Render(msg))
	i, err := c.selector()(c.In, c.Out, "What would you like to do?", presentOptions)
	if err != nil {
		return session.ChoiceCancel, err
	}
	if i < 0 || i >= len(presentChoices) {
		return session.ChoiceCancel, nil
	}
	return presentChoices[i], nil
}

// Edit implements session.UI with the in-place line editor.
func (c *Console) Edit(seed string) (string, error) {
	ed := &lineedit.Editor{In: c.In, Out: c.Out, Term: c.Term, Prompt: EditPrompt}
	return ed.Edit(seed)
}

// ConfirmEdit implements session.UI. Quitting the menu counts as cancel.
func (c *Console) ConfirmEdit(msg string) (session.Confirmation, error) {
	fmt.Fprintf(c.Out, "📝 %s %s\n\n", labelStyle.Render("Edited commit message:"), messageStyle.Render(msg))
	i, err := c.selector()(c.In, c.Out, "Confirm the edited message", confirmOptions)
	if err != nil {
		return session.ConfirmCancel, err
	}
	if i < 0 || i >= len(confirmChoices) {
		return session.ConfirmCancel, nil
	}
	return confirmChoices[i], nil
}

// Notify implements session.UI.
func (c *Console) Notify(level session.Level, msg string) {
	switch level {
	case session.LevelWarn:
		fmt.Fprintln(c.Out, warnStyle.Render("⚠️  "+msg))
	case session.LevelError:
		fmt.Fprintln(c.Out, errorStyle.Render("❌ "+msg))
	default:
		fmt.Fprintln(c.Out, hintStyle.Render(msg))
	}
}

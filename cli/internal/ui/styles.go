// Package ui is the terminal front end of a session: selection menus and a
// spinner built on bubbletea, lipgloss styles, the in-place line editor, and
// the status lines printed when a session ends.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorCyan   = lipgloss.Color("6")
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorRed    = lipgloss.Color("1")
	colorWhite  = lipgloss.Color("15")
	colorGray   = lipgloss.Color("8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	modelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	promptStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	selectStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	hintStyle    = lipgloss.NewStyle().Foreground(colorGray)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	spinStyle    = lipgloss.NewStyle().Foreground(colorCyan)
)

// Setup picks the colour profile. Colour is off when noColor is set or the
// environment asks for it (NO_COLOR, CLICOLOR=0).
func Setup(noColor bool) {
	if noColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

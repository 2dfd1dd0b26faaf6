package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title     lipgloss.Style
	Heading   lipgloss.Style
	Name      lipgloss.Style
	Label     lipgloss.Style
	Blocker   lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
	Confirm   lipgloss.Style
	Card      lipgloss.Style
	CardFocus lipgloss.Style
	Pane      lipgloss.Style
	PaneFocus lipgloss.Style
	Banner    lipgloss.Style
}

// NewStyles builds styles for t.
func NewStyles(t Theme) Styles {
	pane := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.Muted).Padding(0, 1)
	card := lipgloss.NewStyle().Border(t.Border, false, false, false, true).BorderForeground(t.Muted).PaddingLeft(1)
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Name:      lipgloss.NewStyle().Bold(true),
		Label:     lipgloss.NewStyle().Foreground(t.Muted),
		Blocker:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Muted:     lipgloss.NewStyle().Faint(true),
		Success:   lipgloss.NewStyle().Foreground(t.Success),
		Error:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Confirm:   lipgloss.NewStyle().Foreground(t.Error),
		Card:      card,
		CardFocus: card.BorderForeground(t.Accent),
		Pane:      pane,
		PaneFocus: pane.BorderForeground(t.Accent),
		Banner:    lipgloss.NewStyle().Foreground(t.Error).Border(t.Border).BorderForeground(t.Error).Padding(0, 1),
	}
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, NewStyles(t).Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, NewStyles(t).Error.Render(t.SymFail+" "+msg))
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Warning lipgloss.TerminalColor
	Border                                        lipgloss.Border
	SymOK, SymFail, SymBullet, SymCursor          string
}

// Themes lists the names SetTheme understands.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: lipgloss.NoColor{}, Muted: lipgloss.Color("8"), Accent: lipgloss.Color("12"),
		Success: lipgloss.Color("42"), Error: lipgloss.Color("9"), Warning: lipgloss.Color("214"),
		Border: lipgloss.NormalBorder(),
		SymOK:  "✔", SymFail: "✖", SymBullet: "•", SymCursor: ">",
	}
}

// SetTheme switches the process-wide theme; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: lipgloss.Color("13"), Muted: lipgloss.Color("8"), Accent: lipgloss.Color("14"),
			Success: lipgloss.Color("10"), Error: lipgloss.Color("9"), Warning: lipgloss.Color("11"),
			Border: lipgloss.RoundedBorder(),
			SymOK:  "✔", SymFail: "✖", SymBullet: "◆", SymCursor: "▶",
		}
	case "mono":
		current = Theme{
			Name:  "mono",
			Title: lipgloss.NoColor{}, Muted: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
			Success: lipgloss.NoColor{}, Error: lipgloss.NoColor{}, Warning: lipgloss.NoColor{},
			Border: lipgloss.ASCIIBorder(),
			SymOK:  "ok", SymFail: "x", SymBullet: "-", SymCursor: ">",
		}
	default:
		current = classic()
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// KnownTheme reports whether name is one of Themes.
func KnownTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/standup/internal/ui"
)

// faultMsg reports a panic recovered inside a command.
type faultMsg struct{ err error }

// Boundary wraps a model and turns panics raised while updating or
// rendering it into a fallback screen with a retry key.
type Boundary struct {
	inner tea.Model
	fault error
	log   *zap.Logger

	// Fallback, when set, replaces the default fault screen.
	Fallback func(err error) string
}

// NewBoundary wraps inner.
func NewBoundary(inner tea.Model, log *zap.Logger) *Boundary {
	if log == nil {
		log = zap.NewNop()
	}
	return &Boundary{inner: inner, log: log}
}

// Faulted reports whether the fallback screen is showing.
func (b *Boundary) Faulted() bool { return b.fault != nil }

// Inner returns the wrapped model.
func (b *Boundary) Inner() tea.Model { return b.inner }

func (b *Boundary) Init() tea.Cmd {
	return b.guard(func() tea.Cmd { return b.inner.Init() })
}

func (b *Boundary) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if fm, ok := msg.(faultMsg); ok {
		b.trip(fm.err)
		return b, nil
	}
	// While faulted, keys only drive the fallback screen. Everything else
	// (resizes, results of in-flight commands) still reaches the inner model
	// so it is current when the user retries.
	if km, ok := msg.(tea.KeyMsg); ok && b.Faulted() {
		switch km.String() {
		case "r", "enter":
			b.fault = nil
		case "q", "ctrl+c":
			return b, tea.Quit
		}
		return b, nil
	}

	cmd := b.guard(func() tea.Cmd {
		next, cmd := b.inner.Update(msg)
		b.inner = next
		return cmd
	})
	return b, cmd
}

func (b *Boundary) View() (out string) {
	if b.Faulted() {
		return b.fallback()
	}
	defer func() {
		if r := recover(); r != nil {
			b.trip(panicError(r))
			out = b.fallback()
		}
	}()
	return b.inner.View()
}

// guard runs fn, tripping the boundary if it panics. The returned command
// is itself wrapped so a panic while it runs comes back as a faultMsg.
func (b *Boundary) guard(fn func() tea.Cmd) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			b.trip(panicError(r))
			cmd = nil
		}
	}()
	return safeCmd(fn())
}

func safeCmd(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = faultMsg{err: panicError(r)}
			}
		}()
		msg = cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			wrapped := make(tea.BatchMsg, len(batch))
			for i, c := range batch {
				wrapped[i] = safeCmd(c)
			}
			return wrapped
		}
		return msg
	}
}

func (b *Boundary) trip(err error) {
	b.fault = err
	b.log.Error("render fault", zap.Error(err))
}

func (b *Boundary) fallback() string {
	if b.Fallback != nil {
		return b.Fallback(b.fault)
	}
	st := ui.NewStyles(ui.Current())
	msg := strings.TrimSpace(b.fault.Error())
	if msg == "" {
		msg = "An unexpected error occurred"
	}
	return ui.PanelString(lipgloss.JoinVertical(lipgloss.Left,
		st.Error.Render("!")+" "+st.Title.Render("Something went wrong"),
		"",
		msg,
		"",
		st.Selected.Render("[ Try Again ]")+" "+st.Muted.Render("r: retry  q: quit"),
	))
}

func panicError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// loadedMsg stands in for a storage result arriving from a command.
type loadedMsg struct{ n int }

// flaky panics on "p" (update) and renders a panic while broken is set.
type flaky struct {
	broken bool
	count  int
	loaded int
}

func (f flaky) Init() tea.Cmd { return nil }

func (f flaky) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if lm, ok := msg.(loadedMsg); ok {
		f.loaded = lm.n
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "p":
			panic("kaboom")
		case "v":
			f.broken = true
		case "c":
			return f, func() tea.Msg { panic(errors.New("command blew up")) }
		case "b":
			return f, tea.Batch(
				func() tea.Msg { return loadedMsg{n: 1} },
				func() tea.Msg { panic("reload blew up") },
			)
		}
	}
	f.count++
	return f, nil
}

func (f flaky) View() string {
	if f.broken {
		panic(errors.New("cannot render"))
	}
	return "all good"
}

func TestBoundaryPassesThrough(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, _ = b.Update(runes("a"))
	require.False(t, b.Faulted())
	require.Equal(t, "all good", b.View())
	require.Equal(t, 1, b.Inner().(flaky).count)
}

func TestBoundaryCatchesUpdatePanicAndRetries(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, cmd := b.Update(runes("p"))
	require.Nil(t, cmd)
	require.True(t, b.Faulted())

	out := b.View()
	require.Contains(t, out, "Something went wrong")
	require.Contains(t, out, "kaboom")
	require.Contains(t, out, "Try Again")

	// input other than retry is swallowed while faulted
	_, _ = b.Update(runes("a"))
	require.True(t, b.Faulted())
	require.Equal(t, 0, b.Inner().(flaky).count)

	_, _ = b.Update(runes("r"))
	require.False(t, b.Faulted())
	require.Equal(t, "all good", b.View())
}

func TestBoundaryCatchesViewPanic(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, _ = b.Update(runes("v"))
	require.False(t, b.Faulted())

	out := b.View()
	require.True(t, b.Faulted())
	require.Contains(t, out, "cannot render")

	// retry re-renders; the inner model is still broken so it faults again
	_, _ = b.Update(runes("r"))
	require.False(t, b.Faulted())
	require.Contains(t, b.View(), "Something went wrong")
	require.True(t, b.Faulted())
}

func TestBoundaryCatchesCommandPanic(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, cmd := b.Update(runes("c"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, faultMsg{}, msg)
	_, _ = b.Update(msg)
	require.True(t, b.Faulted())
	require.Contains(t, b.View(), "command blew up")
}

func TestBoundaryQuitWhileFaulted(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, _ = b.Update(runes("p"))
	_, cmd := b.Update(runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoundaryCustomFallback(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	b.Fallback = func(err error) string { return "custom: " + err.Error() }
	_, _ = b.Update(runes("p"))
	require.Equal(t, "custom: kaboom", b.View())
}

func TestBoundaryCatchesPanicInsideBatch(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, cmd := b.Update(runes("b"))
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	require.Equal(t, loadedMsg{n: 1}, batch[0]())

	msg := batch[1]()
	require.IsType(t, faultMsg{}, msg)
	_, _ = b.Update(msg)
	require.True(t, b.Faulted())
	require.Contains(t, b.View(), "reload blew up")
}

func TestBoundaryDeliversResultsWhileFaulted(t *testing.T) {
	b := NewBoundary(flaky{}, nil)
	_, _ = b.Update(runes("p"))
	require.True(t, b.Faulted())

	_, _ = b.Update(loadedMsg{n: 3})
	require.True(t, b.Faulted(), "results do not clear the fault")
	require.Equal(t, 3, b.Inner().(flaky).loaded)

	_, _ = b.Update(runes("r"))
	require.False(t, b.Faulted())
	require.Equal(t, 3, b.Inner().(flaky).loaded)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/standup/internal/model"
	"github.com/idilsaglam/standup/internal/ui"
	"github.com/idilsaglam/standup/internal/view"
)

// deleteMsg is sent once the user has confirmed deleting an entry.
type deleteMsg struct{ id string }

type listModel struct {
	groups  []view.Group
	flat    []model.Entry // entries in display order; cursor indexes this
	cursor  int
	confirm string // id of the card awaiting delete confirmation
	now     func() time.Time
	keys    keyMap
}

func newListModel(now func() time.Time, keys keyMap) listModel {
	return listModel{now: now, keys: keys}
}

// setEntries replaces the list, keeping the cursor on the same entry
// when it still exists.
func (l listModel) setEntries(entries []model.Entry) listModel {
	prev, hadPrev := l.selected()
	l.groups = view.GroupByDate(entries)
	l.flat = l.flat[:0:0]
	for _, g := range l.groups {
		l.flat = append(l.flat, g.Entries...)
	}
	if hadPrev {
		l = l.selectID(prev.ID)
	}
	if l.cursor >= len(l.flat) {
		l.cursor = len(l.flat) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if _, ok := l.index(l.confirm); !ok {
		l.confirm = ""
	}
	return l
}

func (l listModel) index(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for i, e := range l.flat {
		if e.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (l listModel) selectID(id string) listModel {
	if i, ok := l.index(id); ok {
		l.cursor = i
	}
	return l
}

func (l listModel) selected() (model.Entry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.flat) {
		return model.Entry{}, false
	}
	return l.flat[l.cursor], true
}

func (l listModel) confirming() bool { return l.confirm != "" }

func (l listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	// A pending confirmation takes over all keys.
	if l.confirming() {
		switch {
		case key.Matches(km, l.keys.Confirm):
			id := l.confirm
			l.confirm = ""
			return l, func() tea.Msg { return deleteMsg{id: id} }
		case key.Matches(km, l.keys.Cancel):
			l.confirm = ""
		}
		return l, nil
	}

	switch {
	case key.Matches(km, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(km, l.keys.Down):
		if l.cursor < len(l.flat)-1 {
			l.cursor++
		}
	case key.Matches(km, l.keys.Delete):
		if e, ok := l.selected(); ok {
			l.confirm = e.ID
		}
	}
	return l, nil
}

// View renders the grouped list, scrolled so the selected card is visible
// within height lines. height <= 0 disables clipping.
func (l listModel) View(st ui.Styles, width, height int, focused bool) string {
	if len(l.flat) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			st.Name.Render(view.EmptyTitle),
			st.Muted.Render(view.EmptyMessage),
		)
	}

	var (
		lines            []string
		selStart, selEnd int
	)
	i := 0
	now := l.now()
	for gi, g := range l.groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, st.Heading.Render(view.Heading(g.Date, now)))
		for _, e := range g.Entries {
			sel := focused && i == l.cursor
			card := strings.Split(l.card(st, e, width, sel), "\n")
			if i == l.cursor {
				selStart, selEnd = len(lines), len(lines)+len(card)
			}
			lines = append(lines, card...)
			i++
		}
	}
	return strings.Join(clip(lines, selStart, selEnd, height), "\n")
}

func (l listModel) card(st ui.Styles, e model.Entry, width int, selected bool) string {
	theme := ui.Current()
	cursor := "  "
	if selected {
		cursor = theme.SymCursor + " "
	}

	meta := st.Name.Render(e.Name) + " " + st.Muted.Render(theme.SymBullet+" "+view.CardDate(e.Date))
	action := st.Muted.Render("[d] delete")
	if l.confirm == e.ID {
		action = st.Confirm.Render("Delete this entry?") + " " +
			st.Error.Render("[y] delete") + " " + st.Muted.Render("[n] cancel")
	}

	bodyWidth := width - 4
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	section := func(title string, titleStyle lipgloss.Style, text string) string {
		return titleStyle.Render(title) + "\n" + lipgloss.NewStyle().Width(bodyWidth).Render(text)
	}
	parts := []string{
		meta + "  " + action,
		section("Yesterday", st.Label, e.Yesterday),
		section("Today", st.Label, e.Today),
	}
	if e.Blockers != "" {
		parts = append(parts, section("Blockers", st.Blocker, e.Blockers))
	}

	box := st.Card
	if selected {
		box = st.CardFocus
	}
	body := box.Render(strings.Join(parts, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, cursor, body)
}

// clip returns at most height lines, keeping [start, end) in view.
func clip(lines []string, start, end, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	// once scrolled, the first row is the "more" marker
	top := 0
	if end > height {
		top = end - (height - 1)
	}
	if top > start {
		top = start
	}
	if top == 0 {
		return lines[:height]
	}
	avail := height - 1
	if top+avail > len(lines) {
		top = len(lines) - avail
	}
	out := make([]string, 0, height)
	out = append(out, fmt.Sprintf("  ↑ %d more", top))
	return append(out, lines[top:top+avail]...)
}

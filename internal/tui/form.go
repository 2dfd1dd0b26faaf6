package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/standup/internal/form"
	"github.com/idilsaglam/standup/internal/model"
	"github.com/idilsaglam/standup/internal/ui"
)

// focus slots, in tab order
const (
	slotName = iota
	slotDate
	slotYesterday
	slotToday
	slotBlockers
	slotSubmit
	slotCount
)

// submitMsg carries a validated, trimmed entry to the shell.
type submitMsg struct{ entry model.NewEntry }

type formModel struct {
	name      textinput.Model
	date      textinput.Model
	yesterday textarea.Model
	today     textarea.Model
	blockers  textarea.Model

	focus  int
	active bool
	tried  bool // a submit was refused; show problems
	rules  form.Rules
	now    func() time.Time
	keys   keyMap
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func newTextArea(placeholder string, height int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(height)
	ta.SetWidth(60)
	ta.Cursor.SetMode(cursor.CursorStatic)
	return ta
}

func newFormModel(rules form.Rules, now func() time.Time, keys keyMap) formModel {
	f := formModel{
		name:      newTextInput("Your name", 80),
		date:      newTextInput(model.DateLayout, len(model.DateLayout)),
		yesterday: newTextArea("Describe what you accomplished...", 3),
		today:     newTextArea("Describe your plans for today...", 3),
		blockers:  newTextArea("Describe any blockers or challenges...", 2),
		rules:     rules,
		now:       now,
		keys:      keys,
	}
	f.date.SetValue(form.New(now()).Date)
	return f
}

func (f formModel) fields() form.Fields {
	return form.Fields{
		Name:      f.name.Value(),
		Date:      f.date.Value(),
		Yesterday: f.yesterday.Value(),
		Today:     f.today.Value(),
		Blockers:  f.blockers.Value(),
	}
}

func (f formModel) problems() form.Problems {
	return form.Validate(f.fields(), f.rules, f.now())
}

func (f *formModel) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.name.Width = w / 2
	f.date.Width = len(model.DateLayout) + 1
	f.yesterday.SetWidth(w)
	f.today.SetWidth(w)
	f.blockers.SetWidth(w)
}

func (f *formModel) blurAll() {
	f.name.Blur()
	f.date.Blur()
	f.yesterday.Blur()
	f.today.Blur()
	f.blockers.Blur()
}

// focusSlot moves focus to slot i of the form.
func (f *formModel) focusSlot(i int) tea.Cmd {
	f.blurAll()
	f.focus = (i + slotCount) % slotCount
	f.active = true
	switch f.focus {
	case slotName:
		return f.name.Focus()
	case slotDate:
		return f.date.Focus()
	case slotYesterday:
		return f.yesterday.Focus()
	case slotToday:
		return f.today.Focus()
	case slotBlockers:
		return f.blockers.Focus()
	}
	return nil
}

func (f *formModel) deactivate() {
	f.blurAll()
	f.active = false
}

// reset clears every field except the date and refocuses the name.
func (f formModel) reset() (formModel, tea.Cmd) {
	kept := f.fields().Reset()
	f.name.SetValue(kept.Name)
	f.yesterday.SetValue(kept.Yesterday)
	f.today.SetValue(kept.Today)
	f.blockers.SetValue(kept.Blockers)
	f.tried = false
	if !f.active {
		return f, nil
	}
	cmd := f.focusSlot(slotName)
	return f, cmd
}

func (f formModel) submit() (formModel, tea.Cmd) {
	if !f.problems().OK() {
		f.tried = true
		return f, nil
	}
	entry := f.fields().Entry()
	return f, func() tea.Msg { return submitMsg{entry: entry} }
}

func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.Next):
			return f, f.focusSlot(f.focus + 1)
		case key.Matches(km, f.keys.Prev):
			return f, f.focusSlot(f.focus - 1)
		case key.Matches(km, f.keys.Submit):
			return f.submit()
		case f.focus == slotSubmit && km.Type == tea.KeyEnter:
			return f.submit()
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case slotName:
		f.name, cmd = f.name.Update(msg)
	case slotDate:
		f.date, cmd = f.date.Update(msg)
	case slotYesterday:
		f.yesterday, cmd = f.yesterday.Update(msg)
	case slotToday:
		f.today, cmd = f.today.Update(msg)
	case slotBlockers:
		f.blockers, cmd = f.blockers.Update(msg)
	}
	return f, cmd
}

func (f formModel) View(st ui.Styles) string {
	p := f.problems()
	label := func(text string, field form.Field) string {
		out := st.Label.Render(text)
		if f.tried {
			if msg := p.For(field); msg != "" {
				out += "  " + st.Error.Render(msg)
			}
		}
		return out
	}

	nameCol := lipgloss.JoinVertical(lipgloss.Left, label("Name", form.FieldName), f.name.View())
	dateCol := lipgloss.JoinVertical(lipgloss.Left, label("Date", form.FieldDate), f.date.View())
	yesterdayLabel := "What did you work on yesterday?"
	if !f.rules.RequireYesterday {
		yesterdayLabel += " " + st.Muted.Render("(optional)")
	}

	button := "[ Submit Standup ]"
	switch {
	case !p.OK():
		button = st.Muted.Render(button)
	case f.active && f.focus == slotSubmit:
		button = st.Selected.Render(button)
	default:
		button = st.Success.Render(button)
	}

	return strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, nameCol, "   ", dateCol),
		label(yesterdayLabel, form.FieldYesterday),
		f.yesterday.View(),
		label("What will you work on today?", form.FieldToday),
		f.today.View(),
		label("Any blockers?", form.FieldBlockers) + " " + st.Muted.Render("(optional)"),
		f.blockers.View(),
		button,
	}, "\n")
}

// Package tui is the interactive standup screen: a create form above a
// date-grouped list of entries, wrapped in an error boundary.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/standup/internal/form"
	"github.com/idilsaglam/standup/internal/model"
	"github.com/idilsaglam/standup/internal/store"
	"github.com/idilsaglam/standup/internal/ui"
)

type pane int

const (
	paneList pane = iota
	paneForm
)

// Options configures the shell.
type Options struct {
	Store  *store.Store
	Rules  form.Rules
	Days   int // list window; <= 0 lists every entry
	Now    func() time.Time
	Logger *zap.Logger
}

// Storage results, delivered back to Update.
type (
	entriesMsg struct {
		entries []model.Entry
		err     error
	}
	savedMsg struct {
		entry model.Entry
		err   error
	}
	deletedMsg struct {
		id      string
		removed bool
		err     error
	}
)

// Model is the application shell. It owns the form and list and routes
// their requests to the store.
type Model struct {
	store *store.Store
	days  int
	now   func() time.Time
	log   *zap.Logger

	keys   keyMap
	help   help.Model
	styles ui.Styles

	form          formModel
	list          listModel
	focus         pane
	banner        string // last storage failure, until dismissed
	saving        bool   // a save is in flight; further submits are dropped
	status        string
	pendingSelect string // entry to select after the next reload

	width, height int
}

// New builds the shell. Focus starts on the form.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	keys := defaultKeys()
	m := Model{
		store:  opts.Store,
		days:   opts.Days,
		now:    opts.Now,
		log:    opts.Logger,
		keys:   keys,
		help:   help.New(),
		styles: ui.NewStyles(ui.Current()),
		form:   newFormModel(opts.Rules, opts.Now, keys),
		list:   newListModel(opts.Now, keys),
		focus:  paneForm,
	}
	m.form.focusSlot(slotName)
	return m
}

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) load() tea.Cmd {
	st, days := m.store, m.days
	return func() tea.Msg {
		ctx := context.Background()
		if days > 0 {
			entries, err := st.Recent(ctx, days)
			return entriesMsg{entries: entries, err: err}
		}
		entries, err := st.Entries(ctx)
		if err == nil {
			store.Sort(entries)
		}
		return entriesMsg{entries: entries, err: err}
	}
}

func (m Model) save(n model.NewEntry) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		e, err := st.Save(context.Background(), n)
		return savedMsg{entry: e, err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		removed, err := st.Delete(context.Background(), id)
		return deletedMsg{id: id, removed: removed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.form.setWidth(msg.Width - 6)
		return m, nil

	case entriesMsg:
		if msg.err != nil {
			m.fail("load entries", msg.err)
			return m, nil
		}
		m.list = m.list.setEntries(msg.entries)
		if m.pendingSelect != "" {
			m.list = m.list.selectID(m.pendingSelect)
			m.pendingSelect = ""
		}
		return m, nil

	case submitMsg:
		if m.saving {
			return m, nil
		}
		m.saving = true
		return m, m.save(msg.entry)

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.fail("save entry", msg.err)
			return m, nil
		}
		m.banner = ""
		m.status = "Saved standup for " + msg.entry.Name
		m.pendingSelect = msg.entry.ID
		var cmd tea.Cmd
		m.form, cmd = m.form.reset()
		return m, tea.Batch(cmd, m.load())

	case deleteMsg:
		return m, m.remove(msg.id)

	case deletedMsg:
		if msg.err != nil {
			m.fail("delete entry", msg.err)
			return m, nil
		}
		m.status = "Entry deleted"
		if !msg.removed {
			m.status = "Entry was already gone"
		}
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == paneForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+x":
		m.banner = ""
		return m, nil
	}
	m.status = ""

	if m.focus == paneForm {
		if key.Matches(msg, m.keys.Leave) {
			m.form.deactivate()
			m.focus = paneList
			return m, nil
		}
		if m.saving && key.Matches(msg, m.keys.Submit) {
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	if !m.list.confirming() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			m.banner = ""
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.focus = paneForm
			return m, m.form.focusSlot(slotName)
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) fail(op string, err error) {
	m.log.Error(op, zap.Error(err))
	m.banner = store.UserMessage(err)
}

func (m Model) View() string {
	st := m.styles
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(st.Title.Render("Daily Standup Tracker"))
	b.WriteString("\n")
	if m.banner != "" {
		b.WriteString(st.Banner.Render(m.banner + "  " + st.Muted.Render("(ctrl+x to dismiss)")))
		b.WriteString("\n")
	}

	formPane, listPane := st.Pane, st.Pane
	if m.focus == paneForm {
		formPane = st.PaneFocus
	} else {
		listPane = st.PaneFocus
	}
	formView := formPane.Width(width - 2).Render(m.form.View(st))
	b.WriteString(formView)
	b.WriteString("\n")

	used := lipgloss.Height(b.String()) + 4
	listHeight := 0
	if m.height > 0 {
		listHeight = m.height - used
		if listHeight < 3 {
			listHeight = 3
		}
	}
	b.WriteString(listPane.Width(width - 2).Render(
		m.list.View(st, width-6, listHeight, m.focus == paneList),
	))
	b.WriteString("\n")

	bindings := m.keys.formHelp()
	if m.focus == paneList {
		bindings = m.keys.listHelp(m.list.confirming())
	}
	footer := m.help.ShortHelpView(bindings)
	if m.status != "" {
		footer = st.Success.Render(m.status) + "  " + footer
	}
	b.WriteString(footer)
	return b.String()
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewBoundary(New(opts), opts.Logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

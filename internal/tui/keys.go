package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Dismiss key.Binding

	// list pane
	Up      key.Binding
	Down    key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Add     key.Binding

	// form pane
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Leave  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Dismiss: key.NewBinding(key.WithKeys("x", "ctrl+x"), key.WithHelp("x", "dismiss error")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm delete")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
		Add:     key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a", "new entry")),

		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "entries")),
	}
}

func (k keyMap) listHelp(confirming bool) []key.Binding {
	if confirming {
		return []key.Binding{k.Confirm, k.Cancel}
	}
	return []key.Binding{k.Up, k.Down, k.Add, k.Delete, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Leave}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	tab     key.Binding
	like    key.Binding
	unlike  key.Binding
	remove  key.Binding
	plan    key.Binding
	refresh key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "songs/albums")),
		like:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		unlike:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlike")),
		remove:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		plan:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next plan")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.tab, k.refresh},
		{k.like, k.unlike, k.remove, k.plan},
		{k.yes, k.no, k.quit},
	}
}

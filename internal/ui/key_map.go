package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	favorite key.Binding
	genre    key.Binding
	search   key.Binding
	back     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		genre:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next genre")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "popular")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.favorite, k.genre, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.favorite},
		{k.genre, k.search, k.back},
		{k.quit},
	}
}

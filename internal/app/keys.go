package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the console.
type KeyMap struct {
	Queue   key.Binding
	Resign  key.Binding
	Draw    key.Binding
	Compose key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Queue: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "join matchmaking"),
		),
		Resign: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resign"),
		),
		Draw: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "offer draw"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "compose chat"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave compose"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

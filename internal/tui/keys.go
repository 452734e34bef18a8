package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Mode    key.Binding
	Clear   key.Binding
	Undo    key.Binding
	Dismiss key.Binding
	Accept  key.Binding
	Quit    key.Binding
	Help    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "local/canonical")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Undo:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Accept, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Mode, k.Clear, k.Undo},
		{k.Accept, k.Dismiss, k.Quit, k.Help},
	}
}

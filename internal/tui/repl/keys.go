package repl

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit     key.Binding
	Prev       key.Binding
	Next       key.Binding
	ToggleMode key.Binding
	Clear      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "parse")),
		Prev:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Next:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		ToggleMode: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tree/json")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Prev, k.Next, k.ToggleMode, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Prev, k.Next},
		{k.ToggleMode, k.Clear, k.PageUp, k.PageDown, k.Quit},
	}
}

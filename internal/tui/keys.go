package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	BigLeft  key.Binding
	BigRight key.Binding
	Edit     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.BigLeft, k.Edit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Left, k.Right, k.BigLeft, k.BigRight}, {k.Edit, k.Quit}}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "adjust")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "increase")),
	BigLeft:  key.NewBinding(key.WithKeys("shift+left", "pgdown", "H"), key.WithHelp("shift ←/→", "±10")),
	BigRight: key.NewBinding(key.WithKeys("shift+right", "pgup", "L"), key.WithHelp("shift →", "+10")),
	Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "type value")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

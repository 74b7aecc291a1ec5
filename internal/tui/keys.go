package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit      key.Binding
	process   key.Binding
	clear     key.Binding
	copy      key.Binding
	newVital  key.Binding
	buildInfo key.Binding
	yes       key.Binding
	no        key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
}

var keys = keyMap{
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	process:   key.NewBinding(key.WithKeys("p")),
	clear:     key.NewBinding(key.WithKeys("c")),
	copy:      key.NewBinding(key.WithKeys("y")),
	newVital:  key.NewBinding(key.WithKeys("n")),
	buildInfo: key.NewBinding(key.WithKeys("v")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab", "down")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab", "up")),
}

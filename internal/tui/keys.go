package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Show  key.Binding
	Cycle key.Binding
	Close key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Show: key.NewBinding(
		key.WithKeys("f", "g"),
		key.WithHelp("f", "fetch forecast"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("s", "tab"),
		key.WithHelp("s", "cycle style"),
	),
	Close: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "close"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

func (k keyMap) helpLine() string {
	var parts []string
	for _, b := range []key.Binding{k.Show, k.Cycle, k.Close} {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

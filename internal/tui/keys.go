package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Breakdown  key.Binding
	Forecast   key.Binding
	Refresh    key.Binding
	Edit       key.Binding
	MoreYears  key.Binding
	FewerYears key.Binding
	CycleTheme key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Next:       key.NewBinding(key.WithKeys("right", "tab", "l"), key.WithHelp("→", "next tab")),
	Prev:       key.NewBinding(key.WithKeys("left", "shift+tab", "h"), key.WithHelp("←", "previous tab")),
	Breakdown:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "breakdown tab")),
	Forecast:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forecast tab")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload history")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit costs")),
	MoreYears:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "extend horizon")),
	FewerYears: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorten horizon")),
	CycleTheme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
}

func (k keyMap) helpSections() [][]key.Binding {
	return [][]key.Binding{
		{k.Breakdown, k.Forecast, k.Prev, k.Next},
		{k.Edit, k.MoreYears, k.FewerYears, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}

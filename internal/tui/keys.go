package tui

import "github.com/charmbracelet/bubbles/key"

// shellKeys are handled by the layout shell whenever no view is capturing input.
type shellKeys struct {
	NextTab     key.Binding
	PrevTab     key.Binding
	CloseTab    key.Binding
	CloseOthers key.Binding
	CloseLeft   key.Binding
	CloseRight  key.Binding
	CloseAll    key.Binding
	Sidebar     key.Binding
	Fullscreen  key.Binding
	Open        key.Binding
	Refresh     key.Binding
	Logout      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultShellKeys() shellKeys {
	return shellKeys{
		NextTab:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),
		CloseTab:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close tab")),
		CloseOthers: key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "close others")),
		CloseLeft:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "close left")),
		CloseRight:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "close right")),
		CloseAll:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "close all")),
		Sidebar:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		Fullscreen:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "fullscreen")),
		Open:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "open view")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Logout:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpKeys merges the shell bindings with the active view's bindings for help.Model.
type helpKeys struct {
	shell shellKeys
	view  []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, h.view...)
	return append(out, h.shell.Open, h.shell.NextTab, h.shell.CloseTab, h.shell.Help, h.shell.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	s := h.shell
	return [][]key.Binding{
		h.view,
		{s.Open, s.NextTab, s.PrevTab, s.Refresh},
		{s.CloseTab, s.CloseOthers, s.CloseLeft, s.CloseRight, s.CloseAll},
		{s.Sidebar, s.Fullscreen, s.Logout, s.Help, s.Quit},
	}
}

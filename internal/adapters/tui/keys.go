package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for both the timer and the task editor.
type keyMap struct {
	Primary   key.Binding
	Secondary key.Binding
	Edit      key.Binding
	Process   key.Binding
	Done      key.Binding
	Export    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Primary: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start"),
		),
		Secondary: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "reset"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "tab"),
			key.WithHelp("e", "edit tasks"),
		),
		Process: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "process tasks"),
		),
		Done: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc", "back to timer"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export laps"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// helpKeys adapts keyMap to help.KeyMap for the active pane.
type helpKeys struct {
	keys    keyMap
	editing bool
}

func (h helpKeys) ShortHelp() []key.Binding {
	if h.editing {
		return []key.Binding{h.keys.Process, h.keys.Done}
	}
	return []key.Binding{h.keys.Primary, h.keys.Secondary, h.keys.Edit, h.keys.Help, h.keys.Quit}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	if h.editing {
		return [][]key.Binding{{h.keys.Process, h.keys.Done}}
	}
	return [][]key.Binding{
		{h.keys.Primary, h.keys.Secondary},
		{h.keys.Edit, h.keys.Process, h.keys.Export},
		{h.keys.Help, h.keys.Quit},
	}
}

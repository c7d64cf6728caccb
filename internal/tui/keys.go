package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds the simulated switches and the simulator's own tools.
type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	Select   key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	AutoScan key.Binding
	Keyboard key.Binding
	Reload   key.Binding
	Delete   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", " ", "tab"),
			key.WithHelp("space/n", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "shift+tab"),
			key.WithHelp("p", "previous"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "menu / perform"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "menu up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "menu down"),
		),
		AutoScan: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-scan"),
		),
		Keyboard: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "host keyboard"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload tree"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete focused"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Select, k.Back, k.AutoScan, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Select, k.Back},
		{k.Up, k.Down, k.AutoScan, k.Keyboard},
		{k.Reload, k.Delete, k.Help, k.Quit},
	}
}

package tickets

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the ticket screen. List navigation and
// filtering keys come from bubbles/list itself.
type KeyMap struct {
	Create      key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Refresh     key.Binding
	ClearFilter key.Binding
	Back        key.Binding
	Logout      key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	Create: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "create"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter", " "),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "dashboard"),
	),
	Logout: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Create, k.Edit, k.Delete, k.Back, k.Logout, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Create, k.Edit, k.Delete, k.Refresh},
		{k.ClearFilter, k.Back, k.Logout, k.Quit},
	}
}

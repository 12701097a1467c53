package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Feature  key.Binding
	Delete   key.Binding
	Filter   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Login    key.Binding
	Refresh  key.Binding
	Submit   key.Binding
	NextItem key.Binding
	PrevItem key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "views")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "projects")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add project")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit project")),
	Feature:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle featured")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Login:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login/logout")),
	Refresh:  key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("r", "refresh")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	NextItem: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevItem: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
}

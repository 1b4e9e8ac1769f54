package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the bindings of every state. Bindings that do not apply to
// the current state are disabled so help only lists what works.
type keyMap struct {
	Start   key.Binding
	Verbose key.Binding
	Cancel  key.Binding
	Restart key.Binding
	Quit    key.Binding
	Abort   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Verbose: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "verbose")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new download")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
		Abort:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// forState enables the bindings that apply in s.
func (k keyMap) forState(s State) keyMap {
	input := s == StateInput
	running := s == StateInitializing || s == StateDownloading
	finished := s == StateComplete || s == StateError

	k.Start.SetEnabled(input)
	k.Verbose.SetEnabled(input)
	k.Cancel.SetEnabled(running)
	k.Restart.SetEnabled(finished)
	k.Quit.SetEnabled(input || finished)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Verbose, k.Cancel, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

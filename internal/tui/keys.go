package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// Action names mirrored from the themes that accept viewer input.
const (
	actionExpand       = "expand"
	actionToggleLocked = "toggle-locked"
)

type keyMap struct {
	Quit   key.Binding
	Expand key.Binding
	Locked key.Binding
	Cancel key.Binding
	Submit key.Binding
}

func newKeyMap(actions []string, interactive bool) keyMap {
	k := keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Expand: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand combo")),
		Locked: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle locked")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
	}
	k.Expand.SetEnabled(interactive && slices.Contains(actions, actionExpand))
	k.Locked.SetEnabled(interactive && slices.Contains(actions, actionToggleLocked))
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Expand, k.Locked, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type promptKeys struct{ keyMap }

func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

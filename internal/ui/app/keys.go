// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the global key bindings.
type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Search    key.Binding
	Reload    key.Binding
	OpenPDF   key.Binding
	Triplets  key.Binding
	Neighbors key.Binding
	Stats     key.Binding
	ClearCh   key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/send")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	OpenPDF:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open pdf")),
	Triplets:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "triplets")),
	Neighbors: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "neighbors")),
	Stats:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "graph stats")),
	ClearCh:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

// helpLine is the one-line hint under the status bar.
func helpLine(tab Tab) string {
	switch tab {
	case TabDocuments:
		return "↑/↓ move · enter select · / search · r reload · p pdf · tab panes · q quit"
	case TabChat:
		return "enter send · ctrl+l clear · pgup/pgdn scroll · tab panes · ctrl+c quit"
	case TabGraph:
		return "t triplets · n neighbors · s stats · pgup/pgdn scroll · tab panes · q quit"
	default:
		return "pgup/pgdn scroll · tab panes · q quit"
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pubsage-tui/internal/ui/components"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
)

// View renders the whole frame: tab bar, active pane, status bar, help line.
func (a *App) View() string {
	if !a.ready {
		return "loading…"
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteByte('\n')
	b.WriteString(a.renderPane())
	b.WriteByte('\n')
	b.WriteString(a.renderStatus())
	b.WriteByte('\n')
	b.WriteString(styles.DimText.Render(helpLine(a.tab)))
	return b.String()
}

func (a *App) renderTabs() string {
	parts := make([]string, 0, int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		label := " " + t.String() + " "
		if t == a.tab {
			parts = append(parts, styles.TabActive.Render(label))
		} else {
			parts = append(parts, styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (a *App) renderPane() string {
	switch a.tab {
	case TabDocuments:
		return a.renderDocuments()
	case TabChat:
		return a.renderChat()
	case TabGraph:
		return a.graphView.View()
	case TabSummary:
		return a.summaryView.View()
	case TabContent:
		return a.contentView.View()
	}
	return ""
}

func (a *App) renderDocuments() string {
	h := a.contentHeight()
	listHeight := h
	var header string
	if a.searching || a.searchInput.Value() != "" {
		header = a.searchInput.View() + "\n"
		listHeight--
	}
	list := components.DocList(a.store.Documents(), a.docCursor, a.selectedIndex(), a.width, listHeight)
	return padToHeight(header+list, h)
}

func (a *App) renderChat() string {
	return a.chatView.View() + "\n" + a.chatInput.View()
}

func (a *App) renderStatus() string {
	info := components.StatusInfo{
		BackendKnown: a.healthKnown,
		Pending:      a.store.Pending(),
		LastError:    a.store.LastError(),
	}
	if a.health != nil {
		info.BackendOK = a.health.OK()
		info.Documents = a.health.Documents
	}
	if sel := a.store.Selected(); sel != nil {
		info.SelectedDoc = sel.Title
	}
	if a.statusNotice != "" {
		info.LastError = a.statusNotice
	}
	return components.StatusBar(info, a.width)
}

// padToHeight keeps the frame stable when a pane renders short.
func padToHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= h {
		return s
	}
	return s + strings.Repeat("\n", h-lines)
}

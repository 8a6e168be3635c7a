// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/ui/components"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

// Update is the single state-transition function of the TUI.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.store.Pending() {
			// Repaint so the optimistic user message and spinner frame
			// stay current while the request is in flight.
			a.refreshChatView()
			return a, cmd
		}
		return a, nil

	case DocumentsLoadedMsg:
		if msg.Err != nil {
			return a.notice("documents: "+errText(msg.Err), nil)
		}
		if a.docCursor >= len(msg.Docs) {
			a.docCursor = max(0, len(msg.Docs)-1)
		}
		return a, nil

	case PrefetchMsg:
		return a.handlePrefetch(msg)

	case AnswerResolvedMsg:
		a.refreshChatView()
		a.chatView.GotoBottom()
		return a, nil

	case TripletsLoadedMsg:
		if msg.Generation != a.store.Generation() {
			return a, nil // selection moved on, drop the result
		}
		if msg.Err != nil {
			return a.notice("triplets: "+errText(msg.Err), nil)
		}
		a.triplets = msg.Triplets
		a.showTriplets = true
		a.refreshGraphView()
		return a, nil

	case NeighborsLoadedMsg:
		if msg.Generation != a.store.Generation() {
			return a, nil
		}
		if msg.Err != nil {
			return a.notice("neighbors: "+errText(msg.Err), nil)
		}
		return a.notice("neighbors of "+msg.Node+": "+strings.Join(msg.IDs, ", "), nil)

	case GraphStatsMsg:
		if msg.Err != nil {
			return a.notice("graph stats: "+errText(msg.Err), nil)
		}
		return a.notice(fmt.Sprintf("graph: %d nodes · %d edges", msg.Stats.Nodes, msg.Stats.Edges), nil)

	case PDFOpenedMsg:
		if msg.Err != nil {
			return a.notice("pdf: "+errText(msg.Err), nil)
		}
		return a.notice("pdf opened: "+msg.Path, nil)

	case HealthMsg:
		a.healthKnown = true
		if msg.Err != nil {
			a.health = nil
			a.logger.Warn("health probe failed", zap.Error(msg.Err))
		} else {
			a.health = msg.Health
		}
		return a, nil

	case ConfigReloadedMsg:
		a.cfg = msg.Cfg
		a.client.SetBaseURL(msg.Cfg.Server.BaseURL)
		a.client.SetToken(msg.Cfg.Auth.Token)
		styles.ApplyTheme(msg.Cfg.UI.Theme)
		return a.notice("config reloaded", checkHealthCmd(a.client))

	case StatusExpiredMsg:
		a.statusNotice = ""
		return a, nil
	}

	return a, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	h := a.contentHeight()

	if !a.ready {
		a.chatView = viewport.New(msg.Width, h)
		a.graphView = viewport.New(msg.Width, h)
		a.summaryView = viewport.New(msg.Width, h)
		a.contentView = viewport.New(msg.Width, h)
		a.ready = true
	} else {
		for _, vp := range []*viewport.Model{&a.chatView, &a.graphView, &a.summaryView, &a.contentView} {
			vp.Width = msg.Width
			vp.Height = h
		}
	}

	wrap := min(msg.Width-2, a.cfg.UI.MarkdownWidth)
	a.transcript = components.NewTranscript(styles.GlamourStyle(a.cfg.UI.Theme), wrap)
	a.mdRenderer, _ = glamour.NewTermRenderer(
		glamour.WithStylePath(styles.GlamourStyle(a.cfg.UI.Theme)),
		glamour.WithWordWrap(wrap),
	)

	a.refreshChatView()
	a.refreshGraphView()
	a.refreshSummaryView()
	a.refreshContentView()
	return a, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := a.searching || a.tab == TabChat

	// Quit: ctrl+c always, q only when not typing into an input.
	if msg.String() == "ctrl+c" || (!typing && key.Matches(msg, keys.Quit)) {
		return a, tea.Quit
	}

	if !a.searching {
		switch {
		case key.Matches(msg, keys.NextTab):
			a.tab = (a.tab + 1) % tabCount
			return a.focusTab()
		case key.Matches(msg, keys.PrevTab):
			a.tab = (a.tab + tabCount - 1) % tabCount
			return a.focusTab()
		}
	}

	switch a.tab {
	case TabDocuments:
		return a.handleDocumentsKey(msg)
	case TabChat:
		return a.handleChatKey(msg)
	case TabGraph:
		return a.handleGraphKey(msg)
	case TabSummary:
		var cmd tea.Cmd
		a.summaryView, cmd = a.summaryView.Update(msg)
		return a, cmd
	case TabContent:
		var cmd tea.Cmd
		a.contentView, cmd = a.contentView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) focusTab() (tea.Model, tea.Cmd) {
	a.chatInput.Blur()
	a.searchInput.Blur()
	a.searching = false
	if a.tab == TabChat {
		return a, a.chatInput.Focus()
	}
	return a, nil
}

func (a *App) handleDocumentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch msg.String() {
		case "esc":
			a.searching = false
			a.searchInput.Blur()
			return a, nil
		case "enter":
			a.searching = false
			a.searchInput.Blur()
			return a, loadDocumentsCmd(a.store, api.ListDocumentsQuery{
				Q:     a.searchInput.Value(),
				Limit: a.cfg.UI.PageSize,
			}, false)
		default:
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			// Live search rides the store's rate limiter.
			return a, tea.Batch(cmd, loadDocumentsCmd(a.store, api.ListDocumentsQuery{
				Q:     a.searchInput.Value(),
				Limit: a.cfg.UI.PageSize,
			}, true))
		}
	}

	docs := a.store.Documents()
	switch {
	case key.Matches(msg, keys.Up):
		if a.docCursor > 0 {
			a.docCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.docCursor < len(docs)-1 {
			a.docCursor++
		}
	case key.Matches(msg, keys.Search):
		a.searching = true
		return a, a.searchInput.Focus()
	case key.Matches(msg, keys.Reload):
		return a, loadDocumentsCmd(a.store, api.ListDocumentsQuery{Limit: a.cfg.UI.PageSize}, false)
	case key.Matches(msg, keys.Select):
		if a.docCursor < len(docs) {
			doc := docs[a.docCursor]
			gen := a.store.SetSelectedDocument(doc)
			a.summaryMarkdown = ""
			a.contentJSON = nil
			a.triplets = nil
			a.showTriplets = false
			a.refreshGraphView()
			a.refreshSummaryView()
			a.refreshContentView()
			return a, prefetchCmd(a.store, a.client, doc, gen)
		}
	case key.Matches(msg, keys.OpenPDF):
		return a.openSelectedPDF()
	}
	return a, nil
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(a.chatInput.Value())
		if text == "" {
			return a, nil
		}
		if a.store.Pending() {
			return a.notice("still waiting for the previous answer", nil)
		}
		a.chatInput.Reset()
		return a, tea.Batch(a.spinner.Tick, sendMessageCmd(a.store, text))
	case "ctrl+l":
		a.store.ClearConversation()
		a.refreshChatView()
		return a, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd
	default:
		var cmd tea.Cmd
		a.chatInput, cmd = a.chatInput.Update(msg)
		return a, cmd
	}
}

func (a *App) handleGraphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Triplets):
		sel := a.store.Selected()
		if sel == nil || sel.SummaryFilename == "" {
			return a.notice("select a document first", nil)
		}
		if a.showTriplets {
			a.showTriplets = false
			a.refreshGraphView()
			return a, nil
		}
		return a, loadTripletsCmd(a.client, sel.SummaryFilename, a.store.Generation())
	case key.Matches(msg, keys.Neighbors):
		sel := a.store.Selected()
		g := a.store.Graph()
		if sel == nil || sel.SummaryFilename == "" || g == nil || len(g.Nodes) == 0 {
			return a.notice("no graph loaded", nil)
		}
		// Probe the hub: the highest-degree node is the most informative pick.
		hub := g.Nodes[0].ID
		best := g.Degree(hub)
		for _, n := range g.Nodes[1:] {
			if d := g.Degree(n.ID); d > best {
				hub, best = n.ID, d
			}
		}
		return a, loadNeighborsCmd(a.client, sel.SummaryFilename, hub, a.store.Generation())
	case key.Matches(msg, keys.Stats):
		return a, graphStatsCmd(a.client)
	case key.Matches(msg, keys.OpenPDF):
		return a.openSelectedPDF()
	}
	var cmd tea.Cmd
	a.graphView, cmd = a.graphView.Update(msg)
	return a, cmd
}

func (a *App) openSelectedPDF() (tea.Model, tea.Cmd) {
	sel := a.store.Selected()
	if sel == nil || sel.PDFFilename == "" {
		return a.notice("no pdf for this selection", nil)
	}
	return a.notice("fetching pdf…", openPDFCmd(a.blobs, sel.PDFFilename))
}

// =============================================================================
// PREFETCH
// =============================================================================

func (a *App) handlePrefetch(msg PrefetchMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != a.store.Generation() {
		return a, nil // stale: a newer selection owns the panes now
	}
	if msg.Summary != "" {
		a.summaryMarkdown = msg.Summary
		a.refreshSummaryView()
	}
	if msg.ContentList != nil {
		a.contentJSON = msg.ContentList
		a.refreshContentView()
	}
	a.refreshGraphView()

	var notices []string
	for _, pair := range []struct {
		label string
		err   error
	}{
		{"graph", msg.GraphErr},
		{"summary", msg.SummaryErr},
		{"contents", msg.ContentErr},
	} {
		if pair.err != nil {
			notices = append(notices, pair.label+": "+errText(pair.err))
		}
	}
	if len(notices) > 0 {
		return a.notice(strings.Join(notices, "; "), nil)
	}
	return a, nil
}

// =============================================================================
// PANE REFRESH
// =============================================================================

func (a *App) refreshChatView() {
	if !a.ready || a.transcript == nil {
		return
	}
	content := a.transcript.Render(a.store.Messages(), a.store.Pending())
	if a.store.Pending() {
		content += a.spinner.View() + styles.DimText.Render(" thinking…") + "\n"
	}
	atBottom := a.chatView.AtBottom()
	a.chatView.SetContent(content)
	if atBottom {
		a.chatView.GotoBottom()
	}
}

func (a *App) refreshGraphView() {
	if !a.ready {
		return
	}
	if a.showTriplets {
		a.graphView.SetContent(components.TripletRows(a.triplets, a.width-2))
		return
	}
	a.graphView.SetContent(components.GraphView(a.store.Graph(), a.width-2))
}

func (a *App) refreshSummaryView() {
	if !a.ready {
		return
	}
	if a.summaryMarkdown == "" {
		a.summaryView.SetContent(styles.DimText.Render("No summary loaded."))
		return
	}
	content := a.summaryMarkdown
	if a.mdRenderer != nil {
		if rendered, err := a.mdRenderer.Render(content); err == nil {
			content = rendered
		}
	}
	a.summaryView.SetContent(content)
}

func (a *App) refreshContentView() {
	if !a.ready {
		return
	}
	if a.contentJSON == nil {
		a.contentView.SetContent(styles.DimText.Render("No content list loaded."))
		return
	}
	dark := a.cfg.UI.Theme != "light"
	a.contentView.SetContent(components.HighlightJSON(a.contentJSON, dark))
}

// =============================================================================
// HELPERS
// =============================================================================

// notice sets a transient status message and schedules its expiry.
func (a *App) notice(text string, extra tea.Cmd) (tea.Model, tea.Cmd) {
	a.statusNotice = text
	if extra != nil {
		return a, tea.Batch(extra, expireStatusCmd())
	}
	return a, expireStatusCmd()
}

// errText keeps backend errors presentable in one status line.
func errText(err error) string {
	return util.FirstLine(err.Error())
}

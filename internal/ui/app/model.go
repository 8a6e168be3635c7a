// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/blob"
	"github.com/jeranaias/pubsage-tui/internal/config"
	"github.com/jeranaias/pubsage-tui/internal/store"
	"github.com/jeranaias/pubsage-tui/internal/ui/components"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
)

// Tab identifies one of the content panes.
type Tab int

const (
	TabDocuments Tab = iota
	TabChat
	TabGraph
	TabSummary
	TabContent

	tabCount
)

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabDocuments:
		return "Documents"
	case TabChat:
		return "Chat"
	case TabGraph:
		return "Graph"
	case TabSummary:
		return "Summary"
	case TabContent:
		return "Contents"
	default:
		return "?"
	}
}

// App is the root Bubble Tea model. All domain state lives in the store;
// the model holds only presentation state (cursors, viewports, inputs).
type App struct {
	cfg    *config.Config
	client *api.Client
	store  *store.Store
	blobs  *blob.Manager
	logger *zap.Logger

	tab    Tab
	width  int
	height int
	ready  bool

	// Documents tab
	docCursor   int
	searchInput textinput.Model
	searching   bool

	// Chat tab
	chatInput  textinput.Model
	chatView   viewport.Model
	transcript *components.Transcript
	spinner    spinner.Model

	// Graph tab
	graphView    viewport.Model
	triplets     []api.Triplet
	showTriplets bool

	// Summary / content tabs
	summaryView     viewport.Model
	summaryMarkdown string
	mdRenderer      *glamour.TermRenderer
	contentView     viewport.Model
	contentJSON     []byte

	// Status
	health       *api.Health
	healthKnown  bool
	statusNotice string
}

// Options wires the app's collaborators.
type Options struct {
	Config *config.Config
	Client *api.Client
	Store  *store.Store
	Blobs  *blob.Manager
	Logger *zap.Logger
}

// New creates the root model.
func New(opts Options) *App {
	styles.ApplyTheme(opts.Config.UI.Theme)

	search := textinput.New()
	search.Placeholder = "search titles"
	search.CharLimit = 120

	chat := textinput.New()
	chat.Placeholder = "ask a question"
	chat.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		cfg:         opts.Config,
		client:      opts.Client,
		store:       opts.Store,
		blobs:       opts.Blobs,
		logger:      logger,
		tab:         TabDocuments,
		searchInput: search,
		chatInput:   chat,
		spinner:     sp,
	}
}

// Init loads the document list and probes backend health.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		checkHealthCmd(a.client),
		loadDocumentsCmd(a.store, api.ListDocumentsQuery{Limit: a.cfg.UI.PageSize}, false),
	)
}

// selectedIndex returns the position of the selected document in the
// current list, or -1.
func (a *App) selectedIndex() int {
	sel := a.store.Selected()
	if sel == nil {
		return -1
	}
	for i, doc := range a.store.Documents() {
		if doc.ID == sel.ID {
			return i
		}
	}
	return -1
}

// contentHeight is the vertical space left for the active pane.
func (a *App) contentHeight() int {
	// tabs + status bar + input line
	h := a.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app implements the pubsage TUI: a tabbed Bubble Tea program over
// the application state store.
//
// This file defines the Bubble Tea message types. All network work runs in
// commands; these messages fold the results back into the model.
package app

import (
	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/config"
	"github.com/jeranaias/pubsage-tui/internal/store"
)

// DocumentsLoadedMsg delivers a document list fetch.
type DocumentsLoadedMsg struct {
	Docs []api.Document
	Err  error
}

// AnswerResolvedMsg signals that a chat dispatch finished (either way);
// the transcript itself lives in the store.
type AnswerResolvedMsg struct {
	Outcome store.SendOutcome
}

// PrefetchMsg delivers the artifacts fetched when a document is selected.
// Generation is the selection generation captured at fetch start; stale
// results are dropped in Update.
type PrefetchMsg struct {
	Generation  uint64
	Summary     string
	ContentList []byte
	GraphErr    error
	SummaryErr  error
	ContentErr  error
}

// TripletsLoadedMsg delivers a triplet query for the graph tab.
type TripletsLoadedMsg struct {
	Generation uint64
	Triplets   []api.Triplet
	Err        error
}

// NeighborsLoadedMsg delivers a node-neighborhood query for the graph tab.
type NeighborsLoadedMsg struct {
	Generation uint64
	Node       string
	IDs        []string
	Err        error
}

// GraphStatsMsg delivers corpus-wide knowledge graph totals.
type GraphStatsMsg struct {
	Stats *api.GraphStats
	Err   error
}

// PDFOpenedMsg reports a PDF spool-and-open attempt.
type PDFOpenedMsg struct {
	Path string
	Err  error
}

// HealthMsg delivers a backend liveness probe.
type HealthMsg struct {
	Health *api.Health
	Err    error
}

// ConfigReloadedMsg arrives when the config file watcher saw a change.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// StatusExpiredMsg clears a transient status line notice.
type StatusExpiredMsg struct{}

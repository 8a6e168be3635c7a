// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns all mutable client state: the selected document, the
// document list, the graph cache, and the conversation.
//
// Mutations replace whole values rather than editing fields in place, so
// observers can detect change by comparing snapshots. Network work runs on
// caller goroutines (Bubble Tea commands); the store serializes state
// transitions under one mutex.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/graph"
)

// Error variables for store operations.
var (
	// ErrStaleSelection indicates a fetch completed after the selection it
	// was started for had already changed; its result was discarded.
	ErrStaleSelection = errors.New("selection changed, result discarded")

	// ErrThrottled indicates a search-triggered list fetch was dropped by
	// the client-side rate limit.
	ErrThrottled = errors.New("search throttled")

	// ErrStaleQuery indicates a list fetch completed after a newer one had
	// already started; its result was discarded.
	ErrStaleQuery = errors.New("query superseded, result discarded")
)

// Backend is the slice of the gateway the store depends on.
type Backend interface {
	Ask(ctx context.Context, req api.QARequest) (*api.QAResponse, error)
	FileGraph(ctx context.Context, file string) (*api.GraphPayload, error)
	ListDocuments(ctx context.Context, query api.ListDocumentsQuery) ([]api.Document, error)
}

// Snapshot is an immutable view of the store, handed to observers.
type Snapshot struct {
	Selected   *api.Document
	Generation uint64
	Graph      *graph.RenderGraph
	Documents  []api.Document
	Messages   []Message
	Pending    bool
	LastError  string
}

// Store is the single owner of mutable client state.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *zap.Logger

	selected   *api.Document
	generation uint64
	graphCache *graph.RenderGraph
	documents  []api.Document
	listSeq    uint64
	conv       Conversation

	subscribers   []func(Snapshot)
	searchLimiter *rate.Limiter

	// now is injectable for tests.
	now func() time.Time
}

// New creates a store over the given backend.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		logger:  zap.NewNop(),
		conv:    NewConversation(),
		// Search-as-you-type: at most ~3 list fetches per second, small
		// burst so the first keystrokes are never dropped.
		searchLimiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 3),
		now:           time.Now,
	}
}

// WithLogger sets the store's logger.
func (s *Store) WithLogger(logger *zap.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Subscribe registers an observer called after every applied mutation.
// Observers run on the mutating goroutine and must not call back into the
// store synchronously.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns the current state as an immutable view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Selected:   s.selected,
		Generation: s.generation,
		Graph:      s.graphCache,
		Documents:  s.documents,
		Messages:   s.conv.Messages,
		Pending:    s.conv.Pending,
		LastError:  s.conv.LastError,
	}
}

// notify delivers the given snapshot to every subscriber.
func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	subs := s.subscribers
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// =============================================================================
// DOCUMENT SELECTION
// =============================================================================

// SetSelectedDocument replaces the selection and bumps the selection
// generation. The graph cache is cleared; refetching is the observers' job,
// the store only records the fact.
func (s *Store) SetSelectedDocument(doc api.Document) uint64 {
	s.mu.Lock()
	copied := doc
	s.selected = &copied
	s.generation++
	gen := s.generation
	s.graphCache = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("document selected", zap.String("id", doc.ID), zap.Uint64("generation", gen))
	s.notify(snap)
	return gen
}

// ClearSelectedDocument drops the selection.
func (s *Store) ClearSelectedDocument() {
	s.mu.Lock()
	s.selected = nil
	s.generation++
	s.graphCache = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Selected returns the current selection, or nil.
func (s *Store) Selected() *api.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Generation returns the current selection generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// =============================================================================
// GRAPH CACHE
// =============================================================================

// SetGraph replaces the cached render graph for the current document.
func (s *Store) SetGraph(g *graph.RenderGraph) {
	s.mu.Lock()
	s.graphCache = g
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Graph returns the cached render graph, or nil.
func (s *Store) Graph() *graph.RenderGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphCache
}

// RefreshGraph fetches and adapts the graph for the current selection.
//
// The selection generation is captured at fetch start and checked at
// completion: a result that arrives after the selection has moved on is
// discarded and ErrStaleSelection is returned. A late response can therefore
// never overwrite a newer selection's state.
func (s *Store) RefreshGraph(ctx context.Context) error {
	s.mu.RLock()
	gen := s.generation
	var file string
	if s.selected != nil {
		file = s.selected.SummaryFilename
	}
	s.mu.RUnlock()

	if file == "" {
		return nil // nothing selected, nothing to fetch
	}

	payload, err := s.backend.FileGraph(ctx, file)
	if err != nil {
		return err
	}
	rendered := graph.Adapt(*payload)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.logger.Debug("stale graph response discarded",
			zap.String("file", file), zap.Uint64("generation", gen))
		return ErrStaleSelection
	}
	s.graphCache = &rendered
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// =============================================================================
// DOCUMENT LIST
// =============================================================================

var queryFolder = cases.Fold()

// NormalizeQuery folds case and normalizes unicode so backend title matching
// behaves the same regardless of how the query was typed.
func NormalizeQuery(q string) string {
	return queryFolder.String(norm.NFC.String(strings.TrimSpace(q)))
}

// LoadDocuments fetches the document list. An empty query lists everything.
// Search-triggered calls (throttle=true) are subject to the client-side rate
// limit and return ErrThrottled when dropped, leaving the current list as is.
// Each call supersedes the last: a slow response for an older query returns
// ErrStaleQuery instead of clobbering the list a newer query produced.
func (s *Store) LoadDocuments(ctx context.Context, query api.ListDocumentsQuery, throttle bool) ([]api.Document, error) {
	if throttle && !s.searchLimiter.Allow() {
		return nil, ErrThrottled
	}
	query.Q = NormalizeQuery(query.Q)

	s.mu.Lock()
	s.listSeq++
	seq := s.listSeq
	s.mu.Unlock()

	docs, err := s.backend.ListDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if seq != s.listSeq {
		s.mu.Unlock()
		return nil, ErrStaleQuery
	}
	s.documents = docs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return docs, nil
}

// Documents returns the last loaded document list.
func (s *Store) Documents() []api.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Messages returns the current transcript.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conv.Messages
}

// Pending reports whether a QA request is in flight.
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conv.Pending
}

// LastError returns the transient error from the most recent failed send.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conv.LastError
}

// ClearConversation resets the transcript and clears any pending error.
// The pending flag is left alone: an in-flight request resolves into the
// fresh conversation as usual.
func (s *Store) ClearConversation() {
	s.mu.Lock()
	pending := s.conv.Pending
	s.conv = NewConversation()
	s.conv.Pending = pending
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearLastError explicitly clears the transient error state.
func (s *Store) ClearLastError() {
	s.mu.Lock()
	s.conv.LastError = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// appendMessage is the only way messages enter the transcript. The slice is
// cloned so previously handed-out snapshots keep their view.
func (s *Store) appendMessageLocked(msg Message) {
	s.conv.Messages = append(slices.Clone(s.conv.Messages), msg)
}

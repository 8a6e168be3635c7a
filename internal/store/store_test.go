// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/graph"
)

var testGraph = graph.Adapt(api.GraphPayload{
	Nodes: []api.GraphNode{{ID: "seed"}},
})

// fakeBackend scripts responses and records requests. The hooks let tests
// interleave state changes with in-flight calls.
type fakeBackend struct {
	mu sync.Mutex

	askResp  *api.QAResponse
	askErr   error
	askHook  func(req api.QARequest)
	askCalls []api.QARequest

	graphResp *api.GraphPayload
	graphErr  error
	graphHook func(file string)

	docs     []api.Document
	docsErr  error
	docHook  func(query api.ListDocumentsQuery)
	docCalls []api.ListDocumentsQuery
}

func (f *fakeBackend) Ask(_ context.Context, req api.QARequest) (*api.QAResponse, error) {
	f.mu.Lock()
	f.askCalls = append(f.askCalls, req)
	hook := f.askHook
	resp, err := f.askResp, f.askErr
	f.mu.Unlock()
	if hook != nil {
		hook(req)
	}
	return resp, err
}

func (f *fakeBackend) FileGraph(_ context.Context, file string) (*api.GraphPayload, error) {
	f.mu.Lock()
	hook := f.graphHook
	resp, err := f.graphResp, f.graphErr
	f.mu.Unlock()
	if hook != nil {
		hook(file)
	}
	return resp, err
}

func (f *fakeBackend) ListDocuments(_ context.Context, query api.ListDocumentsQuery) ([]api.Document, error) {
	f.mu.Lock()
	f.docCalls = append(f.docCalls, query)
	hook := f.docHook
	docs, err := f.docs, f.docsErr
	f.mu.Unlock()
	if hook != nil {
		hook(query)
	}
	return docs, err
}

func testDoc(id string) api.Document {
	return api.Document{
		ID:              id,
		Title:           "Document " + id,
		PDFFilename:     id + ".pdf",
		SummaryFilename: "summary/" + id + ".md",
	}
}

func TestSetSelectedDocumentBumpsGenerationAndClearsGraph(t *testing.T) {
	s := New(&fakeBackend{})
	s.SetGraph(&testGraph)

	gen := s.SetSelectedDocument(testDoc("d1"))
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
	if s.Graph() != nil {
		t.Error("graph cache should be cleared on selection change")
	}
	if sel := s.Selected(); sel == nil || sel.ID != "d1" {
		t.Errorf("Selected = %+v", sel)
	}

	gen2 := s.SetSelectedDocument(testDoc("d2"))
	if gen2 != 2 {
		t.Errorf("generation = %d, want 2", gen2)
	}
}

func TestClearSelectedDocument(t *testing.T) {
	s := New(&fakeBackend{})
	s.SetSelectedDocument(testDoc("d1"))
	s.ClearSelectedDocument()

	if s.Selected() != nil {
		t.Error("selection should be nil after clear")
	}
	if s.Generation() != 2 {
		t.Errorf("generation = %d, want 2", s.Generation())
	}
}

func TestRefreshGraphPopulatesCache(t *testing.T) {
	backend := &fakeBackend{
		graphResp: &api.GraphPayload{
			Nodes: []api.GraphNode{{ID: "a", Label: "Alpha"}},
		},
	}
	s := New(backend)
	s.SetSelectedDocument(testDoc("d1"))

	if err := s.RefreshGraph(context.Background()); err != nil {
		t.Fatalf("RefreshGraph: %v", err)
	}
	g := s.Graph()
	if g == nil || len(g.Nodes) != 1 || g.Nodes[0].Name != "Alpha" {
		t.Errorf("Graph = %+v", g)
	}
}

func TestRefreshGraphWithoutSelectionIsNoop(t *testing.T) {
	backend := &fakeBackend{graphErr: errors.New("should not be called")}
	s := New(backend)

	if err := s.RefreshGraph(context.Background()); err != nil {
		t.Fatalf("RefreshGraph: %v", err)
	}
	if s.Graph() != nil {
		t.Error("graph should stay nil without a selection")
	}
}

func TestRefreshGraphDiscardsStaleResponse(t *testing.T) {
	backend := &fakeBackend{
		graphResp: &api.GraphPayload{Nodes: []api.GraphNode{{ID: "old"}}},
	}
	s := New(backend)
	s.SetSelectedDocument(testDoc("d1"))

	// The selection moves on while the fetch is in flight.
	backend.graphHook = func(string) {
		s.SetSelectedDocument(testDoc("d2"))
	}

	err := s.RefreshGraph(context.Background())
	if !errors.Is(err, ErrStaleSelection) {
		t.Fatalf("err = %v, want ErrStaleSelection", err)
	}
	// The stale payload never reached the cache; d2's selection cleared it.
	if s.Graph() != nil {
		t.Error("stale graph response must not populate the cache")
	}
}

func TestLoadDocumentsNormalizesQuery(t *testing.T) {
	backend := &fakeBackend{docs: []api.Document{testDoc("d1")}}
	s := New(backend)

	docs, err := s.LoadDocuments(context.Background(), api.ListDocumentsQuery{Q: "  PUMP  "}, false)
	if err != nil {
		t.Fatalf("LoadDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d", len(docs))
	}
	if got := backend.docCalls[0].Q; got != "pump" {
		t.Errorf("query sent = %q, want %q", got, "pump")
	}
	if got := s.Documents(); len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("Documents = %+v", got)
	}
}

func TestLoadDocumentsStaleQueryDiscarded(t *testing.T) {
	backend := &fakeBackend{docs: []api.Document{testDoc("old")}}
	s := New(backend)

	// While the first query is in flight, a newer one starts and finishes.
	// A plain guard rather than sync.Once: the hook re-enters itself through
	// the nested LoadDocuments call, and Once.Do is not reentrant.
	var nested bool
	backend.docHook = func(api.ListDocumentsQuery) {
		if nested {
			return
		}
		nested = true
		backend.mu.Lock()
		backend.docs = []api.Document{testDoc("new")}
		backend.mu.Unlock()
		if _, err := s.LoadDocuments(context.Background(), api.ListDocumentsQuery{Q: "newer"}, false); err != nil {
			t.Errorf("newer query: %v", err)
		}
	}

	_, err := s.LoadDocuments(context.Background(), api.ListDocumentsQuery{Q: "older"}, false)
	if !errors.Is(err, ErrStaleQuery) {
		t.Fatalf("superseded query err = %v, want ErrStaleQuery", err)
	}
	if got := s.Documents(); len(got) != 1 || got[0].ID != "new" {
		t.Errorf("list = %+v, want the newer query's result", got)
	}
}

func TestLoadDocumentsThrottle(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend)

	// Drain the limiter burst, then the next throttled call is dropped.
	var throttled bool
	for i := 0; i < 10; i++ {
		if _, err := s.LoadDocuments(context.Background(), api.ListDocumentsQuery{Q: "x"}, true); errors.Is(err, ErrThrottled) {
			throttled = true
			break
		}
	}
	if !throttled {
		t.Fatal("burst of throttled calls should eventually hit ErrThrottled")
	}

	// Non-throttled calls bypass the limiter entirely.
	if _, err := s.LoadDocuments(context.Background(), api.ListDocumentsQuery{}, false); err != nil {
		t.Errorf("unthrottled call failed: %v", err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  PUMP  ", "pump"},
		{"Ångström", "ångström"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubscribeSeesEveryMutation(t *testing.T) {
	s := New(&fakeBackend{})

	var snaps []Snapshot
	s.Subscribe(func(snap Snapshot) { snaps = append(snaps, snap) })

	s.SetSelectedDocument(testDoc("d1"))
	s.ClearSelectedDocument()

	if len(snaps) != 2 {
		t.Fatalf("notifications = %d, want 2", len(snaps))
	}
	if snaps[0].Selected == nil || snaps[0].Generation != 1 {
		t.Errorf("first snapshot = %+v", snaps[0])
	}
	if snaps[1].Selected != nil || snaps[1].Generation != 2 {
		t.Errorf("second snapshot = %+v", snaps[1])
	}
}

func TestSnapshotIsolation(t *testing.T) {
	backend := &fakeBackend{askResp: &api.QAResponse{Answer: "hi"}}
	s := New(backend)

	s.SendMessage(context.Background(), "first")
	before := s.Snapshot()
	s.SendMessage(context.Background(), "second")

	// The earlier snapshot's view is not extended by the later append.
	if len(before.Messages) != 2 {
		t.Errorf("earlier snapshot grew to %d messages", len(before.Messages))
	}
	if got := len(s.Messages()); got != 4 {
		t.Errorf("transcript = %d messages, want 4", got)
	}
}

func TestClearConversationPreservesPending(t *testing.T) {
	s := New(&fakeBackend{})

	s.mu.Lock()
	s.conv.Pending = true
	s.conv.LastError = "old error"
	s.mu.Unlock()

	s.ClearConversation()

	if !s.Pending() {
		t.Error("pending flag must survive a conversation clear")
	}
	if s.LastError() != "" {
		t.Error("last error should be cleared")
	}
	if len(s.Messages()) != 0 {
		t.Error("transcript should be empty")
	}
}

func TestClearLastError(t *testing.T) {
	backend := &fakeBackend{askErr: errors.New("boom")}
	s := New(backend)

	s.SendMessage(context.Background(), "q")
	if s.LastError() == "" {
		t.Fatal("expected a last error after a failed send")
	}
	s.ClearLastError()
	if s.LastError() != "" {
		t.Error("ClearLastError should reset the error")
	}
}

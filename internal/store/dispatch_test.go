// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jeranaias/pubsage-tui/internal/api"
)

func TestSendMessageHappyPath(t *testing.T) {
	backend := &fakeBackend{
		askResp: &api.QAResponse{
			Answer:  "  The pump feeds the boiler.  ",
			Sources: []api.QASource{{Filename: "manual.pdf"}},
		},
	}
	s := New(backend)

	outcome := s.SendMessage(context.Background(), "  what feeds the boiler?  ")
	if outcome != SendAnswered {
		t.Fatalf("outcome = %v, want SendAnswered", outcome)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("transcript = %d messages, want 2", len(msgs))
	}
	if !msgs[0].IsUser || msgs[0].Content != "what feeds the boiler?" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].IsUser || msgs[1].Content != "The pump feeds the boiler." {
		t.Errorf("assistant message = %+v", msgs[1])
	}
	if len(msgs[1].Sources) != 1 {
		t.Errorf("sources = %+v", msgs[1].Sources)
	}
	if msgs[0].ID != 1 || msgs[1].ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2", msgs[0].ID, msgs[1].ID)
	}
	if s.Pending() {
		t.Error("pending should be false after resolution")
	}
	if s.LastError() != "" {
		t.Errorf("LastError = %q, want empty", s.LastError())
	}
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend)

	if outcome := s.SendMessage(context.Background(), "   "); outcome != SendRejected {
		t.Errorf("outcome = %v, want SendRejected", outcome)
	}
	if len(s.Messages()) != 0 {
		t.Error("rejected send must not touch the transcript")
	}
	if len(backend.askCalls) != 0 {
		t.Error("rejected send must not reach the backend")
	}
}

func TestSendMessageRejectsWhilePending(t *testing.T) {
	backend := &fakeBackend{askResp: &api.QAResponse{Answer: "a"}}
	s := New(backend)

	var wg sync.WaitGroup
	var reentrant SendOutcome
	backend.askHook = func(api.QARequest) {
		// Re-entrant send while the first request is suspended in phase 2.
		reentrant = s.SendMessage(context.Background(), "second")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SendMessage(context.Background(), "first")
	}()
	wg.Wait()

	if reentrant != SendRejected {
		t.Errorf("re-entrant outcome = %v, want SendRejected", reentrant)
	}
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("transcript = %d messages, want 2 (rejected send is a no-op)", len(msgs))
	}
	if len(backend.askCalls) != 1 {
		t.Errorf("backend calls = %d, want 1", len(backend.askCalls))
	}
}

func TestSendMessageScopesRequestToSelection(t *testing.T) {
	backend := &fakeBackend{askResp: &api.QAResponse{Answer: "a"}}
	s := New(backend)

	s.SendMessage(context.Background(), "unscoped")
	s.SetSelectedDocument(testDoc("d1"))
	s.SendMessage(context.Background(), "scoped")

	if len(backend.askCalls) != 2 {
		t.Fatalf("backend calls = %d", len(backend.askCalls))
	}
	unscoped := backend.askCalls[0]
	if unscoped.DocID != "" || unscoped.SummaryFilename != "" {
		t.Errorf("unscoped request = %+v", unscoped)
	}
	scoped := backend.askCalls[1]
	if scoped.DocID != "d1" || scoped.SummaryFilename != "summary/d1.md" {
		t.Errorf("scoped request = %+v", scoped)
	}
}

func TestSendMessageEmptyAnswerGetsFallback(t *testing.T) {
	backend := &fakeBackend{askResp: &api.QAResponse{}}
	s := New(backend)

	if outcome := s.SendMessage(context.Background(), "q"); outcome != SendAnswered {
		t.Fatalf("outcome = %v", outcome)
	}
	msgs := s.Messages()
	if msgs[1].Content != FallbackAnswer {
		t.Errorf("assistant content = %q, want fallback", msgs[1].Content)
	}
}

func TestSendMessageFailureIsVisibleInline(t *testing.T) {
	backend := &fakeBackend{
		askErr: &api.APIError{Status: 500, Message: "LLM timeout"},
	}
	s := New(backend)

	outcome := s.SendMessage(context.Background(), "q")
	if outcome != SendFailed {
		t.Fatalf("outcome = %v, want SendFailed", outcome)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("transcript = %d messages, want 2 (user message is never rolled back)", len(msgs))
	}
	if msgs[1].Content != "Error: LLM timeout" {
		t.Errorf("assistant content = %q", msgs[1].Content)
	}
	if s.LastError() != "LLM timeout" {
		t.Errorf("LastError = %q, want %q", s.LastError(), "LLM timeout")
	}
	if s.Pending() {
		t.Error("pending should clear after a failure")
	}
}

func TestSendMessageNonAPIErrorUsesErrorText(t *testing.T) {
	backend := &fakeBackend{askErr: errors.New("dial tcp: connection refused")}
	s := New(backend)

	s.SendMessage(context.Background(), "q")
	if s.LastError() != "dial tcp: connection refused" {
		t.Errorf("LastError = %q", s.LastError())
	}
}

func TestSendMessageIDsStrictlyIncreaseAcrossOutcomes(t *testing.T) {
	backend := &fakeBackend{askResp: &api.QAResponse{Answer: "a"}}
	s := New(backend)

	s.SendMessage(context.Background(), "one")
	backend.mu.Lock()
	backend.askErr = errors.New("boom")
	backend.mu.Unlock()
	s.SendMessage(context.Background(), "two")
	backend.mu.Lock()
	backend.askErr = nil
	backend.mu.Unlock()
	s.SendMessage(context.Background(), "three")

	msgs := s.Messages()
	if len(msgs) != 6 {
		t.Fatalf("transcript = %d messages, want 6", len(msgs))
	}
	for i, msg := range msgs {
		if msg.ID != i+1 {
			t.Errorf("message %d has id %d, want %d", i, msg.ID, i+1)
		}
	}
}

func TestSendMessageSuccessClearsPreviousError(t *testing.T) {
	backend := &fakeBackend{askErr: errors.New("boom")}
	s := New(backend)

	s.SendMessage(context.Background(), "fails")
	if s.LastError() == "" {
		t.Fatal("expected an error recorded")
	}

	backend.mu.Lock()
	backend.askErr = nil
	backend.askResp = &api.QAResponse{Answer: "recovered"}
	backend.mu.Unlock()

	s.SendMessage(context.Background(), "works")
	if s.LastError() != "" {
		t.Errorf("LastError = %q, want empty after a successful send", s.LastError())
	}
}

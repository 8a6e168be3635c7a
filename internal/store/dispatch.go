// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/pubsage-tui/internal/api"
)

// FallbackAnswer is shown when the backend returns no usable answer field.
const FallbackAnswer = "I couldn't find an answer."

// SendOutcome reports how a SendMessage call resolved.
type SendOutcome int

const (
	// SendRejected means the guard refused the call: empty text or a
	// request already in flight. State is unchanged.
	SendRejected SendOutcome = iota

	// SendAnswered means the backend produced an answer (possibly the
	// fallback string).
	SendAnswered

	// SendFailed means the request failed; the failure is visible inline
	// in the transcript and recorded as the transient last error.
	SendFailed
)

// SendMessage drives the chat dispatch pipeline for one message.
//
// The user's message is appended and the conversation transitions to
// Pending before any network activity — the optimistic append is never
// rolled back. Exactly one request may be in flight at a time; re-entrant
// calls while Pending are rejected, which keeps ids strictly increasing and
// transcript order equal to send order.
//
// SendMessage blocks until resolution. Callers that must not block (the
// TUI) run it inside a command goroutine.
func (s *Store) SendMessage(ctx context.Context, text string) SendOutcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return SendRejected
	}

	// Phase 1: guard and optimistic append, atomically.
	s.mu.Lock()
	if s.conv.Pending {
		s.mu.Unlock()
		return SendRejected
	}
	userID := s.conv.nextID()
	s.appendMessageLocked(Message{
		ID:        userID,
		Content:   text,
		IsUser:    true,
		Timestamp: displayTime(s.now()),
	})
	s.conv.Pending = true

	req := api.QARequest{Question: text}
	if s.selected != nil {
		// Side channel: ground the question in the selected document.
		req.DocID = s.selected.ID
		req.SummaryFilename = s.selected.SummaryFilename
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	// Phase 2: the only suspension point in the pipeline.
	resp, err := s.backend.Ask(ctx, req)

	// Phase 3: merge or convert to a visible failure.
	s.mu.Lock()
	outcome := SendAnswered
	assistant := Message{
		ID:        userID + 1,
		IsUser:    false,
		Timestamp: displayTime(s.now()),
	}
	if err != nil {
		msg := failureMessage(err)
		assistant.Content = "Error: " + msg
		s.conv.LastError = msg
		outcome = SendFailed
		s.logger.Warn("qa request failed",
			zap.String("conversation", s.conv.ID), zap.String("error", msg))
	} else {
		answer := strings.TrimSpace(resp.Answer)
		if answer == "" {
			answer = FallbackAnswer
		}
		assistant.Content = answer
		assistant.Sources = resp.Sources
		s.conv.LastError = ""
	}
	s.appendMessageLocked(assistant)
	s.conv.Pending = false
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	return outcome
}

// failureMessage extracts the human-readable part of a send failure: the
// normalized backend message when there is one, the plain error text
// otherwise.
func failureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/pubsage-tui/internal/api"
)

// TimestampLayout formats message timestamps for display. The string is
// opaque to the rest of the system; ordering comes from message ids.
const TimestampLayout = "15:04:05"

// Message is one transcript entry. IDs are monotonic integers, strictly
// increasing in append order, never reused or reassigned.
type Message struct {
	ID        int
	Content   string
	IsUser    bool
	Timestamp string

	// Sources carries the retrieval hits behind an assistant answer.
	Sources []api.QASource
}

// Conversation is the append-only message sequence plus its transient
// dispatch flags.
type Conversation struct {
	// ID identifies the conversation for logging; it has no ordering role.
	ID string

	Messages []Message

	// Pending is true while exactly one QA request is in flight.
	Pending bool

	// LastError is the message of the most recent failed send, cleared on
	// the next successful send or an explicit clear.
	LastError string
}

// NewConversation creates an empty conversation.
func NewConversation() Conversation {
	return Conversation{ID: uuid.NewString()}
}

// nextID returns the id for the next appended message: lastID+1, starting
// from 1 when the transcript is empty.
func (c Conversation) nextID() int {
	if len(c.Messages) == 0 {
		return 1
	}
	return c.Messages[len(c.Messages)-1].ID + 1
}

// displayTime renders a wall-clock timestamp for a new message.
func displayTime(t time.Time) string {
	return t.Format(TimestampLayout)
}

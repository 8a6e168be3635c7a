// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"
	"time"
)

func TestNextID(t *testing.T) {
	c := NewConversation()
	if got := c.nextID(); got != 1 {
		t.Errorf("nextID on empty = %d, want 1", got)
	}

	c.Messages = []Message{{ID: 1}, {ID: 2}}
	if got := c.nextID(); got != 3 {
		t.Errorf("nextID = %d, want 3", got)
	}

	// Ids continue from the last message even after gaps.
	c.Messages = []Message{{ID: 7}}
	if got := c.nextID(); got != 8 {
		t.Errorf("nextID = %d, want 8", got)
	}
}

func TestNewConversationHasUniqueID(t *testing.T) {
	a := NewConversation()
	b := NewConversation()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("conversation ids = %q, %q", a.ID, b.ID)
	}
}

func TestDisplayTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 5, 30, 0, time.UTC)
	if got := displayTime(at); got != "09:05:30" {
		t.Errorf("displayTime = %q", got)
	}
}

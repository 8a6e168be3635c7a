// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the pubsage TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/pubsage-tui/internal/store"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

// Transcript renders the conversation for the chat viewport.
type Transcript struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewTranscript creates a transcript renderer. Markdown rendering of
// assistant answers degrades to plain text if glamour fails to initialize.
func NewTranscript(glamourStyle string, width int) *Transcript {
	t := &Transcript{width: width}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		t.renderer = r
	}
	return t
}

// Render produces the full transcript text.
func (t *Transcript) Render(messages []store.Message, pending bool) string {
	if len(messages) == 0 && !pending {
		return styles.DimText.Render("Ask a question about the selected document, or press tab to browse.")
	}

	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(t.renderMessage(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Transcript) renderMessage(msg store.Message) string {
	var sb strings.Builder

	header := styles.AssistantMessage.Render("pubsage")
	if msg.IsUser {
		header = styles.UserMessage.Render("you")
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", header, styles.DimText.Render(msg.Timestamp)))

	content := msg.Content
	if !msg.IsUser && t.renderer != nil && !strings.HasPrefix(content, "Error: ") {
		if rendered, err := t.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	if strings.HasPrefix(content, "Error: ") {
		content = styles.ErrorText.Render(content)
	}
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}

	if len(msg.Sources) > 0 {
		sb.WriteString(t.renderSources(msg))
	}
	return sb.String()
}

// renderSources lists the retrieval hits behind an answer.
func (t *Transcript) renderSources(msg store.Message) string {
	var sb strings.Builder
	sb.WriteString(styles.DimText.Render("sources:"))
	sb.WriteString("\n")
	for _, src := range msg.Sources {
		line := "  • " + src.Filename
		if src.PageIdx != nil {
			line += fmt.Sprintf(" p.%d", *src.PageIdx)
		}
		if src.Score > 0 {
			line += fmt.Sprintf(" (%.2f)", src.Score)
		}
		if src.Preview != "" {
			line += " — " + util.FirstLine(src.Preview)
		}
		sb.WriteString(styles.DimText.Render(util.TruncateWidth(line, t.width)))
		sb.WriteString("\n")
	}
	return sb.String()
}

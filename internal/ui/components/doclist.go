// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

// DocList renders the document list pane with a cursor and scrolling window.
func DocList(docs []api.Document, cursor, selectedIdx, width, height int) string {
	if len(docs) == 0 {
		return styles.DimText.Render("No documents. Press / to search, r to reload.")
	}

	// Keep the cursor inside the visible window.
	top := 0
	if cursor >= height {
		top = cursor - height + 1
	}
	end := top + height
	if end > len(docs) {
		end = len(docs)
	}

	var sb strings.Builder
	for i := top; i < end; i++ {
		doc := docs[i]
		marker := "  "
		if i == selectedIdx {
			marker = "* "
		}
		line := fmt.Sprintf("%s%s", marker, doc.Title)
		line = util.TruncateWidth(line, width-2)
		switch {
		case i == cursor:
			sb.WriteString(styles.SelectedRow.Render("> " + line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(styles.DimText.Render(fmt.Sprintf("%d/%d", cursor+1, len(docs))))
	return sb.String()
}

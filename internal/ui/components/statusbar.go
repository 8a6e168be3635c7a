// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

// StatusInfo is everything the status bar displays.
type StatusInfo struct {
	BackendOK    bool
	BackendKnown bool // false until the first health probe resolves
	Documents    int
	SelectedDoc  string
	Pending      bool
	LastError    string
}

// StatusBar renders the bottom status line.
func StatusBar(info StatusInfo, width int) string {
	var parts []string

	switch {
	case !info.BackendKnown:
		parts = append(parts, styles.DimText.Render("● connecting"))
	case info.BackendOK:
		label := "● online"
		if info.Documents > 0 {
			label = fmt.Sprintf("● online (%d docs)", info.Documents)
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Emerald).Render(label))
	default:
		parts = append(parts, styles.ErrorText.Render("● offline"))
	}

	if info.SelectedDoc != "" {
		parts = append(parts, styles.DimText.Render(util.TruncateWidth(info.SelectedDoc, width/3)))
	}
	if info.Pending {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Amber).Render("asking…"))
	}
	if info.LastError != "" {
		parts = append(parts, styles.ErrorText.Render(util.TruncateWidth(info.LastError, width/3)))
	}

	return styles.StatusBar.Width(width).Render(strings.Join(parts, "  "))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	sourceStyle = lipgloss.NewStyle().
			Foreground(styles.TextDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the pubsage TUI.
// Colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLORS
// =============================================================================

// Cyan - brand color, selections, user-authored content
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Purple - assistant messages, accents
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Emerald - success, healthy backend
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings, pending state
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Text - primary text
var Text = lipgloss.AdaptiveColor{Light: "#18181B", Dark: "#E4E4E7"}

// TextDim - secondary text, timestamps, metadata
var TextDim = lipgloss.AdaptiveColor{Light: "#71717A", Dark: "#A1A1AA"}

// Overlay - borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TabActive styles the selected tab label.
	TabActive = lipgloss.NewStyle().Bold(true).Foreground(Cyan).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Cyan).Padding(0, 1)

	// TabInactive styles unselected tab labels.
	TabInactive = lipgloss.NewStyle().Foreground(TextDim).Padding(0, 1)

	// UserMessage styles user transcript entries.
	UserMessage = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// AssistantMessage styles assistant transcript entries.
	AssistantMessage = lipgloss.NewStyle().Foreground(Purple)

	// ErrorText styles inline errors.
	ErrorText = lipgloss.NewStyle().Foreground(Rose)

	// DimText styles timestamps and metadata.
	DimText = lipgloss.NewStyle().Foreground(TextDim)

	// SelectedRow styles the highlighted list row.
	SelectedRow = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// StatusBar styles the bottom status line.
	StatusBar = lipgloss.NewStyle().Foreground(TextDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(Overlay)

	// PaneBorder frames content panes.
	PaneBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).Padding(0, 1)
)

// ApplyTheme forces the color profile for explicit "dark"/"light" themes;
// "auto" leaves detection to termenv.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// GlamourStyle returns the glamour style name matching the theme.
func GlamourStyle(theme string) string {
	switch theme {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		return "auto"
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/config"
)

func TestColorProfileRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "")

	if ColorsEnabled() {
		t.Fatal("ColorsEnabled() = true with NO_COLOR set")
	}
	if got := GetColorProfile(); got != termenv.Ascii {
		t.Fatalf("GetColorProfile() = %v, want Ascii", got)
	}
}

func TestGetTerminalWidthFallsBack(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	if got := GetTerminalWidth(); got != DefaultTerminalWidth {
		t.Fatalf("GetTerminalWidth() = %d, want %d", got, DefaultTerminalWidth)
	}
}

func TestRunDispatch(t *testing.T) {
	deps := Deps{
		Config: config.Default(),
		Client: api.NewClient("http://localhost:1", ""),
		Logger: zap.NewNop(),
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command prints usage", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"help", []string{"help"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Run(deps, tt.args); got != tt.want {
				t.Fatalf("Run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

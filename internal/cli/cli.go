// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command dispatch for the pubsage CLI.
//
// Commands:
//   ask     Ask a single question and print the answer
//   chat    Interactive question/answer session
//   docs    List indexed documents
//   auth    Store the backend API token
//   status  Probe backend health
//
// Running with no command starts the TUI (handled by the caller).

package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/config"
)

// Deps carries the shared wiring every subcommand needs.
type Deps struct {
	Config *config.Config
	Client *api.Client
	Logger *zap.Logger
}

// Run dispatches a CLI subcommand. args excludes the program name and
// the command word itself is args[0].
func Run(deps Deps, args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	// Piped output and NO_COLOR get plain text; the styles degrade to
	// pass-through under the Ascii profile.
	lipgloss.SetColorProfile(GetColorProfile())

	var err error
	switch args[0] {
	case "ask":
		err = runAsk(deps, args[1:])
	case "chat":
		err = runChat(deps, args[1:])
	case "docs":
		err = runDocs(deps, args[1:])
	case "auth":
		err = runAuth(deps, args[1:])
	case "status":
		err = runStatus(deps)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "pubsage: unknown command %q\n\n", args[0])
		printUsage()
		return 2
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		deps.Logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Print(`pubsage - terminal client for the publications QA backend

Usage:
  pubsage                 Start the TUI
  pubsage ask [flags] Q   Ask a single question
  pubsage chat            Interactive session with history
  pubsage docs [query]    List indexed documents
  pubsage auth            Store the backend API token
  pubsage status          Probe backend health
  pubsage version         Print version

Ask flags:
  --doc ID    Scope the question to one document
  --json      Print the raw response as JSON
  --quiet     Suppress source listing
`)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - API token management for the pubsage CLI.
//
// "pubsage auth" prompts for a bearer token without echoing it and saves
// it to the config file with owner-only permissions. "pubsage auth --clear"
// removes a stored token.

package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/pubsage-tui/internal/config"
)

func runAuth(deps Deps, args []string) error {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	clear := fs.Bool("clear", false, "remove the stored token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *clear {
		deps.Config.Auth.Token = ""
		if err := config.Save(deps.Config); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println(labelStyle.Render("token removed"))
		return nil
	}

	token, err := readToken()
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("empty token; nothing saved")
	}

	deps.Config.Auth.Token = token
	if err := config.Save(deps.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	deps.Client.SetToken(token)

	path, _ := config.Path()
	fmt.Println(valueStyle.Render("token saved") + labelStyle.Render(" → "+path))
	return nil
}

// readToken reads the token without echo when stdin is a TTY, and falls
// back to a plain line read otherwise (for piped input).
func readToken() (string, error) {
	if IsTTY() {
		fmt.Print("API token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

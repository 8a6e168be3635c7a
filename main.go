// pubsage TUI - A terminal client for the publications QA backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/blob"
	"github.com/jeranaias/pubsage-tui/internal/cli"
	"github.com/jeranaias/pubsage-tui/internal/config"
	"github.com/jeranaias/pubsage-tui/internal/logging"
	"github.com/jeranaias/pubsage-tui/internal/store"
	"github.com/jeranaias/pubsage-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "version" || args[0] == "--version") {
		fmt.Printf("pubsage %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if dir, err := config.Dir(); err == nil {
			logPath = logging.DefaultPath(dir)
		}
	}
	logger, err := logging.New(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := api.NewClient(cfg.Server.BaseURL, cfg.Auth.Token).
		WithLogger(logger).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)

	if len(args) > 0 {
		os.Exit(cli.Run(cli.Deps{Config: cfg, Client: client, Logger: logger}, args))
	}

	if err := runTUI(cfg, client, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config, client *api.Client, logger *zap.Logger) error {
	st := store.New(client).WithLogger(logger)

	blobs, err := blob.NewManager(client, "")
	if err != nil {
		return fmt.Errorf("blob spool: %w", err)
	}
	defer blobs.CloseAll()

	a := app.New(app.Options{
		Config: cfg,
		Client: client,
		Store:  st,
		Blobs:  blobs,
		Logger: logger,
	})

	p := tea.NewProgram(a, tea.WithAltScreen())

	// Hot reload: config edits on disk reach the running UI as a message.
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	watcher, err := config.NewWatcher(cfgPath,
		func(next *config.Config) { p.Send(app.ConfigReloadedMsg{Cfg: next}) },
		func(err error) { logger.Warn("config reload failed", zap.Error(err)) },
	)
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		if err := watcher.Watch(); err != nil {
			logger.Warn("config watch failed", zap.Error(err))
		}
		defer watcher.Close()
	}

	_, err = p.Run()
	return err
}

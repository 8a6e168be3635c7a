// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend health probe for the pubsage CLI.

package cli

import (
	"context"
	"fmt"
	"time"
)

const statusTimeout = 5 * time.Second

func runStatus(deps Deps) error {
	ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()

	start := time.Now()
	health, err := deps.Client.CheckHealth(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	fmt.Println(headingStyle.Render("pubsage status"))
	fmt.Printf("%s %s\n", labelStyle.Render("backend:"), valueStyle.Render(deps.Config.Server.BaseURL))
	if err != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("health:"), errorStyle.Render("unreachable: "+err.Error()))
		return fmt.Errorf("backend unreachable")
	}

	status := health.Status
	if status == "" {
		status = "unknown"
	}
	fmt.Printf("%s %s %s\n", labelStyle.Render("health:"), valueStyle.Render(status), labelStyle.Render("("+elapsed.String()+")"))
	fmt.Printf("%s %s\n", labelStyle.Render("documents:"), valueStyle.Render(fmt.Sprintf("%d", health.Documents)))

	// Graph stats are best-effort; older backends lack /kg/stats.
	if stats, err := deps.Client.GraphStats(ctx); err == nil {
		fmt.Printf("%s %s\n", labelStyle.Render("graph:"),
			valueStyle.Render(fmt.Sprintf("%d nodes, %d edges", stats.Nodes, stats.Edges)))
	}
	return nil
}

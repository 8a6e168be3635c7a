// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs_cmd.go - Document listing command for the pubsage CLI.

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

const docsTimeout = 15 * time.Second

func runDocs(deps Deps, args []string) error {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print documents as JSON")
	limit := fs.Int("limit", 100, "maximum documents to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))

	ctx, cancel := context.WithTimeout(context.Background(), docsTimeout)
	defer cancel()

	docs, err := deps.Client.ListDocuments(ctx, api.ListDocumentsQuery{Q: query, Limit: *limit})
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println(labelStyle.Render("no documents"))
		return nil
	}
	width := GetTerminalWidth()
	for _, d := range docs {
		title := util.TruncateWidth(d.Title, width-30)
		fmt.Printf("%s  %s\n", valueStyle.Render(d.ID), title)
	}
	fmt.Println(labelStyle.Render(fmt.Sprintf("%d document(s)", len(docs))))
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command for the pubsage CLI.
//
// Sends one question to the QA backend and prints the answer. Markdown is
// rendered only when stdout is a TTY so piped output stays plain.
//
// Examples:
//   pubsage ask "What does chapter 3 cover?"
//   pubsage ask --doc 1a2b3c "Summarize the safety procedures"
//   pubsage ask --json "List the referenced standards" | jq .

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/pubsage-tui/internal/api"
)

const askTimeout = 2 * time.Minute

// markdownRenderer renders answers for terminal display. Nil when
// initialization fails; callers fall back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	markdownRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(DefaultTerminalWidth),
	)
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func displayAnswer(answer string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(answer))
	} else {
		fmt.Println(answer)
	}
}

func runAsk(deps Deps, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	docID := fs.String("doc", "", "scope the question to one document")
	asJSON := fs.Bool("json", false, "print the raw response as JSON")
	quiet := fs.Bool("quiet", false, "suppress source listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("usage: pubsage ask [--doc ID] \"question\"")
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	req := api.QARequest{Question: question}
	if *docID != "" {
		doc, err := deps.Client.GetDocument(ctx, *docID)
		if err != nil {
			return fmt.Errorf("resolve document %s: %w", *docID, err)
		}
		req.DocID = doc.ID
		req.SummaryFilename = doc.SummaryFilename
	}

	resp, err := deps.Client.Ask(ctx, req)
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	answer := strings.TrimSpace(resp.Answer)
	if answer == "" {
		answer = "No answer available."
	}
	displayAnswer(answer)

	if !*quiet && len(resp.Sources) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("Sources"))
		for _, src := range resp.Sources {
			fmt.Println(sourceStyle.Render("  " + formatSource(src)))
		}
	}
	return nil
}

func formatSource(src api.QASource) string {
	var parts []string
	if src.Filename != "" {
		parts = append(parts, src.Filename)
	}
	if src.PageIdx != nil {
		parts = append(parts, fmt.Sprintf("p.%d", *src.PageIdx+1))
	}
	if src.Score != 0 {
		parts = append(parts, fmt.Sprintf("score %.2f", src.Score))
	}
	if len(parts) == 0 {
		return "(unattributed)"
	}
	return strings.Join(parts, " · ")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive question/answer session for the pubsage CLI.
//
// A line-oriented REPL with persistent input history. Questions go through
// the same dispatch pipeline as the TUI, so conversation state, pending
// serialization and error normalization behave identically.
//
// Session commands:
//   /docs [query]   List documents (optionally filtered)
//   /use ID         Scope subsequent questions to a document
//   /unuse          Drop the document scope
//   /clear          Clear the conversation
//   /quit           Exit

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/config"
	"github.com/jeranaias/pubsage-tui/internal/store"
)

// ChatCLI wraps liner with history persistence under the config dir.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history loaded from disk.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

func runChat(deps Deps, args []string) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	st := store.New(deps.Client).WithLogger(deps.Logger)
	repl := NewChatCLI()
	defer repl.Close()

	fmt.Println(headingStyle.Render("pubsage chat") + labelStyle.Render("  (/docs, /use ID, /clear, /quit)"))

	for {
		input, err := repl.ReadInput("> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			// io.EOF on ctrl+d ends the session.
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := chatCommand(st, deps, input); quit {
				return nil
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		outcome := st.SendMessage(ctx, input)
		cancel()

		switch outcome {
		case store.SendRejected:
			continue
		case store.SendFailed:
			fmt.Println(errorStyle.Render("error: " + st.LastError()))
		default:
			msgs := st.Messages()
			last := msgs[len(msgs)-1]
			displayAnswer(last.Content)
			for _, src := range last.Sources {
				fmt.Println(sourceStyle.Render("  " + formatSource(src)))
			}
		}
	}
}

// chatCommand handles a /-prefixed session command; returns true to exit.
func chatCommand(st *store.Store, deps Deps, input string) bool {
	cmd, rest, _ := strings.Cut(input[1:], " ")
	rest = strings.TrimSpace(rest)

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "clear":
		st.ClearConversation()
		fmt.Println(labelStyle.Render("conversation cleared"))
	case "docs":
		docs, err := st.LoadDocuments(ctx, api.ListDocumentsQuery{Q: rest, Limit: 50}, false)
		if err != nil {
			fmt.Println(errorStyle.Render("error: " + err.Error()))
			return false
		}
		printDocList(docs, st.Selected())
	case "use":
		if rest == "" {
			fmt.Println(errorStyle.Render("usage: /use ID"))
			return false
		}
		doc, err := deps.Client.GetDocument(ctx, rest)
		if err != nil {
			fmt.Println(errorStyle.Render("error: " + err.Error()))
			return false
		}
		st.SetSelectedDocument(*doc)
		fmt.Println(labelStyle.Render("scoped to ") + valueStyle.Render(doc.Title))
	case "unuse":
		st.ClearSelectedDocument()
		fmt.Println(labelStyle.Render("document scope dropped"))
	default:
		fmt.Println(errorStyle.Render("unknown command: /" + cmd))
	}
	return false
}

func printDocList(docs []api.Document, selected *api.Document) {
	if len(docs) == 0 {
		fmt.Println(labelStyle.Render("no documents"))
		return
	}
	for _, d := range docs {
		marker := "  "
		if selected != nil && selected.ID == d.ID {
			marker = "* "
		}
		fmt.Printf("%s%s  %s\n", marker, valueStyle.Render(d.ID), d.Title)
	}
}

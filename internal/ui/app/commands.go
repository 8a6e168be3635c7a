// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/blob"
	"github.com/jeranaias/pubsage-tui/internal/store"
)

// Timeouts for command-scoped contexts. QA answers can take a while; list
// and graph fetches should not.
const (
	listTimeout     = 15 * time.Second
	askTimeout      = 120 * time.Second
	prefetchTimeout = 60 * time.Second
)

// loadDocumentsCmd fetches the document list through the store.
func loadDocumentsCmd(st *store.Store, query api.ListDocumentsQuery, throttle bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		docs, err := st.LoadDocuments(ctx, query, throttle)
		if errors.Is(err, store.ErrThrottled) || errors.Is(err, store.ErrStaleQuery) {
			// Dropped by the search rate limit or superseded by a newer
			// query; keep the current list.
			return nil
		}
		return DocumentsLoadedMsg{Docs: docs, Err: err}
	}
}

// sendMessageCmd drives one chat dispatch. The optimistic user append
// happens inside SendMessage before the network call; the spinner tick
// repaints the transcript while the request is in flight.
func sendMessageCmd(st *store.Store, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		return AnswerResolvedMsg{Outcome: st.SendMessage(ctx, text)}
	}
}

// prefetchCmd fetches the selected document's graph, summary, and content
// list concurrently. The graph result is applied by the store itself (with
// its own staleness check); summary and content list ride back in the
// message with the captured generation for the same check in Update.
func prefetchCmd(st *store.Store, client *api.Client, doc api.Document, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
		defer cancel()

		msg := PrefetchMsg{Generation: gen}
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if err := st.RefreshGraph(gctx); err != nil && !errors.Is(err, store.ErrStaleSelection) {
				msg.GraphErr = err
			}
			return nil
		})
		if doc.SummaryFilename != "" {
			g.Go(func() error {
				data, _, err := client.FetchFile(gctx, doc.SummaryFilename)
				if err != nil {
					msg.SummaryErr = err
					return nil
				}
				msg.Summary = string(data)
				return nil
			})
		}
		if doc.ContentListFilename != "" {
			g.Go(func() error {
				data, _, err := client.FetchFile(gctx, doc.ContentListFilename)
				if err != nil {
					msg.ContentErr = err
					return nil
				}
				msg.ContentList = data
				return nil
			})
		}
		g.Wait()
		return msg
	}
}

// loadTripletsCmd queries the selected document's extracted facts.
func loadTripletsCmd(client *api.Client, file string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		triplets, err := client.FileTriplets(ctx, file, api.TripletsQuery{Limit: 200})
		return TripletsLoadedMsg{Generation: gen, Triplets: triplets, Err: err}
	}
}

// loadNeighborsCmd queries the neighborhood of a graph node.
func loadNeighborsCmd(client *api.Client, file, node string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		ids, err := client.FileNeighbors(ctx, file, api.NeighborsQuery{Node: node, Depth: 1, Limit: 50})
		return NeighborsLoadedMsg{Generation: gen, Node: node, IDs: ids, Err: err}
	}
}

// openPDFCmd spools the selected document's PDF into the "pdf" display slot
// and hands the path to the system viewer. Superseded handles are released
// by the manager.
func openPDFCmd(blobs *blob.Manager, filename string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
		defer cancel()

		handle, err := blobs.Open(ctx, "pdf", filename)
		if err != nil {
			return PDFOpenedMsg{Err: err}
		}
		if err := openInViewer(handle.Path()); err != nil {
			return PDFOpenedMsg{Path: handle.Path(), Err: err}
		}
		return PDFOpenedMsg{Path: handle.Path()}
	}
}

// openInViewer hands a file to the platform's default opener.
func openInViewer(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}

// graphStatsCmd fetches corpus-wide knowledge graph totals.
func graphStatsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		stats, err := client.GraphStats(ctx)
		return GraphStatsMsg{Stats: stats, Err: err}
	}
}

// checkHealthCmd probes backend liveness.
func checkHealthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		health, err := client.CheckHealth(ctx)
		return HealthMsg{Health: health, Err: err}
	}
}

// expireStatusCmd clears the transient status notice after a few seconds.
func expireStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return StatusExpiredMsg{}
	})
}

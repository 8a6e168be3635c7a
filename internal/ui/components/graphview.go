// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/pubsage-tui/internal/api"
	"github.com/jeranaias/pubsage-tui/internal/graph"
	"github.com/jeranaias/pubsage-tui/internal/ui/styles"
	"github.com/jeranaias/pubsage-tui/internal/util"
)

// GraphView renders a knowledge graph as an adjacency listing. Edges whose
// endpoints do not resolve to known nodes are skipped here, at render time;
// the adapter deliberately keeps them in the structure.
func GraphView(g *graph.RenderGraph, width int) string {
	if g == nil {
		return styles.DimText.Render("No graph loaded. Select a document on the documents pane.")
	}
	if len(g.Nodes) == 0 {
		return styles.DimText.Render("The backend returned an empty graph for this document.")
	}

	renderable := g.Renderable()
	var sb strings.Builder
	sb.WriteString(styles.DimText.Render(fmt.Sprintf(
		"%d nodes, %d edges (%d renderable)\n\n",
		len(g.Nodes), len(g.Edges), len(renderable))))

	// Most-connected nodes first; stable order for equal degrees.
	nodes := make([]graph.RenderNode, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return g.Degree(nodes[i].ID) > g.Degree(nodes[j].ID)
	})

	for _, n := range nodes {
		name := styles.SelectedRow.Render(util.TruncateWidth(n.Name, width/2))
		sb.WriteString(fmt.Sprintf("%s %s\n", name,
			styles.DimText.Render(fmt.Sprintf("(%d)", g.Degree(n.ID)))))
		for _, e := range renderable {
			var line string
			switch {
			case e.Source == n.ID:
				line = fmt.Sprintf("  —%s→ %s", e.Label, displayName(g, e.Target))
			case e.Target == n.ID:
				line = fmt.Sprintf("  ←%s— %s", e.Label, displayName(g, e.Source))
			default:
				continue
			}
			sb.WriteString(util.TruncateWidth(line, width))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func displayName(g *graph.RenderGraph, id string) string {
	if n, ok := g.Node(id); ok {
		return n.Name
	}
	return id
}

// TripletRows renders a triplet listing.
func TripletRows(triplets []api.Triplet, width int) string {
	if len(triplets) == 0 {
		return styles.DimText.Render("No triplets.")
	}
	var sb strings.Builder
	for _, t := range triplets {
		sb.WriteString(util.TruncateWidth(
			fmt.Sprintf("%s — %s → %s", t.Subject, t.Predicate, t.Object), width))
		sb.WriteString("\n")
	}
	return sb.String()
}

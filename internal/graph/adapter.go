// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package graph converts backend node-link payloads into render-ready
// structures. It is the only place where the backend graph shape is
// reconciled with the display shape, so backend schema evolution is
// isolated to this one seam.
package graph

import (
	"fmt"

	"github.com/jeranaias/pubsage-tui/internal/api"
)

// RenderNode is a node prepared for display. Name is always non-empty.
type RenderNode struct {
	ID    string
	Name  string // label if present, else id
	Label string
	Group string
	Extra map[string]any
}

// RenderEdge is an edge prepared for display. Label is always non-empty.
// Source and Target are the raw payload ids; they may not resolve to a node
// in the same graph, and renderers must skip such edges rather than fail.
type RenderEdge struct {
	Source    string
	Target    string
	Label     string // predicate if present, else "source → target"
	Predicate string
	Weight    float64
	Extra     map[string]any
}

// RenderGraph is the adapter output. It is a derived, cache-only structure:
// never mutated in place, always rebuilt from a fresh payload.
type RenderGraph struct {
	Nodes []RenderNode
	Edges []RenderEdge

	index map[string]int // node id -> position in Nodes
}

// Adapt converts a backend payload into a RenderGraph.
//
// Referentially transparent: identical payloads produce structurally
// identical output. Edges with endpoints missing from the node set are
// retained; the leniency is deliberate because upstream graph extraction
// may be imperfect.
func Adapt(payload api.GraphPayload) RenderGraph {
	g := RenderGraph{
		Nodes: make([]RenderNode, 0, len(payload.Nodes)),
		Edges: make([]RenderEdge, 0, len(payload.Edges)),
		index: make(map[string]int, len(payload.Nodes)),
	}
	for _, n := range payload.Nodes {
		name := n.Label
		if name == "" {
			name = n.ID
		}
		g.index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, RenderNode{
			ID:    n.ID,
			Name:  name,
			Label: n.Label,
			Group: n.Group,
			Extra: copyExtra(n.Extra),
		})
	}
	for _, e := range payload.Edges {
		label := e.Predicate
		if label == "" {
			label = synthesizeLabel(e.Source, e.Target)
		}
		g.Edges = append(g.Edges, RenderEdge{
			Source:    e.Source,
			Target:    e.Target,
			Label:     label,
			Predicate: e.Predicate,
			Weight:    e.Weight,
			Extra:     copyExtra(e.Extra),
		})
	}
	return g
}

// synthesizeLabel builds a display label for an edge with no predicate.
func synthesizeLabel(source, target string) string {
	return fmt.Sprintf("%s → %s", source, target)
}

// copyExtra clones the pass-through attribute map so the render graph never
// aliases payload memory.
func copyExtra(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// HasNode reports whether id resolves to a node in this graph. Renderers
// use it to skip edges with dangling endpoints.
func (g RenderGraph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given id, if present.
func (g RenderGraph) Node(id string) (RenderNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return RenderNode{}, false
	}
	return g.Nodes[i], true
}

// Renderable returns the edges whose endpoints both resolve to known nodes.
func (g RenderGraph) Renderable() []RenderEdge {
	out := make([]RenderEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if g.HasNode(e.Source) && g.HasNode(e.Target) {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of renderable edges touching the node.
func (g RenderGraph) Degree(id string) int {
	count := 0
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			if g.HasNode(e.Source) && g.HasNode(e.Target) {
				count++
			}
		}
	}
	return count
}

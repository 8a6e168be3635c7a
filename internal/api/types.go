// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP gateway to the publications backend.
//
// Every network call in the application goes through this package. It
// normalizes JSON and binary responses into a uniform success/error
// contract; callers never see raw *http.Response values.
package api

import "encoding/json"

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document is one backend-managed publication with its derived artifacts.
// Immutable once received; the filenames are keys for later /files fetches.
type Document struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	PDFFilename         string `json:"pdf_filename,omitempty"`
	ContentListFilename string `json:"content_list_filename,omitempty"`
	SummaryFilename     string `json:"summary_filename,omitempty"`

	// Convenience URLs some backend versions attach. Preserved, unused.
	PDFURL         string `json:"pdf_url,omitempty"`
	ContentListURL string `json:"content_list_url,omitempty"`
	SummaryURL     string `json:"summary_url,omitempty"`
}

// =============================================================================
// QUESTION ANSWERING
// =============================================================================

// QARequest is the body of POST /qa. DocID and SummaryFilename are optional
// grounding context; when empty the keys are omitted from the wire body.
type QARequest struct {
	Question        string `json:"question"`
	DocID           string `json:"doc_id,omitempty"`
	SummaryFilename string `json:"summary_filename,omitempty"`
}

// QASource describes one retrieval hit that grounded an answer.
type QASource struct {
	Filename   string  `json:"filename,omitempty"`
	SourceType string  `json:"source_type,omitempty"`
	PageIdx    *int    `json:"page_idx,omitempty"`
	Score      float64 `json:"score,omitempty"`
	Preview    string  `json:"preview,omitempty"`
}

// QAResponse is the backend's answer. Answer may be empty; callers decide
// the fallback presentation.
type QAResponse struct {
	Answer  string     `json:"answer"`
	Sources []QASource `json:"sources,omitempty"`
}

// =============================================================================
// KNOWLEDGE GRAPH PAYLOAD
// =============================================================================

// GraphNode is a node as serialized by the backend. Unrecognized payload
// attributes are preserved in Extra so backend schema additions survive the
// round trip without a client release.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Group string `json:"group,omitempty"`

	Extra map[string]any `json:"-"`
}

// graphNodeKnown lists the JSON keys decoded into typed fields.
var graphNodeKnown = map[string]bool{"id": true, "label": true, "group": true}

// UnmarshalJSON splits known fields from pass-through attributes.
func (n *GraphNode) UnmarshalJSON(data []byte) error {
	type known struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Group string `json:"group"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	n.ID, n.Label, n.Group = k.ID, k.Label, k.Group
	n.Extra = nil
	for key, val := range all {
		if graphNodeKnown[key] {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]any)
		}
		n.Extra[key] = val
	}
	return nil
}

// MarshalJSON re-merges typed fields and pass-through attributes.
func (n GraphNode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+3)
	for k, v := range n.Extra {
		out[k] = v
	}
	out["id"] = n.ID
	if n.Label != "" {
		out["label"] = n.Label
	}
	if n.Group != "" {
		out["group"] = n.Group
	}
	return json.Marshal(out)
}

// GraphEdge is an edge as serialized by the backend. Source and Target
// reference node ids; referential integrity is not guaranteed upstream.
type GraphEdge struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Predicate string  `json:"predicate,omitempty"`
	Weight    float64 `json:"weight,omitempty"`

	Extra map[string]any `json:"-"`
}

var graphEdgeKnown = map[string]bool{
	"source": true, "target": true, "predicate": true, "weight": true,
}

// UnmarshalJSON splits known fields from pass-through attributes.
func (e *GraphEdge) UnmarshalJSON(data []byte) error {
	type known struct {
		Source    string  `json:"source"`
		Target    string  `json:"target"`
		Predicate string  `json:"predicate"`
		Weight    float64 `json:"weight"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	e.Source, e.Target, e.Predicate, e.Weight = k.Source, k.Target, k.Predicate, k.Weight
	e.Extra = nil
	for key, val := range all {
		if graphEdgeKnown[key] {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[key] = val
	}
	return nil
}

// MarshalJSON re-merges typed fields and pass-through attributes.
func (e GraphEdge) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+4)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["source"] = e.Source
	out["target"] = e.Target
	if e.Predicate != "" {
		out["predicate"] = e.Predicate
	}
	if e.Weight != 0 {
		out["weight"] = e.Weight
	}
	return json.Marshal(out)
}

// GraphPayload is the backend's node-link serialization of a graph.
type GraphPayload struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Triplet is a subject-predicate-object fact extracted from a document.
type Triplet struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate,omitempty"`
	Object    string `json:"object"`
}

// GraphStats summarizes the global knowledge graph.
type GraphStats struct {
	Nodes               int `json:"nodes"`
	Edges               int `json:"edges"`
	ConnectedComponents int `json:"connected_components,omitempty"`
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is the GET /health response.
type Health struct {
	Status    string `json:"status"`
	Documents int    `json:"documents,omitempty"`
}

// OK reports whether the backend considers itself healthy.
func (h Health) OK() bool {
	return h.Status == "ok"
}

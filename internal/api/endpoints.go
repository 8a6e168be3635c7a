// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// DOCUMENTS
// =============================================================================

// ListDocumentsQuery narrows and pages the document list.
type ListDocumentsQuery struct {
	Q     string // title substring filter
	Skip  int
	Limit int
}

// ListDocuments fetches the document list, optionally filtered and paged.
func (c *Client) ListDocuments(ctx context.Context, query ListDocumentsQuery) ([]Document, error) {
	params := map[string]string{"q": query.Q}
	if query.Skip > 0 {
		params["skip"] = strconv.Itoa(query.Skip)
	}
	if query.Limit > 0 {
		params["limit"] = strconv.Itoa(query.Limit)
	}
	var docs []Document
	if err := c.RequestJSON(ctx, http.MethodGet, "/documents", &RequestOptions{Params: params}, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: document id", ErrMissingArgument)
	}
	var doc Document
	if err := c.RequestJSON(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// =============================================================================
// FILES
// =============================================================================

// escapeFilePath escapes a backend-relative filename for use in a URL path.
// Filenames may contain directory components ("summary/a.md"); each segment
// is escaped separately so the separators survive.
func escapeFilePath(filename string) string {
	segments := strings.Split(filename, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// FetchFile downloads a backend file (PDF, summary markdown, content list
// JSON) as raw bytes plus the server-reported content type.
func (c *Client) FetchFile(ctx context.Context, filename string) ([]byte, string, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, "", fmt.Errorf("%w: filename", ErrMissingArgument)
	}
	return c.RequestBinary(ctx, "/files/"+escapeFilePath(filename), nil)
}

// =============================================================================
// QUESTION ANSWERING
// =============================================================================

// Ask sends a question to the QA engine. The doc id and summary filename in
// req are optional grounding; empty values are omitted from the body.
func (c *Client) Ask(ctx context.Context, req QARequest) (*QAResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question", ErrMissingArgument)
	}
	var resp QAResponse
	if err := c.RequestJSON(ctx, http.MethodPost, "/qa", &RequestOptions{Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// KNOWLEDGE GRAPH (PER-FILE)
// =============================================================================

// FileGraph fetches the node-link graph derived from one document's summary.
func (c *Client) FileGraph(ctx context.Context, file string) (*GraphPayload, error) {
	if strings.TrimSpace(file) == "" {
		return nil, fmt.Errorf("%w: file", ErrMissingArgument)
	}
	var payload GraphPayload
	opts := &RequestOptions{Params: map[string]string{"file": file}}
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/file/node-link", opts, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NeighborsQuery selects a node neighborhood.
type NeighborsQuery struct {
	Node      string
	Direction string // "in", "out", or "" for both
	Limit     int
	Depth     int
}

func (q NeighborsQuery) params() map[string]string {
	params := map[string]string{
		"node":      q.Node,
		"direction": q.Direction,
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Depth > 0 {
		params["depth"] = strconv.Itoa(q.Depth)
	}
	return params
}

// FileNeighbors lists node ids adjacent to a node in one document's graph.
func (c *Client) FileNeighbors(ctx context.Context, file string, query NeighborsQuery) ([]string, error) {
	if strings.TrimSpace(file) == "" {
		return nil, fmt.Errorf("%w: file", ErrMissingArgument)
	}
	if strings.TrimSpace(query.Node) == "" {
		return nil, fmt.Errorf("%w: node", ErrMissingArgument)
	}
	params := query.params()
	params["filename"] = file
	var ids []string
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/file/neighbors", &RequestOptions{Params: params}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// TripletsQuery filters subject/predicate/object facts. Empty fields match
// anything.
type TripletsQuery struct {
	Subject   string
	Predicate string
	Object    string
	Limit     int
}

func (q TripletsQuery) params() map[string]string {
	params := map[string]string{
		"subject":   q.Subject,
		"predicate": q.Predicate,
		"object":    q.Object,
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	return params
}

// FileTriplets queries extracted facts from one document's graph.
func (c *Client) FileTriplets(ctx context.Context, file string, query TripletsQuery) ([]Triplet, error) {
	if strings.TrimSpace(file) == "" {
		return nil, fmt.Errorf("%w: file", ErrMissingArgument)
	}
	params := query.params()
	params["filename"] = file
	var triplets []Triplet
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/file/triplets", &RequestOptions{Params: params}, &triplets); err != nil {
		return nil, err
	}
	return triplets, nil
}

// =============================================================================
// KNOWLEDGE GRAPH (GLOBAL)
// =============================================================================

// GlobalGraph fetches the node-link graph built over every document.
func (c *Client) GlobalGraph(ctx context.Context) (*GraphPayload, error) {
	var payload GraphPayload
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/node-link", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GlobalNeighbors lists node ids adjacent to a node in the global graph.
func (c *Client) GlobalNeighbors(ctx context.Context, query NeighborsQuery) ([]string, error) {
	if strings.TrimSpace(query.Node) == "" {
		return nil, fmt.Errorf("%w: node", ErrMissingArgument)
	}
	var ids []string
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/neighbors", &RequestOptions{Params: query.params()}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GlobalTriplets queries extracted facts across all documents.
func (c *Client) GlobalTriplets(ctx context.Context, query TripletsQuery) ([]Triplet, error) {
	var triplets []Triplet
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/triplets", &RequestOptions{Params: query.params()}, &triplets); err != nil {
		return nil, err
	}
	return triplets, nil
}

// GraphStats fetches global graph size statistics.
func (c *Client) GraphStats(ctx context.Context) (*GraphStats, error) {
	var stats GraphStats
	if err := c.RequestJSON(ctx, http.MethodGet, "/kg/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckHealth probes backend liveness.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.RequestJSON(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

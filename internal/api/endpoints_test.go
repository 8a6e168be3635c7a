// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDocumentsQueryParams(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"id":"d1","title":"Pump Manual"}]`))
	})

	docs, err := c.ListDocuments(context.Background(), ListDocumentsQuery{Q: "pump", Skip: 10, Limit: 50})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Pump Manual", docs[0].Title)
	assert.Equal(t, "pump", gotQuery.Get("q"))
	assert.Equal(t, "10", gotQuery.Get("skip"))
	assert.Equal(t, "50", gotQuery.Get("limit"))
}

func TestListDocumentsOmitsEmptyQuery(t *testing.T) {
	var gotRaw string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := c.ListDocuments(context.Background(), ListDocumentsQuery{})
	require.NoError(t, err)
	assert.Empty(t, gotRaw)
}

func TestGetDocumentValidatesID(t *testing.T) {
	c := NewClient("http://example.invalid", "")
	_, err := c.GetDocument(context.Background(), "  ")
	require.True(t, errors.Is(err, ErrMissingArgument))
}

func TestEscapeFilePathKeepsSeparators(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"manual.pdf", "manual.pdf"},
		{"summary/unit 3.md", "summary/unit%203.md"},
		{"a/b/c.json", "a/b/c.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeFilePath(tt.in))
	}
}

func TestFetchFilePathAndValidation(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte("# summary"))
	})

	body, contentType, err := c.FetchFile(context.Background(), "summary/unit 3.md")
	require.NoError(t, err)
	assert.Equal(t, "# summary", string(body))
	assert.Equal(t, "text/markdown", contentType)
	assert.Equal(t, "/files/summary/unit 3.md", gotPath)

	_, _, err = c.FetchFile(context.Background(), "")
	require.True(t, errors.Is(err, ErrMissingArgument))
}

func TestAskRequestBodyShape(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"answer":"42","sources":[{"filename":"manual.pdf","page_idx":3}]}`))
	})

	resp, err := c.Ask(context.Background(), QARequest{
		Question:        "what is the answer?",
		DocID:           "d1",
		SummaryFilename: "summary/d1.md",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Answer)
	require.Len(t, resp.Sources, 1)
	require.NotNil(t, resp.Sources[0].PageIdx)
	assert.Equal(t, 3, *resp.Sources[0].PageIdx)

	assert.Equal(t, "what is the answer?", gotBody["question"])
	assert.Equal(t, "d1", gotBody["doc_id"])
	assert.Equal(t, "summary/d1.md", gotBody["summary_filename"])
}

func TestAskOmitsOptionalFields(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})

	_, err := c.Ask(context.Background(), QARequest{Question: "q"})
	require.NoError(t, err)
	_, hasDoc := gotBody["doc_id"]
	_, hasSummary := gotBody["summary_filename"]
	assert.False(t, hasDoc)
	assert.False(t, hasSummary)
}

func TestAskValidatesQuestion(t *testing.T) {
	c := NewClient("http://example.invalid", "")
	_, err := c.Ask(context.Background(), QARequest{Question: "   "})
	require.True(t, errors.Is(err, ErrMissingArgument))
}

func TestFileGraphParams(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/kg/file/node-link", r.URL.Path)
		w.Write([]byte(`{"nodes":[{"id":"a"}],"edges":[]}`))
	})

	payload, err := c.FileGraph(context.Background(), "summary/d1.md")
	require.NoError(t, err)
	require.Len(t, payload.Nodes, 1)
	assert.Equal(t, "summary/d1.md", gotQuery.Get("file"))

	_, err = c.FileGraph(context.Background(), "")
	require.True(t, errors.Is(err, ErrMissingArgument))
}

func TestFileNeighborsParams(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/kg/file/neighbors", r.URL.Path)
		w.Write([]byte(`["b","c"]`))
	})

	ids, err := c.FileNeighbors(context.Background(), "summary/d1.md", NeighborsQuery{
		Node:  "a",
		Limit: 50,
		Depth: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)
	assert.Equal(t, "summary/d1.md", gotQuery.Get("filename"))
	assert.Equal(t, "a", gotQuery.Get("node"))
	assert.Equal(t, "50", gotQuery.Get("limit"))
	assert.Equal(t, "1", gotQuery.Get("depth"))
	assert.False(t, gotQuery.Has("direction"))

	_, err = c.FileNeighbors(context.Background(), "summary/d1.md", NeighborsQuery{})
	require.True(t, errors.Is(err, ErrMissingArgument))
}

func TestFileTripletsParams(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"subject":"pump","predicate":"feeds","object":"boiler"}]`))
	})

	triplets, err := c.FileTriplets(context.Background(), "summary/d1.md", TripletsQuery{
		Subject: "pump",
		Limit:   200,
	})
	require.NoError(t, err)
	require.Len(t, triplets, 1)
	assert.Equal(t, Triplet{Subject: "pump", Predicate: "feeds", Object: "boiler"}, triplets[0])
	assert.Equal(t, "pump", gotQuery.Get("subject"))
	assert.Equal(t, "200", gotQuery.Get("limit"))
	assert.False(t, gotQuery.Has("predicate"))
	assert.False(t, gotQuery.Has("object"))
}

func TestGlobalEndpoints(t *testing.T) {
	paths := map[string]string{
		"/kg/node-link": `{"nodes":[],"edges":[]}`,
		"/kg/neighbors": `["x"]`,
		"/kg/triplets":  `[]`,
		"/kg/stats":     `{"nodes":10,"edges":20}`,
		"/health":       `{"status":"ok","documents":3}`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, ok := paths[r.URL.Path]
		require.True(t, ok, "unexpected path %s", r.URL.Path)
		w.Write([]byte(body))
	})

	ctx := context.Background()

	_, err := c.GlobalGraph(ctx)
	require.NoError(t, err)

	ids, err := c.GlobalNeighbors(ctx, NeighborsQuery{Node: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)

	_, err = c.GlobalTriplets(ctx, TripletsQuery{})
	require.NoError(t, err)

	stats, err := c.GraphStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Nodes)

	health, err := c.CheckHealth(ctx)
	require.NoError(t, err)
	assert.True(t, health.OK())
}

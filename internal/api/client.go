// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where the publications backend listens by default.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the transport timeout for JSON requests. Binary
	// fetches (PDFs can be large) get a longer one.
	DefaultTimeout = 30 * time.Second

	// DefaultBinaryTimeout is the transport timeout for file fetches.
	DefaultBinaryTimeout = 2 * time.Minute

	// MaxResponseSize caps JSON response bodies to keep a misbehaving
	// backend from exhausting memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// MaxBinarySize caps file downloads.
	MaxBinarySize = 200 * 1024 * 1024 // 200MB
)

// sharedHTTPClient is used for all JSON requests. Connection pooling
// amortizes TCP handshakes across the many small calls the UI makes.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// sharedBinaryClient is used for file downloads.
var sharedBinaryClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultBinaryTimeout,
}

// RequestOptions carries the optional parts of a gateway request.
type RequestOptions struct {
	// Params become the query string. Keys with empty values are omitted.
	Params map[string]string

	// Body, when non-nil, is JSON-encoded into the request body.
	Body any

	// Headers are extra headers, applied after the standard ones.
	Headers map[string]string
}

// Client is the HTTP gateway to the publications backend.
//
// It is stateless apart from the externally supplied base URL and bearer
// token: no caching, no retries. Retries, if any, are the caller's problem.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	token   string

	httpClient   *http.Client
	binaryClient *http.Client
	logger       *zap.Logger
}

// NewClient creates a gateway client for the given base URL. An empty
// baseURL falls back to DefaultBaseURL. An empty token is not an error;
// requests are simply sent without an Authorization header.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        strings.TrimSpace(token),
		httpClient:   sharedHTTPClient,
		binaryClient: sharedBinaryClient,
		logger:       zap.NewNop(),
	}
}

// WithLogger sets the logger used for request/response lines.
// Auth headers and bodies are never logged.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithTimeout overrides the JSON request timeout. The pooled transport is
// shared; only the deadline changes. Zero or negative keeps the default,
// and the binary timeout is untouched since file fetches size differently.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d <= 0 || d == DefaultTimeout {
		return c
	}
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   d,
	}
	return c
}

// WithHTTPClient overrides the underlying transport. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.binaryClient = hc
	return c
}

// SetBaseURL replaces the base URL at runtime (config hot reload).
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// SetToken replaces the bearer token at runtime (config hot reload).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// HasToken reports whether a bearer token is configured.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// buildURL joins base + path and appends query parameters, omitting keys
// whose values are empty.
func (c *Client) buildURL(path string, params map[string]string) string {
	c.mu.RLock()
	base := c.baseURL
	c.mu.RUnlock()

	full := base + "/" + strings.TrimPrefix(path, "/")
	if len(params) == 0 {
		return full
	}
	q := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	if encoded := q.Encode(); encoded != "" {
		full += "?" + encoded
	}
	return full
}

// setHeaders applies the standard headers for a JSON request.
func (c *Client) setHeaders(req *http.Request, json bool) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if json {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", "pubsage/0.1.0")
}

// readBody reads a response body with a size limit.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == limit {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", limit)
	}
	return body, nil
}

// errorBody is the shape backends use for error payloads. FastAPI puts the
// message under "detail"; others use "message" or "error".
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// extractMessage pulls the best available human-readable message out of a
// failed response body, falling back to the status text.
func extractMessage(body []byte, statusText string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Detail != "":
			return eb.Detail
		case eb.Message != "":
			return eb.Message
		case eb.Error != "":
			return eb.Error
		}
	}
	// Non-JSON error bodies are still surfaced as usable strings.
	if text := strings.TrimSpace(string(body)); text != "" && !looksLikeJSON(text) {
		return text
	}
	if statusText != "" {
		return statusText
	}
	return "request failed"
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// Request performs a JSON API call and returns the raw response body.
// Most callers want RequestJSON instead.
func (c *Client) Request(ctx context.Context, method, path string, opts *RequestOptions) ([]byte, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	requestURL := c.buildURL(path, opts.Params)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, true)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp, MaxResponseSize)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(body, resp.Status),
		}
	}
	return body, nil
}

// RequestJSON performs a JSON API call and decodes the response into out.
// A nil out discards the body.
func (c *Client) RequestJSON(ctx context.Context, method, path string, opts *RequestOptions, out any) error {
	body, err := c.Request(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RequestBinary fetches a raw file. It returns the bytes and the
// server-reported content type. No Content-Type request header is sent,
// but auth is still attached when configured.
func (c *Client) RequestBinary(ctx context.Context, path string, params map[string]string) ([]byte, string, error) {
	requestURL := c.buildURL(path, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, false)

	start := time.Now()
	resp, err := c.binaryClient.Do(req)
	if err != nil {
		c.logger.Warn("binary request failed", zap.String("path", path), zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := readBody(resp, MaxResponseSize)
		return nil, "", &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(body, resp.Status),
		}
	}

	body, err := readBody(resp, MaxBinarySize)
	if err != nil {
		return nil, "", err
	}

	c.logger.Debug("binary request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	return body, resp.Header.Get("Content-Type"), nil
}

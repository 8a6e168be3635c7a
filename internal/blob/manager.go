// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package blob manages local handles for backend binary resources.
//
// A handle is a temp file spooled from a gateway fetch, usable as a display
// source (system PDF viewer, pager). Each logical display slot holds at most
// one live handle; opening into an occupied slot releases the previous one.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Fetcher is the part of the gateway the manager needs.
type Fetcher interface {
	FetchFile(ctx context.Context, filename string) ([]byte, string, error)
}

// Handle is an opaque, revocable reference to a spooled file.
type Handle struct {
	slot        string
	filename    string
	path        string
	contentType string
	size        int64
}

// Path returns the local path backing the handle.
func (h *Handle) Path() string { return h.path }

// Filename returns the backend-relative filename the handle was opened for.
func (h *Handle) Filename() string { return h.filename }

// ContentType returns the server-reported content type.
func (h *Handle) ContentType() string { return h.contentType }

// Size returns the spooled size in bytes.
func (h *Handle) Size() int64 { return h.size }

// Manager owns the live handles. Slots are caller-chosen names
// ("pdf", "summary", ...); the per-slot single-handle invariant is what
// keeps a long session from accumulating spooled files.
type Manager struct {
	mu      sync.Mutex
	fetcher Fetcher
	dir     string
	handles map[string]*Handle
}

// NewManager creates a manager spooling into dir. An empty dir gets a fresh
// directory under the OS temp root.
func NewManager(fetcher Fetcher, dir string) (*Manager, error) {
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "pubsage-blob-")
		if err != nil {
			return nil, fmt.Errorf("failed to create spool directory: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory: %w", err)
	}
	return &Manager{
		fetcher: fetcher,
		dir:     dir,
		handles: make(map[string]*Handle),
	}, nil
}

// Open fetches filename through the gateway and installs it as the slot's
// live handle. On fetch failure nothing is allocated and any existing handle
// for the slot stays live. On success the superseded handle, if any, is
// released immediately after the new one is in place.
func (m *Manager) Open(ctx context.Context, slot, filename string) (*Handle, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, fmt.Errorf("blob: empty slot")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("blob: empty filename")
	}

	data, contentType, err := m.fetcher.FetchFile(ctx, filename)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(m.dir, spoolPattern(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close spool file: %w", err)
	}

	h := &Handle{
		slot:        slot,
		filename:    filename,
		path:        path,
		contentType: contentType,
		size:        int64(len(data)),
	}

	m.mu.Lock()
	prev := m.handles[slot]
	m.handles[slot] = h
	m.mu.Unlock()

	if prev != nil {
		os.Remove(prev.path)
	}
	return h, nil
}

// Get returns the live handle for a slot, if any.
func (m *Manager) Get(slot string) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[slot]
	return h, ok
}

// Close releases the slot's live handle. Closing an empty slot is a no-op.
func (m *Manager) Close(slot string) error {
	m.mu.Lock()
	h := m.handles[slot]
	delete(m.handles, slot)
	m.mu.Unlock()

	if h == nil {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove spool file: %w", err)
	}
	return nil
}

// CloseAll releases every live handle and removes the spool directory if it
// is empty. Called on teardown.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[string]*Handle)
	m.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	// Best effort; the directory may hold files from another manager.
	os.Remove(m.dir)
	return firstErr
}

// spoolPattern keeps the original extension so system viewers can pick the
// right application.
func spoolPattern(filename string) string {
	ext := filepath.Ext(filename)
	return "pubsage-*" + ext
}

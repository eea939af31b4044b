// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrOwnerClosed is returned by Materialize after the manager was closed.
var ErrOwnerClosed = errors.New("artifact: owner closed")

// ErrNotLive is returned when a reference no longer resolves.
var ErrNotLive = errors.New("artifact: reference is not live")

// Manager owns at most one live artifact in a registry.
type Manager struct {
	reg     Registry
	mu      sync.Mutex
	current *Artifact
	closed  bool
}

// NewManager returns a manager over reg.
func NewManager(reg Registry) *Manager {
	return &Manager{reg: reg}
}

// Materialize stores data as the manager's live artifact and then releases
// the previous one. If storing fails the previous artifact stays live.
func (m *Manager) Materialize(data []byte, contentType string) (Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Artifact{}, ErrOwnerClosed
	}
	a, err := m.reg.Create(data, contentType)
	if err != nil {
		return Artifact{}, fmt.Errorf("materializing artifact: %w", err)
	}
	if m.current != nil {
		m.reg.Revoke(m.current.Ref)
	}
	m.current = &a
	return a, nil
}

// Release revokes ref. Releasing an absent or already released reference
// does nothing.
func (m *Manager) Release(ref string) {
	if ref == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Ref == ref {
		m.current = nil
	}
	m.reg.Revoke(ref)
}

// Current returns the live artifact, if any.
func (m *Manager) Current() (Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Artifact{}, false
	}
	return *m.current, true
}

// Bytes returns the content of the live artifact.
func (m *Manager) Bytes() ([]byte, bool) {
	a, ok := m.Current()
	if !ok {
		return nil, false
	}
	data, _, ok := m.reg.Resolve(a.Ref)
	return data, ok
}

// WriteTo saves the artifact behind ref to path.
func (m *Manager) WriteTo(ref, path string) error {
	data, _, ok := m.reg.Resolve(ref)
	if !ok {
		return fmt.Errorf("saving %s: %w", ref, ErrNotLive)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Close releases the live artifact. Later Materialize calls fail with
// ErrOwnerClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.reg.Revoke(m.current.Ref)
		m.current = nil
	}
	m.closed = true
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kvstore provides the small persistent string store that holds the
// signed-in session between invocations.
//
// Three backends share the Store interface: Memory for tests and
// throwaway runs, YAMLFile for a single lock-guarded YAML document, and
// SQLite for a kv table.
package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	Close() error
}

// Open returns the backend selected by cfg. A leading "~/" in the path is
// expanded to the home directory.
func Open(cfg types.StorageConfig) (Store, error) {
	path, err := expandHome(cfg.Path)
	if err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.StorageMemory:
		return NewMemory(), nil
	case types.StorageFile, "":
		return NewYAMLFile(path)
	case types.StorageSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("storage backend: unsupported value %q", cfg.Backend)
	}
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

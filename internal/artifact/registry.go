// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact holds the binary results of remote operations behind
// revocable references.
//
// A Registry is the process-wide table of live artifacts. A Manager owns at
// most one live artifact on behalf of a single operation runner and
// releases the previous one whenever a new result arrives, so the number of
// live references stays bounded by the number of runners.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefPrefix starts every artifact reference.
const RefPrefix = "artifact:"

// ErrClosed is returned when creating an artifact in a closed registry.
var ErrClosed = errors.New("artifact: registry closed")

// Artifact describes one live result.
type Artifact struct {
	Ref         string    `json:"ref"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registry stores artifact bytes under opaque references.
type Registry interface {
	// Create stores data and returns a new live artifact.
	Create(data []byte, contentType string) (Artifact, error)
	// Resolve returns the bytes of a live artifact.
	Resolve(ref string) ([]byte, Artifact, bool)
	// Revoke invalidates ref. Unknown or revoked refs are ignored.
	Revoke(ref string)
	// Live reports how many artifacts are currently resolvable.
	Live() int
	// Close revokes everything.
	Close() error
}

func newRef() string {
	return RefPrefix + uuid.NewString()
}

// MemoryRegistry keeps artifact bytes in memory.
type MemoryRegistry struct {
	mu     sync.Mutex
	items  map[string]memoryEntry
	closed bool
}

type memoryEntry struct {
	meta Artifact
	data []byte
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{items: make(map[string]memoryEntry)}
}

func (r *MemoryRegistry) Create(data []byte, contentType string) (Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Artifact{}, ErrClosed
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	a := Artifact{Ref: newRef(), ContentType: contentType, Size: len(buf), CreatedAt: time.Now().UTC()}
	r.items[a.Ref] = memoryEntry{meta: a, data: buf}
	return a, nil
}

func (r *MemoryRegistry) Resolve(ref string) ([]byte, Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[ref]
	if !ok {
		return nil, Artifact{}, false
	}
	return e.data, e.meta, true
}

func (r *MemoryRegistry) Revoke(ref string) {
	r.mu.Lock()
	delete(r.items, ref)
	r.mu.Unlock()
}

func (r *MemoryRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *MemoryRegistry) Close() error {
	r.mu.Lock()
	r.items = make(map[string]memoryEntry)
	r.closed = true
	r.mu.Unlock()
	return nil
}

// DirRegistry spills artifact bytes to files under a directory. Files are
// written atomically and removed on revoke.
type DirRegistry struct {
	dir    string
	mu     sync.Mutex
	items  map[string]Artifact
	closed bool
}

// NewDirRegistry creates dir if needed and returns a registry rooted there.
func NewDirRegistry(dir string) (*DirRegistry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact dir %s: %w", dir, err)
	}
	return &DirRegistry{dir: dir, items: make(map[string]Artifact)}, nil
}

// Dir returns the spill directory.
func (r *DirRegistry) Dir() string { return r.dir }

func (r *DirRegistry) path(ref string) string {
	return filepath.Join(r.dir, strings.TrimPrefix(ref, RefPrefix)+".bin")
}

func (r *DirRegistry) Create(data []byte, contentType string) (Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Artifact{}, ErrClosed
	}
	a := Artifact{Ref: newRef(), ContentType: contentType, Size: len(data), CreatedAt: time.Now().UTC()}
	if err := writeAtomic(r.path(a.Ref), data); err != nil {
		return Artifact{}, err
	}
	r.items[a.Ref] = a
	return a, nil
}

func (r *DirRegistry) Resolve(ref string) ([]byte, Artifact, bool) {
	r.mu.Lock()
	a, ok := r.items[ref]
	r.mu.Unlock()
	if !ok {
		return nil, Artifact{}, false
	}
	data, err := os.ReadFile(r.path(ref))
	if err != nil {
		return nil, Artifact{}, false
	}
	return data, a, true
}

func (r *DirRegistry) Revoke(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ref]; !ok {
		return
	}
	delete(r.items, ref)
	os.Remove(r.path(ref))
}

func (r *DirRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *DirRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for ref := range r.items {
		if err := os.Remove(r.path(ref)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		delete(r.items, ref)
	}
	r.closed = true
	return errors.Join(errs...)
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"
)

// YAMLFile keeps every key in one YAML mapping on disk. Each call takes an
// advisory lock on a sibling ".lock" file so concurrent processes see a
// consistent document.
type YAMLFile struct {
	path string
	lock *flock.Flock
}

// NewYAMLFile returns a store backed by path. The file is created on the
// first Set.
func NewYAMLFile(path string) (*YAMLFile, error) {
	if path == "" {
		return nil, errors.New("yaml store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &YAMLFile{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the backing file.
func (s *YAMLFile) Path() string { return s.path }

func (s *YAMLFile) Get(key string) (string, bool, error) {
	if err := s.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("locking %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *YAMLFile) Set(key, value string) error {
	return s.update(func(data map[string]string) { data[key] = value })
}

func (s *YAMLFile) Remove(key string) error {
	return s.update(func(data map[string]string) { delete(data, key) })
}

func (s *YAMLFile) Close() error { return s.lock.Close() }

func (s *YAMLFile) update(fn func(map[string]string)) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	fn(data)
	return s.write(data)
}

func (s *YAMLFile) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	data := map[string]string{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	// An empty or null document decodes to a nil map.
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

func (s *YAMLFile) write(data map[string]string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kv-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

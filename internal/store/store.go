// Package store persists per-workspace key/value state between runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/sonvt1710/coc-java/internal/cache"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// Store is the workspace state the resolvers read and write.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// lockTimeout bounds how long a write waits for another process.
const lockTimeout = 5 * time.Second

// FileStore keeps one JSON object per workspace. Writes take a file lock so
// two processes started for the same workspace do not clobber each other.
type FileStore struct {
	path      string
	workspace string
	values    map[string]string
}

// stateFile is the on-disk layout.
type stateFile struct {
	Workspace string            `json:"workspace"`
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Open loads the state for workspace from the cache directory.
func Open(workspace string) (*FileStore, error) {
	path, err := cache.GetWorkspaceStatePath(workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace state path: %w", err)
	}
	s, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	s.workspace = workspace
	return s, nil
}

// OpenFile loads the state stored at path. A missing file is an empty store.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: make(map[string]string)}
	state, err := readState(path)
	if err != nil {
		return nil, err
	}
	if state != nil {
		s.workspace = state.Workspace
		maps.Copy(s.values, state.Values)
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the file.
func (s *FileStore) Set(key, value string) error {
	return s.update(func(values map[string]string) {
		values[key] = value
	})
}

// Delete removes key and writes the file. The key may have been written by
// another process since Open, so the locked re-read decides.
func (s *FileStore) Delete(key string) error {
	return s.update(func(values map[string]string) {
		delete(values, key)
	})
}

// update re-reads the file under lock, applies fn, and writes it back so
// keys written by another process since Open are kept.
func (s *FileStore) update(fn func(map[string]string)) error {
	if err := utils.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	fileLock := flock.New(s.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire state lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire state lock (timeout)")
	}
	defer func() { _ = fileLock.Unlock() }()

	current, err := readState(s.path)
	if err != nil {
		return err
	}
	values := make(map[string]string)
	if current != nil {
		maps.Copy(values, current.Values)
	}
	fn(values)

	data, err := json.MarshalIndent(stateFile{
		Workspace: s.workspace,
		Values:    values,
		UpdatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.values = values
	return nil
}

func readState(path string) (*stateFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return &state, nil
}

// Memory is an in-process Store.
type Memory map[string]string

func (m Memory) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Memory) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m Memory) Delete(key string) error {
	delete(m, key)
	return nil
}

// Package storage implements a JSON file key-value store for the client.
// The whole file is rewritten on every change; it is meant for a handful of keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps string values in a single JSON object on disk.
// Every operation re-reads the file, so several FileStores may share a path.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore persisting to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) load() (map[string]string, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	values := map[string]string{}
	if err := json.NewDecoder(f).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fs.path, err)
	}
	return values, nil
}

func (fs *FileStore) save(values map[string]string) error {
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := fs.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(values); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}

// Get returns the value stored under key; the boolean is false when it is absent.
func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Put stores value under key, replacing any previous value.
// A corrupt file is replaced rather than reported.
func (fs *FileStore) Put(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		values = map[string]string{}
	}
	values[key] = value
	return fs.save(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		values = map[string]string{}
	}
	if _, ok := values[key]; !ok && err == nil {
		return nil
	}
	delete(values, key)
	return fs.save(values)
}

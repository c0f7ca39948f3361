package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend persists the serialized trust context. Write must be
// all-or-nothing: a reader never observes a partially written document.
type Backend interface {
	// Read returns the stored document. The bool is false when nothing is
	// stored.
	Read() ([]byte, bool, error)
	// Write replaces the stored document atomically.
	Write(data []byte) error
	// Clear removes the stored document. Clearing an empty backend is a
	// no-op.
	Clear() error
}

// FileBackend stores the session in a single file, written via a temp file
// and rename so the visible state is always either the old or the new
// document.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend at path, creating parent directories
// as needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileBackend{path: path}, nil
}

func (b *FileBackend) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *FileBackend) Write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}

func (b *FileBackend) Clear() error {
	err := os.Remove(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryBackend is an in-process backend for tests and ephemeral sessions.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

func (b *MemoryBackend) Read() ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return nil, false, nil
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, true, nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.set = true
	return nil
}

func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.set = false
	return nil
}

package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agentic-identity/core/pkg/aiderr"
)

// Backend abstracts the object store underneath receipts/grants/revocations.
// Variants are filesystem-backed (FileBackend) and in-memory (MemBackend,
// for tests); callers pass a backend explicitly, never a global singleton.
type Backend interface {
	// Put writes data under key. Rewriting an existing key is a programming
	// error in normal operation (objects are append-only) but Put itself
	// does not enforce that; callers check existence first when it matters.
	Put(key string, data []byte) error
	// Get reads the bytes stored under key. NotFound if absent.
	Get(key string) ([]byte, error)
	// Exists reports whether key has been written.
	Exists(key string) (bool, error)
	// List returns every key sharing prefix, sorted lexicographically. A
	// `.tmp` suffix left by an interrupted Put is never returned.
	List(prefix string) ([]string, error)
}

// FileBackend roots every key under a single directory on the local
// filesystem, writing each key atomically (temp file + rename).
type FileBackend struct {
	root string
	mu   sync.RWMutex
}

// NewFileBackend ensures root exists and returns a backend rooted there.
func NewFileBackend(root string) (*FileBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to create data directory", err)
	}
	return &FileBackend{root: root}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}

func (b *FileBackend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return atomicWriteFile(b.path(key), data)
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aiderr.New(aiderr.CodeNotFound, key)
		}
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to read object", err)
	}
	return data, nil
}

func (b *FileBackend) Exists(key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, err := os.Stat(b.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, aiderr.Wrap(aiderr.CodeIO, "failed to stat object", err)
}

func (b *FileBackend) List(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	dir := filepath.Join(b.root, filepath.FromSlash(prefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, aiderr.Wrap(aiderr.CodeIO, "failed to list objects", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || strings.Contains(e.Name(), tmpMarker) {
			continue
		}
		keys = append(keys, filepath.ToSlash(filepath.Join(prefix, e.Name())))
	}
	sort.Strings(keys)
	return keys, nil
}

// MemBackend is an in-memory Backend for tests; it never touches disk.
type MemBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemBackend returns an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{objects: make(map[string][]byte)}
}

func (b *MemBackend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := append([]byte(nil), data...)
	b.objects[key] = cp
	return nil
}

func (b *MemBackend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, aiderr.New(aiderr.CodeNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemBackend) Exists(key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *MemBackend) List(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Package storage provides the durable key-value store the configuration
// store persists its saved collection into.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNotJSON is returned by FileKV.Set for values that are not JSON documents.
	ErrNotJSON = errors.New("value is not valid JSON")
	// ErrCorrupt marks a store file that exists but does not decode.
	ErrCorrupt = errors.New("store file is corrupt")
)

type KV interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// FileKV keeps every key in a single JSON object file. Writes go to a
// temporary file that is renamed over the original.
type FileKV struct {
	mu   sync.Mutex
	path string
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (kv *FileKV) Path() string { return kv.path }

// CorruptPath is where Set moves a store file that no longer decodes.
func (kv *FileKV) CorruptPath() string { return kv.path + ".corrupt" }

func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entries, err := kv.read()
	if err != nil {
		return nil, false, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (kv *FileKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if !json.Valid(value) {
		return fmt.Errorf("%w: %s", ErrNotJSON, key)
	}
	entries, err := kv.read()
	if errors.Is(err, ErrCorrupt) {
		// Every key of a corrupt file is lost. The file is kept next to
		// the new one as CorruptPath for inspection.
		if err := os.Rename(kv.path, kv.CorruptPath()); err != nil {
			return fmt.Errorf("move aside %s: %w", kv.path, err)
		}
		entries = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	entries[key] = json.RawMessage(cloneBytes(value))
	return kv.writeAtomic(entries)
}

func (kv *FileKV) read() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	data, err := os.ReadFile(kv.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read %s: %w", kv.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, kv.path, err)
	}
	return entries, nil
}

func (kv *FileKV) writeAtomic(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}

// MemoryKV is a process-local KV, used by tests and the simulator.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: map[string][]byte{}}
}

func (kv *MemoryKV) Get(key string) ([]byte, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	value, ok := kv.entries[key]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(value), true, nil
}

func (kv *MemoryKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	kv.entries[key] = cloneBytes(value)
	kv.mu.Unlock()
	return nil
}

func cloneBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

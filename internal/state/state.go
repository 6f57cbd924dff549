package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/storage"
)

// SavedConfigsKey is the KV key holding the saved collection.
const SavedConfigsKey = "crosshair-configs"

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Snapshot is a whole copy of the store contents at one version.
type Snapshot struct {
	Version  uint64              `json:"version"`
	Config   crosshair.Config    `json:"config"`
	Keybinds []crosshair.Keybind `json:"keybinds"`
	Saved    []crosshair.Config  `json:"savedConfigs"`
}

type Option func(*Store)

// WithLogger reports persistence problems to logger.
func WithLogger(logger Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// WithClamp forces every UpdateConfig patch into limits before merging.
func WithClamp(limits crosshair.Limits) Option {
	return func(store *Store) {
		l := limits
		store.limits = &l
	}
}

// WithInitialConfig replaces the default active configuration.
func WithInitialConfig(cfg crosshair.Config) Option {
	return func(store *Store) { store.config = cfg }
}

// Store owns the active configuration, the keybind list and the saved
// collection. Readers always get copies.
type Store struct {
	mu       sync.RWMutex
	version  uint64
	config   crosshair.Config
	keybinds []crosshair.Keybind
	saved    []crosshair.Config

	kv      storage.KV
	logger  Logger
	limits  *crosshair.Limits
	loadErr error

	subMu       sync.Mutex
	subscribers map[int]chan Snapshot
	nextSub     int
	published   uint64
}

// NewStore builds a store and loads the saved collection from kv. A missing
// or unreadable collection leaves the store with an empty one; the failure
// is logged and kept for LoadError.
func NewStore(kv storage.KV, opts ...Option) *Store {
	if kv == nil {
		kv = storage.NewMemoryKV()
	}
	store := &Store{
		config:      crosshair.Default(),
		keybinds:    crosshair.DefaultKeybinds(),
		saved:       []crosshair.Config{},
		kv:          kv,
		logger:      noopLogger{},
		subscribers: map[int]chan Snapshot{},
	}
	for _, opt := range opts {
		opt(store)
	}

	saved, err := loadSaved(kv)
	if err != nil {
		store.loadErr = err
		store.logger.Errorf("state", "saved configs unreadable, starting empty: %v", err)
	} else {
		store.saved = saved
		store.logger.Infof("state", "loaded %d saved configs", len(saved))
	}
	return store
}

func loadSaved(kv storage.KV) ([]crosshair.Config, error) {
	data, ok, err := kv.Get(SavedConfigsKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SavedConfigsKey, err)
	}
	if !ok {
		return []crosshair.Config{}, nil
	}
	var saved []crosshair.Config
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SavedConfigsKey, err)
	}
	if saved == nil {
		saved = []crosshair.Config{}
	}
	return saved, nil
}

// LoadError returns the error hit while reading the saved collection at
// construction, if any.
func (store *Store) LoadError() error {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.loadErr
}

func (store *Store) Config() crosshair.Config {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.config
}

func (store *Store) Keybinds() []crosshair.Keybind {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return cloneKeybinds(store.keybinds)
}

func (store *Store) SavedConfigs() []crosshair.Config {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return cloneConfigs(store.saved)
}

func (store *Store) Snapshot() Snapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshotLocked()
}

func (store *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:  store.version,
		Config:   store.config,
		Keybinds: cloneKeybinds(store.keybinds),
		Saved:    cloneConfigs(store.saved),
	}
}

// UpdateConfig merges p into the active configuration and returns the result.
func (store *Store) UpdateConfig(p crosshair.Patch) crosshair.Config {
	store.mu.Lock()
	if store.limits != nil {
		p = p.Clamp(*store.limits)
	}
	store.config = crosshair.Merge(store.config, p)
	cfg := store.config
	snap := store.bumpLocked()
	store.mu.Unlock()

	store.publish(snap)
	return cfg
}

// LoadConfig replaces the active configuration with cfg as given.
func (store *Store) LoadConfig(cfg crosshair.Config) {
	store.mu.Lock()
	store.config = cfg
	snap := store.bumpLocked()
	store.mu.Unlock()

	store.publish(snap)
}

// SaveConfig inserts cfg into the saved collection, replacing an entry with
// the same id in place, and persists the collection. The in-memory change
// stays applied when persisting fails.
func (store *Store) SaveConfig(cfg crosshair.Config) error {
	store.mu.Lock()
	replaced := false
	for i := range store.saved {
		if store.saved[i].ID == cfg.ID {
			store.saved[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		store.saved = append(store.saved, cfg)
	}
	snap := store.bumpLocked()
	err := store.persistLocked()
	store.mu.Unlock()

	store.publish(snap)
	return err
}

// DeleteConfig removes the saved entry with id. Unknown ids are ignored.
func (store *Store) DeleteConfig(id string) error {
	store.mu.Lock()
	idx := -1
	for i := range store.saved {
		if store.saved[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		store.mu.Unlock()
		return nil
	}
	store.saved = append(store.saved[:idx:idx], store.saved[idx+1:]...)
	snap := store.bumpLocked()
	err := store.persistLocked()
	store.mu.Unlock()

	store.publish(snap)
	return err
}

// FindSaved returns the saved entry with id.
func (store *Store) FindSaved(id string) (crosshair.Config, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, cfg := range store.saved {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return crosshair.Config{}, false
}

// UpdateKeybind merges p into the keybind with id. It reports whether the
// keybind exists; unknown ids leave the list untouched.
func (store *Store) UpdateKeybind(id string, p crosshair.KeybindPatch) bool {
	store.mu.Lock()
	idx := -1
	for i := range store.keybinds {
		if store.keybinds[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		store.mu.Unlock()
		return false
	}
	next := cloneKeybinds(store.keybinds)
	next[idx] = crosshair.MergeKeybind(next[idx], p)
	store.keybinds = next
	snap := store.bumpLocked()
	store.mu.Unlock()

	store.publish(snap)
	return true
}

// Keybind returns the keybind with id.
func (store *Store) Keybind(id string) (crosshair.Keybind, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, kb := range store.keybinds {
		if kb.ID == id {
			return kb, true
		}
	}
	return crosshair.Keybind{}, false
}

func (store *Store) bumpLocked() Snapshot {
	store.version++
	return store.snapshotLocked()
}

func (store *Store) persistLocked() error {
	data, err := json.Marshal(store.saved)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SavedConfigsKey, err)
	}
	if err := store.kv.Set(SavedConfigsKey, data); err != nil {
		store.logger.Errorf("state", "persist saved configs failed: %v", err)
		return fmt.Errorf("persist %s: %w", SavedConfigsKey, err)
	}
	return nil
}

func cloneKeybinds(in []crosshair.Keybind) []crosshair.Keybind {
	out := make([]crosshair.Keybind, len(in))
	copy(out, in)
	return out
}

func cloneConfigs(in []crosshair.Config) []crosshair.Config {
	out := make([]crosshair.Config, len(in))
	copy(out, in)
	return out
}

// Package gdatastorage stores the ledger in the per-user save-data
// directory managed by gdata. Each location is one YAML property; an
// index property lists them.
package gdatastorage

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/storage/memory"
	"gopkg.in/yaml.v3"
)

const (
	ledgerObject  = "ledger"
	indexProperty = "index"
)

// PropertyName maps a location name onto a file-safe property name. The
// name is hex encoded, so distinct locations never share a property even
// on case-insensitive file systems.
func PropertyName(location string) string {
	return "loc_" + hex.EncodeToString([]byte(location))
}

// locationDoc is the YAML document saved for one location.
type locationDoc struct {
	Location string            `yaml:"location"`
	Entries  map[string]string `yaml:"entries"`
}

// index maps location names to property names.
type index struct {
	Locations map[string]string `yaml:"locations"`
}

// Backend keeps a memory mirror and writes dirty locations on Flush.
// With a nil manager it degrades to memory only.
type Backend struct {
	cfg     config.GDataConfig
	manager *gdata.Manager
	mirror  *memory.Backend
	log     *slog.Logger

	mu    sync.Mutex
	dirty map[string]bool
}

// New creates a backend. Call Init to open the save-data directory.
func New(cfg config.GDataConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:    cfg,
		mirror: memory.New(config.MemoryConfig{}),
		log:    logger,
		dirty:  make(map[string]bool),
	}
}

// NewWithManager creates a backend over an already opened manager.
func NewWithManager(manager *gdata.Manager, logger *slog.Logger) *Backend {
	b := New(config.GDataConfig{}, logger)
	b.manager = manager
	return b
}

// Init opens the save-data directory and loads every location.
func (b *Backend) Init() error {
	if b.manager == nil && b.cfg.AppName != "" {
		m, err := gdata.Open(gdata.Config{AppName: b.cfg.AppName})
		if err != nil {
			b.log.Warn("Save-data directory unavailable, ledger kept in memory only", "error", err)
		} else {
			b.manager = m
		}
	}
	if b.manager == nil {
		return nil
	}

	idx, err := b.loadIndex()
	if err != nil {
		return err
	}

	data := make(map[string]map[string]string, len(idx.Locations))
	for location, prop := range idx.Locations {
		if !b.manager.ObjectPropExists(ledgerObject, prop) {
			continue
		}
		raw, err := b.manager.LoadObjectProp(ledgerObject, prop)
		if err != nil {
			return fmt.Errorf("failed to load location %q: %w", location, err)
		}
		var doc locationDoc
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal location %q: %w", location, err)
		}
		if doc.Location != location {
			b.log.Warn("Skipping ledger property saved for another location",
				"property", prop, "indexed", location, "stored", doc.Location)
			continue
		}
		data[location] = doc.Entries
	}
	b.mirror.Replace(data)
	return nil
}

// Close flushes dirty locations.
func (b *Backend) Close() error {
	return b.Flush()
}

func (b *Backend) loadIndex() (index, error) {
	idx := index{Locations: map[string]string{}}
	if !b.manager.ObjectPropExists(ledgerObject, indexProperty) {
		return idx, nil
	}
	raw, err := b.manager.LoadObjectProp(ledgerObject, indexProperty)
	if err != nil {
		return idx, fmt.Errorf("failed to load ledger index: %w", err)
	}
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return idx, fmt.Errorf("failed to unmarshal ledger index: %w", err)
	}
	if idx.Locations == nil {
		idx.Locations = map[string]string{}
	}
	return idx, nil
}

// Flush writes every location changed since the last flush, then the index.
func (b *Backend) Flush() error {
	if b.manager == nil {
		return nil
	}

	b.mu.Lock()
	dirty := make([]string, 0, len(b.dirty))
	for loc := range b.dirty {
		dirty = append(dirty, loc)
	}
	b.dirty = make(map[string]bool)
	b.mu.Unlock()

	if len(dirty) == 0 {
		return nil
	}
	sort.Strings(dirty)

	for i, location := range dirty {
		doc := locationDoc{Location: location, Entries: b.mirror.Location(location)}
		raw, err := yaml.Marshal(doc)
		if err != nil {
			b.markDirty(dirty[i:]...)
			return fmt.Errorf("failed to marshal location %q: %w", location, err)
		}
		if err := b.manager.SaveObjectProp(ledgerObject, PropertyName(location), raw); err != nil {
			b.markDirty(dirty[i:]...)
			return fmt.Errorf("failed to save location %q: %w", location, err)
		}
	}

	idx := index{Locations: map[string]string{}}
	names, _ := b.mirror.Locations()
	for _, name := range names {
		idx.Locations[name] = PropertyName(name)
	}
	raw, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger index: %w", err)
	}
	if err := b.manager.SaveObjectProp(ledgerObject, indexProperty, raw); err != nil {
		return fmt.Errorf("failed to save ledger index: %w", err)
	}

	b.log.Debug("Saved ledger", "locations", len(dirty))
	return nil
}

func (b *Backend) markDirty(locations ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, loc := range locations {
		b.dirty[loc] = true
	}
}

func (b *Backend) Get(location, key string) (string, bool, error) {
	return b.mirror.Get(location, key)
}

func (b *Backend) Set(location, key, value string) error {
	if err := b.mirror.Set(location, key, value); err != nil {
		return err
	}
	b.markDirty(location)
	return nil
}

func (b *Backend) Delete(location, key string) error {
	if err := b.mirror.Delete(location, key); err != nil {
		return err
	}
	b.markDirty(location)
	return nil
}

func (b *Backend) Keys(location string) ([]string, error) {
	return b.mirror.Keys(location)
}

func (b *Backend) Locations() ([]string, error) {
	return b.mirror.Locations()
}

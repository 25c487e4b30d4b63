// Package ledger is the typed view of one location's destruction records
// over a generic storage.Backend. Only keys under the configured namespace
// are ever read or written.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/spreadingweeds/extension/pkg/core"
)

// ErrNoBackend is returned when a Book has no storage behind it.
var ErrNoBackend = errors.New("ledger has no storage backend")

// Book hands out ledgers for individual locations.
type Book struct {
	backend   storage.Backend
	namespace string
	version   string
}

// NewBook wraps backend. Empty config fields fall back to the record
// package defaults.
func NewBook(backend storage.Backend, cfg config.LedgerConfig) *Book {
	if cfg.Namespace == "" {
		cfg.Namespace = record.DefaultNamespace
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = record.SchemaVersion
	}
	return &Book{backend: backend, namespace: cfg.Namespace, version: cfg.SchemaVersion}
}

// Namespace returns the key prefix used by this book.
func (b *Book) Namespace() string {
	return b.namespace
}

// For returns the ledger of one location.
func (b *Book) For(location string) *Ledger {
	return &Ledger{book: b, location: location}
}

// DamagedLocations returns every stored location carrying the sentinel.
func (b *Book) DamagedLocations() ([]string, error) {
	if b.backend == nil {
		return nil, ErrNoBackend
	}
	names, err := b.backend.Locations()
	if err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}

	var damaged []string
	for _, name := range names {
		ok, err := b.For(name).HasDamage()
		if err != nil {
			return nil, err
		}
		if ok {
			damaged = append(damaged, name)
		}
	}
	return damaged, nil
}

// Locations returns every location holding any namespaced key.
func (b *Book) Locations() ([]string, error) {
	if b.backend == nil {
		return nil, ErrNoBackend
	}
	names, err := b.backend.Locations()
	if err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}

	var owned []string
	for _, name := range names {
		raw, err := b.For(name).Raw()
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			owned = append(owned, name)
		}
	}
	return owned, nil
}

// Flush persists buffered writes of the backend.
func (b *Book) Flush() error {
	if b.backend == nil {
		return ErrNoBackend
	}
	return storage.Flush(b.backend)
}

// Entry is one stored record, still encoded.
type Entry struct {
	StorageKey string
	Key        record.Key
	Value      string
}

// RawEntry is a namespaced key with the namespace stripped.
type RawEntry struct {
	Key   string
	Value string
}

// Ledger reads and writes the records of one location.
type Ledger struct {
	book     *Book
	location string
}

// Location returns the location name.
func (l *Ledger) Location() string {
	return l.location
}

func (l *Ledger) sentinel() string {
	return record.SentinelKey(l.book.namespace)
}

// StorageKey returns the full key a record for k is stored under.
func (l *Ledger) StorageKey(k record.Key) string {
	return k.Format(l.book.namespace, l.book.version)
}

// Put stores r under k, replacing any earlier record for the same tile and day.
func (l *Ledger) Put(k record.Key, r core.DestructionRecord) error {
	if l.book.backend == nil {
		return ErrNoBackend
	}
	if err := l.book.backend.Set(l.location, l.StorageKey(k), record.Encode(r)); err != nil {
		return fmt.Errorf("error storing record at %s: %w", l.StorageKey(k), err)
	}
	return nil
}

// MarkDamaged sets the sentinel. Setting it twice is harmless.
func (l *Ledger) MarkDamaged() error {
	if l.book.backend == nil {
		return ErrNoBackend
	}
	return l.book.backend.Set(l.location, l.sentinel(), record.SentinelValue)
}

// HasDamage reports whether the sentinel is set.
func (l *Ledger) HasDamage() (bool, error) {
	if l.book.backend == nil {
		return false, ErrNoBackend
	}
	v, ok, err := l.book.backend.Get(l.location, l.sentinel())
	if err != nil {
		return false, err
	}
	return ok && v == record.SentinelValue, nil
}

// Entries returns every parseable record key except the sentinel,
// ordered by day, then x, then y.
func (l *Ledger) Entries() ([]Entry, error) {
	keys, err := l.ownKeys()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, sk := range keys {
		if sk == l.sentinel() {
			continue
		}
		k, _, err := record.ParseKey(l.book.namespace, sk)
		if err != nil {
			continue
		}
		v, ok, err := l.book.backend.Get(l.location, sk)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries = append(entries, Entry{StorageKey: sk, Key: k, Value: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Tile.X != b.Tile.X {
			return a.Tile.X < b.Tile.X
		}
		return a.Tile.Y < b.Tile.Y
	})
	return entries, nil
}

// Raw returns every namespaced key, sentinel included, with the namespace
// prefix stripped.
func (l *Ledger) Raw() ([]RawEntry, error) {
	keys, err := l.ownKeys()
	if err != nil {
		return nil, err
	}
	out := make([]RawEntry, 0, len(keys))
	for _, sk := range keys {
		v, ok, err := l.book.backend.Get(l.location, sk)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, RawEntry{Key: strings.TrimPrefix(sk, l.book.namespace+"/"), Value: v})
	}
	return out, nil
}

// ClearDay removes every namespaced key except the sentinel and returns
// how many were removed. Calling it again removes nothing.
func (l *Ledger) ClearDay() (int, error) {
	return l.remove(func(key string) bool { return key != l.sentinel() })
}

// ClearAll removes every namespaced key, sentinel included.
func (l *Ledger) ClearAll() (int, error) {
	return l.remove(func(string) bool { return true })
}

func (l *Ledger) remove(match func(string) bool) (int, error) {
	keys, err := l.ownKeys()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, k := range keys {
		if !match(k) {
			continue
		}
		if err := l.book.backend.Delete(l.location, k); err != nil {
			return removed, fmt.Errorf("error removing %s: %w", k, err)
		}
		removed++
	}
	return removed, nil
}

func (l *Ledger) ownKeys() ([]string, error) {
	if l.book.backend == nil {
		return nil, ErrNoBackend
	}
	keys, err := l.book.backend.Keys(l.location)
	if err != nil {
		return nil, fmt.Errorf("error listing keys of %s: %w", l.location, err)
	}
	own := keys[:0:0]
	for _, k := range keys {
		if record.InNamespace(l.book.namespace, k) {
			own = append(own, k)
		}
	}
	return own, nil
}

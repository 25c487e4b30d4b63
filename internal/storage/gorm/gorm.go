// Package gormstorage implements storage.Backend on top of GORM.
// Reads are served from an in-memory mirror loaded at Init; writes are
// queued and applied in a single transaction per flush.
package gormstorage

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/model"
	"github.com/spreadingweeds/extension/internal/queue"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/spreadingweeds/extension/internal/storage/memory"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
	// FlushInterval batches writes when positive. Zero writes through on
	// every Set and Delete.
	FlushInterval time.Duration
}

type write struct {
	delete   bool
	location string
	key      string
	value    string
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps     Dependencies
	mirror   *memory.Backend
	pending  *queue.Queue[write]
	flushMu  sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	ready    bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{
		deps:    deps,
		mirror:  memory.New(config.MemoryConfig{}),
		pending: queue.New[write](),
	}
}

// Init loads every stored entry into the mirror and starts the writer.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return storage.ErrNotInitialized
	}

	var entries []model.LedgerEntry
	if err := b.deps.DB.Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to load ledger entries: %w", err)
	}

	data := make(map[string]map[string]string)
	for _, e := range entries {
		if data[e.Location] == nil {
			data[e.Location] = make(map[string]string)
		}
		data[e.Location][e.Key] = e.Value
	}
	b.mirror.Replace(data)
	b.deps.Logger.Debug("Loaded ledger entries", "count", len(entries))

	b.ready = true
	if b.deps.FlushInterval > 0 {
		b.stopChan = make(chan struct{})
		b.wg.Add(1)
		go b.writerLoop()
	}
	return nil
}

// Close stops the writer and flushes what is left.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	if !b.ready {
		return nil
	}
	if n := b.Pending(); n > 0 {
		b.deps.Logger.Info("Flushing ledger changes before close", "pending", n)
	}
	return b.Flush()
}

// Get returns the value stored under key.
func (b *Backend) Get(location, key string) (string, bool, error) {
	return b.mirror.Get(location, key)
}

// Keys returns the sorted keys of location.
func (b *Backend) Keys(location string) ([]string, error) {
	return b.mirror.Keys(location)
}

// Locations returns the sorted names of non-empty locations.
func (b *Backend) Locations() ([]string, error) {
	return b.mirror.Locations()
}

// Set stores value under key.
func (b *Backend) Set(location, key, value string) error {
	if !b.ready {
		return storage.ErrNotInitialized
	}
	if err := b.mirror.Set(location, key, value); err != nil {
		return err
	}
	b.pending.Push(write{location: location, key: key, value: value})
	return b.writeThrough()
}

// Delete removes key.
func (b *Backend) Delete(location, key string) error {
	if !b.ready {
		return storage.ErrNotInitialized
	}
	if err := b.mirror.Delete(location, key); err != nil {
		return err
	}
	b.pending.Push(write{delete: true, location: location, key: key})
	return b.writeThrough()
}

// Pending returns the number of writes not yet in the database.
func (b *Backend) Pending() int {
	return b.pending.Len()
}

func (b *Backend) writeThrough() error {
	if b.deps.FlushInterval > 0 {
		return nil
	}
	return b.Flush()
}

// Flush applies all queued writes in one transaction. On failure the
// writes are put back and retried on the next flush.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	writes := b.pending.Drain()
	if len(writes) == 0 {
		return nil
	}

	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			if w.delete {
				if err := tx.Where("location = ? AND entry_key = ?", w.location, w.key).
					Delete(&model.LedgerEntry{}).Error; err != nil {
					return err
				}
				continue
			}

			entry := model.LedgerEntry{Location: w.location, Key: w.key, Value: w.value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "location"}, {Name: "entry_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
			}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.pending.Requeue(writes...)
		return fmt.Errorf("failed to write %d ledger changes: %w", len(writes), err)
	}

	b.deps.Logger.Debug("Flushed ledger changes", "count", len(writes))
	return nil
}

func (b *Backend) writerLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.deps.Logger.Error("Error flushing ledger", "error", err)
			}
		}
	}
}

// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SnapshotVersion is written into every snapshot file.
const SnapshotVersion = 1

// Snapshot is the root JSON structure of a snapshot file.
type Snapshot struct {
	Version   int                          `json:"version"`
	SavedAt   time.Time                    `json:"savedAt"`
	Locations map[string]map[string]string `json:"locations"`
}

// SnapshotPath returns where the snapshot is written.
func (b *Backend) SnapshotPath() string {
	name := "ledger.json"
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	return filepath.Join(b.cfg.OutputDir, name)
}

func (b *Backend) writeSnapshot(data map[string]map[string]string) error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	snapshot := Snapshot{
		Version:   SnapshotVersion,
		SavedAt:   time.Now().UTC(),
		Locations: data,
	}

	// write beside the target, then rename into place
	path := b.SnapshotPath()
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if b.cfg.CompressOutput {
		gz = gzip.NewWriter(f)
		w = gz
	}

	encErr := json.NewEncoder(w).Encode(snapshot)
	if gz != nil {
		if err := gz.Close(); err != nil && encErr == nil {
			encErr = err
		}
	}
	if err := f.Close(); err != nil && encErr == nil {
		encErr = err
	}
	if encErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", encErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (b *Backend) readSnapshot() (*Snapshot, error) {
	f, err := os.Open(b.SnapshotPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if b.cfg.CompressOutput {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip snapshot: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}

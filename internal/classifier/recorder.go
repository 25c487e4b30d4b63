package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spreadingweeds/extension/internal/ledger"
	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/registry"
	"github.com/spreadingweeds/extension/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spreadingweeds/extension/internal/classifier"

// Recorder classifies destruction signals and writes the results into the
// location ledgers.
type Recorder struct {
	book       *ledger.Book
	registry   registry.Registry
	exemptions []Exemption
	logger     *slog.Logger

	recorded metric.Int64Counter
	skipped  metric.Int64Counter
}

// NewRecorder creates a Recorder. A nil exemption list uses
// DefaultExemptions. Uses the global OTel meter (no-op if not configured).
func NewRecorder(book *ledger.Book, reg registry.Registry, exemptions []Exemption, logger *slog.Logger) (*Recorder, error) {
	if exemptions == nil {
		exemptions = DefaultExemptions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := otel.Meter(instrumentationName)
	recorded, err := m.Int64Counter("spreadingweeds.classifier.recorded",
		metric.WithDescription("Destructions written to the ledger"))
	if err != nil {
		return nil, fmt.Errorf("create recorded counter: %w", err)
	}
	skipped, err := m.Int64Counter("spreadingweeds.classifier.skipped",
		metric.WithDescription("Destruction signals that produced no record"))
	if err != nil {
		return nil, fmt.Errorf("create skipped counter: %w", err)
	}

	return &Recorder{
		book:       book,
		registry:   reg,
		exemptions: exemptions,
		logger:     logger,
		recorded:   recorded,
		skipped:    skipped,
	}, nil
}

// OnTileDestroyed classifies one signal. When something was destroyed the
// location is flagged as damaged and the record is written under
// {ns}/{version}/{day}/{x}/{y}, replacing any earlier record for that tile
// and day.
func (r *Recorder) OnTileDestroyed(in core.TileDestroyed) (Outcome, error) {
	out := Classify(in, r.registry, r.exemptions)
	if !out.IsRecorded() {
		r.skipped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", out.Reason)))
		r.logger.Debug("Tile skipped", "location", in.Location, "tile", in.Tile.String(), "reason", out.Reason)
		return out, nil
	}

	l := r.book.For(in.Location)
	damaged, err := l.HasDamage()
	if err != nil {
		return out, err
	}
	if !damaged {
		if err := l.MarkDamaged(); err != nil {
			return out, err
		}
		r.logger.Info("New location with spreading debris", "location", in.Location)
	}

	key := record.Key{Day: in.Day, Tile: in.Tile}
	if err := l.Put(key, out.Record); err != nil {
		return out, err
	}

	r.recorded.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("location", in.Location),
		attribute.String("category", out.Record.Category.String()),
	))
	r.logger.Debug("Destruction recorded",
		"location", in.Location,
		"key", l.StorageKey(key),
		"value", record.Encode(out.Record))
	return out, nil
}

package report

import (
	"errors"
	"log/slog"

	"github.com/spreadingweeds/extension/internal/cache"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/ledger"
	"github.com/spreadingweeds/extension/internal/record"
	"github.com/spreadingweeds/extension/internal/registry"
	"github.com/spreadingweeds/extension/internal/render"
	"github.com/spreadingweeds/extension/internal/session"
	"github.com/spreadingweeds/extension/pkg/core"
)

// Result is what one location's ledger produced.
type Result struct {
	Entries []*session.RenderEntry
	Section Section
}

// Builder turns ledger records into render entries and report lines.
type Builder struct {
	book     *ledger.Book
	registry registry.Registry
	names    *cache.NameCache
	labels   config.Labels
	logger   *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(book *ledger.Book, reg registry.Registry, labels config.Labels, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		book:     book,
		registry: reg,
		names:    cache.NewNameCache(),
		labels:   labels,
		logger:   logger,
	}
}

// ResetNames drops cached display names, e.g. after the catalog changed.
func (b *Builder) ResetNames() {
	b.names.Reset()
}

// BuildForDay decodes every record of loc. Undecodable values are skipped.
// With displayOnly the section is left empty.
func (b *Builder) BuildForDay(loc core.Location, mode core.CropDisplayMode, displayOnly bool) (Result, error) {
	res := Result{Section: Section{Location: loc}}

	entries, err := b.book.For(loc.Name).Entries()
	if err != nil {
		return res, err
	}

	for _, le := range entries {
		rec, err := record.Decode(le.Value)
		if err != nil {
			b.logger.Debug("Skipping undecodable record", "location", loc.Name, "key", le.StorageKey, "error", err)
			continue
		}

		e := &session.RenderEntry{
			Key:      loc.Name + "/" + le.StorageKey,
			Location: loc.Name,
			Tile:     le.Key.Tile,
			Day:      le.Key.Day,
			Record:   rec,
		}
		b.resolve(e, mode)
		res.Entries = append(res.Entries, e)

		if !displayOnly {
			res.Section.Lines = append(res.Section.Lines, Line{Name: e.Record.DisplayName, Tile: e.Tile})
		}
	}
	return res, nil
}

func (b *Builder) resolve(e *session.RenderEntry, mode core.CropDisplayMode) {
	rec := &e.Record
	switch rec.Category {
	case core.CategoryTilledSoilOnly:
		rec.DisplayName = b.labels.TilledSoil
		return
	case core.CategoryCropAtPhase:
		seed := record.QualifyObject(rec.ItemID)
		rec.DisplayName = b.displayName(seed)
		b.resolveCrop(e, seed, mode)
	default:
		rec.DisplayName = b.displayName(rec.ItemID)
		e.Visual = b.item(rec.ItemID)
	}
}

func (b *Builder) resolveCrop(e *session.RenderEntry, seed string, mode core.CropDisplayMode) {
	data, ok := b.registry.CropData(e.Record.ItemID)
	if !ok {
		// forage crops are often known only as an item
		e.Visual = b.item(seed)
		return
	}

	switch mode {
	case core.CropHarvestedProduce:
		e.Visual = b.item(record.QualifyObject(data.HarvestItemID))
	case core.CropSeedPacket:
		e.Visual = b.item(seed)
	default:
		e.Visual = b.item(seed)
		crop, err := b.registry.CreateCrop(e.Record.ItemID, e.Record.CropPhase)
		if err != nil {
			b.logger.Debug("No crop visual", "seed", e.Record.ItemID, "error", err)
			return
		}
		e.Crop = &crop
	}
}

func (b *Builder) displayName(id string) string {
	name, err := b.names.Resolve(id, b.registry.DisplayName)
	if err != nil {
		if !errors.Is(err, registry.ErrUnknownItem) {
			b.logger.Warn("Display name lookup failed", "id", id, "error", err)
		}
		return id
	}
	return name
}

func (b *Builder) item(id string) render.Drawable {
	d, err := b.registry.CreateItem(id)
	if err != nil {
		b.logger.Debug("No item visual", "id", id, "error", err)
		return nil
	}
	return d
}

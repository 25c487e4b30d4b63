// Package overlay draws today's destruction records into the world and
// points at the ones that are off screen.
package overlay

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/render"
	"github.com/spreadingweeds/extension/internal/session"
	"github.com/spreadingweeds/extension/pkg/core"
)

const (
	markerMinDistance = 144
	emoteSheetWidth   = 64
)

// World answers what currently occupies a tile.
type World interface {
	ObjectAt(location string, tile core.TilePos) (core.TileObject, bool)
	HasTerrainFeature(location string, tile core.TilePos) bool
}

// Frame is everything one draw pass needs from the host.
type Frame struct {
	Surface    render.Surface
	Viewport   Viewport
	World      World
	Location   string
	Player     render.Vec2
	Winter     bool
	DayOfMonth int
	// EmoteSheetWidth is the pixel width of the emote sheet. Zero means 64.
	EmoteSheetWidth int
}

// Renderer draws today's entries for the player's location.
type Renderer struct {
	settings func() config.ModConfig
	logger   *slog.Logger
	onFault  func()
}

// NewRenderer creates a Renderer. onFault runs once when drawing fails,
// typically to dump diagnostics.
func NewRenderer(settings func() config.ModConfig, logger *slog.Logger, onFault func()) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{settings: settings, logger: logger, onFault: onFault}
}

// DrawWorld draws one frame and advances the pulse clock. When the clock
// wraps and NewObjectResets is on, entries whose tile got built on again
// are dismissed for the rest of the day. Failures disable rendering for
// the rest of the day.
func (r *Renderer) DrawWorld(st *session.State, f Frame) {
	cfg := r.settings()
	if !cfg.ShowInWorldOverlay && !cfg.ShowX {
		return
	}
	if st.DoNotRender() {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			fault(st, r.logger, r.onFault, "world", fmt.Errorf("panic: %v", rec))
		}
	}()

	st.Clock.Advance()
	if err := r.draw(st, f, cfg); err != nil {
		fault(st, r.logger, r.onFault, "world", err)
	}
}

func (r *Renderer) draw(st *session.State, f Frame, cfg config.ModConfig) error {
	alpha := st.Clock.Alpha()
	sheetWidth := f.EmoteSheetWidth
	if sheetWidth == 0 {
		sheetWidth = emoteSheetWidth
	}

	for _, e := range st.Entries(f.Location) {
		local := f.Viewport.GlobalToLocal(render.TileOrigin(e.Tile))

		if cfg.ShowInWorldOverlay {
			if err := drawEntry(f, e, local, alpha); err != nil {
				return fmt.Errorf("draw %s: %w", e.Key, err)
			}
		}

		if cfg.ShowX {
			dist := f.Player.Dist(render.TileCenter(e.Tile))
			if dist > markerMinDistance {
				err := f.Surface.Draw(render.EmoteSprite(st.Clock.EmoteFrame(), sheetWidth), render.DrawOptions{
					Position: local.Add(render.Vec2{Y: -core.TileSize}),
					Scale:    render.PixelScale,
					Alpha:    math.Min(dist/200-0.5, 1),
				})
				if err != nil {
					return fmt.Errorf("draw marker %s: %w", e.Key, err)
				}
			}
		}

		if st.Clock.AtTrough() && cfg.NewObjectResets && f.World != nil && replaced(f.World, e) {
			st.Dismiss(e.Key)
			r.logger.Debug("Tile reused, hiding entry", "key", e.Key)
		}
	}
	return nil
}

func drawEntry(f Frame, e *session.RenderEntry, local render.Vec2, alpha float64) error {
	switch {
	case e.IsTilledSoilOnly():
		return f.Surface.Draw(render.DirtSprite(f.Winter), render.DrawOptions{
			Position: local,
			Scale:    render.PixelScale,
			Alpha:    alpha,
		})
	case e.IsCrop():
		return e.Crop.Tinted(e.Tile, f.DayOfMonth).Draw(f.Surface, local, alpha)
	case e.Visual != nil:
		return e.Visual.Draw(f.Surface, local, alpha)
	}
	return nil
}

// replaced reports whether the tile now holds something the player put
// there: any terrain feature, or an object that is not debris or forage.
func replaced(w World, e *session.RenderEntry) bool {
	if obj, ok := w.ObjectAt(e.Location, e.Tile); ok && !obj.IsDebrisOrForage {
		return true
	}
	return w.HasTerrainFeature(e.Location, e.Tile)
}

func fault(st *session.State, logger *slog.Logger, onFault func(), pass string, err error) {
	if !st.DisableRendering() {
		return
	}
	logger.Error("Overlay failed, rendering disabled for the rest of the day", "pass", pass, "error", err)
	if onFault != nil {
		onFault()
	}
}

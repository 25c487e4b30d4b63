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

// Arrow is a placed off-screen indicator in UI pixels.
type Arrow struct {
	Position render.Vec2
	Rotation float64
	Alpha    float64
}

// Rotations with the arrow sprite pointing east at 0.
const (
	RotationRight       = 0.0
	RotationDown        = math.Pi / 2
	RotationLeft        = math.Pi
	RotationUp          = -math.Pi / 2
	RotationTopRight    = -math.Pi / 4
	RotationBottomRight = math.Pi / 4
	RotationBottomLeft  = 3 * math.Pi / 4
	RotationTopLeft     = -3 * math.Pi / 4

	cornerAlpha     = 0.75
	onScreenMargin  = 32
	tallSpriteReach = core.TileSize
)

// side is -1 for the low edge, +1 for the high edge, 0 when not clamped.
func clampAxis(target, low, visible, scale, extent, margin float64) (float64, int) {
	switch {
	case target > low+visible:
		return extent - margin, 1
	case target < low:
		return margin, -1
	}
	p := (target - low) / scale
	if p >= extent-margin {
		return extent - margin, 1
	}
	if p <= margin {
		return margin, -1
	}
	return p, 0
}

// PlaceArrow places the indicator for a tile. It returns false when the
// tile, or the tile above it for tall sprites, is on screen.
func PlaceArrow(tile core.TilePos, vp Viewport, iconHeight float64) (Arrow, bool) {
	target := render.TileCenter(tile)
	if vp.IsOnScreen(target, onScreenMargin) || vp.IsOnScreen(target.Sub(render.Vec2{Y: tallSpriteReach}), onScreenMargin) {
		return Arrow{}, false
	}

	origin := vp.Origin()
	w, h := vp.UISize()
	scale := vp.UIScale() / vp.Zoom()
	margin := 2 * iconHeight

	x, sx := clampAxis(target.X, origin.X, w*scale, scale, w, margin)
	y, sy := clampAxis(target.Y, origin.Y, h*scale, scale, h, margin)

	a := Arrow{Position: render.Vec2{X: x, Y: y}, Alpha: 1}
	switch {
	case sx != 0 && sy != 0:
		a.Alpha = cornerAlpha
		switch {
		case sx > 0 && sy < 0:
			a.Rotation = RotationTopRight
		case sx > 0:
			a.Rotation = RotationBottomRight
		case sy > 0:
			a.Rotation = RotationBottomLeft
		default:
			a.Rotation = RotationTopLeft
		}
	case sx > 0:
		a.Rotation = RotationRight
	case sx < 0:
		a.Rotation = RotationLeft
	case sy > 0:
		a.Rotation = RotationDown
	case sy < 0:
		a.Rotation = RotationUp
	default:
		center := render.Vec2{X: origin.X + w*scale/2, Y: origin.Y + h*scale/2}
		d := target.Sub(center)
		a.Rotation = math.Atan2(d.Y, d.X)
	}
	return a, true
}

// Indicator draws arrows toward today's entries that are off screen.
type Indicator struct {
	settings func() config.ModConfig
	logger   *slog.Logger
	onFault  func()

	ArrowWidth  int
	ArrowHeight int
}

// NewIndicator creates an Indicator. onFault runs once when drawing fails.
func NewIndicator(settings func() config.ModConfig, logger *slog.Logger, onFault func()) *Indicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indicator{settings: settings, logger: logger, onFault: onFault, ArrowWidth: 12, ArrowHeight: 8}
}

// DrawHUD draws the arrows of one frame. Failures disable rendering for
// the rest of the day.
func (ind *Indicator) DrawHUD(st *session.State, f Frame) {
	if !ind.settings().ShowX || st.DoNotRender() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			fault(st, ind.logger, ind.onFault, "hud", fmt.Errorf("panic: %v", r))
		}
	}()
	if err := ind.draw(st, f); err != nil {
		fault(st, ind.logger, ind.onFault, "hud", err)
	}
}

func (ind *Indicator) draw(st *session.State, f Frame) error {
	sprite := render.ArrowSprite(ind.ArrowWidth, ind.ArrowHeight)
	origin := render.Vec2{X: float64(ind.ArrowWidth) / 2, Y: float64(ind.ArrowHeight) / 2}

	for _, e := range st.Entries(f.Location) {
		a, ok := PlaceArrow(e.Tile, f.Viewport, float64(ind.ArrowHeight))
		if !ok {
			continue
		}
		if err := f.Surface.Draw(sprite, render.DrawOptions{
			Position: a.Position,
			Origin:   origin,
			Scale:    render.PixelScale,
			Rotation: a.Rotation,
			Alpha:    a.Alpha,
		}); err != nil {
			return err
		}
	}
	return nil
}

package overlay

import (
	"github.com/spreadingweeds/extension/internal/geo"
	"github.com/spreadingweeds/extension/internal/render"
)

// Viewport is what the overlay needs to know about the host camera.
type Viewport interface {
	// Origin is the world pixel position of the top-left of the screen.
	Origin() render.Vec2
	// UISize is the HUD canvas size in UI pixels.
	UISize() (width, height float64)
	Zoom() float64
	UIScale() float64
	// IsOnScreen reports whether a world position is visible, allowing
	// margin world pixels beyond each edge.
	IsOnScreen(world render.Vec2, margin float64) bool
	// GlobalToLocal maps a world position to a screen position.
	GlobalToLocal(world render.Vec2) render.Vec2
}

// Camera is a plain Viewport.
type Camera struct {
	X, Y          float64
	Width, Height float64
	ZoomLevel     float64
	UIScaleLevel  float64
}

// Origin implements Viewport.
func (c Camera) Origin() render.Vec2 {
	return render.Vec2{X: c.X, Y: c.Y}
}

// UISize implements Viewport.
func (c Camera) UISize() (float64, float64) {
	return c.Width, c.Height
}

// Zoom implements Viewport. Zero means 1.
func (c Camera) Zoom() float64 {
	if c.ZoomLevel == 0 {
		return 1
	}
	return c.ZoomLevel
}

// UIScale implements Viewport. Zero means 1.
func (c Camera) UIScale() float64 {
	if c.UIScaleLevel == 0 {
		return 1
	}
	return c.UIScaleLevel
}

// WorldBounds returns the visible part of the world grown by margin.
func (c Camera) WorldBounds(margin float64) (geo.Bounds, error) {
	f := c.UIScale() / c.Zoom()
	b, err := geo.NewBounds(c.X, c.Y, c.Width*f, c.Height*f)
	if err != nil {
		return geo.Bounds{}, err
	}
	return b.Grow(margin)
}

// IsOnScreen implements Viewport. A camera with non-finite bounds shows
// nothing.
func (c Camera) IsOnScreen(world render.Vec2, margin float64) bool {
	b, err := c.WorldBounds(margin)
	if err != nil {
		return false
	}
	return b.Contains(world.X, world.Y)
}

// GlobalToLocal implements Viewport.
func (c Camera) GlobalToLocal(world render.Vec2) render.Vec2 {
	return world.Sub(c.Origin())
}

package main

import (
	"github.com/spreadingweeds/extension/internal/overlay"
	"github.com/spreadingweeds/extension/internal/render"
	"github.com/spreadingweeds/extension/pkg/core"
)

// emptyWorld is a location where nothing has been placed since the night.
type emptyWorld struct{}

func (emptyWorld) ObjectAt(string, core.TilePos) (core.TileObject, bool) { return core.TileObject{}, false }
func (emptyWorld) HasTerrainFeature(string, core.TilePos) bool         { return false }

// scene is a player walking a location with the camera centered on them.
type scene struct {
	location string
	player   core.TilePos
	width    float64
	height   float64
}

// move walks the player by dx, dy tiles.
func (s *scene) move(dx, dy int) {
	s.player.X += dx
	s.player.Y += dy
}

// camera returns the viewport for a screen of the scene's size in UI
// pixels at zoom and UI scale 1.
func (s *scene) camera() overlay.Camera {
	center := render.TileCenter(s.player)
	return overlay.Camera{
		X:      center.X - s.width/2,
		Y:      center.Y - s.height/2,
		Width:  s.width,
		Height: s.height,
	}
}

func (s *scene) frame(surface render.Surface) overlay.Frame {
	return overlay.Frame{
		Surface:  surface,
		Viewport: s.camera(),
		World:    emptyWorld{},
		Location: s.location,
		Player:   render.TileCenter(s.player),
	}
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spreadingweeds/extension/internal/render"
	"github.com/spreadingweeds/extension/pkg/core"
)

func TestScene_CameraFollowsPlayer(t *testing.T) {
	s := &scene{location: "Farm", player: core.TilePos{X: 10, Y: 10}, width: 1280, height: 720}

	cam := s.camera()
	assert.Equal(t, 672.0-640, cam.X)
	assert.Equal(t, 672.0-360, cam.Y)
	assert.True(t, cam.IsOnScreen(render.TileCenter(s.player), 0))

	s.move(1, -2)
	assert.Equal(t, core.TilePos{X: 11, Y: 8}, s.player)
	assert.Equal(t, 736.0-640, s.camera().X)

	f := s.frame(nil)
	assert.Equal(t, "Farm", f.Location)
	assert.Equal(t, render.TileCenter(core.TilePos{X: 11, Y: 8}), f.Player)
	_, found := f.World.ObjectAt("Farm", s.player)
	assert.False(t, found)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadingweeds/extension/internal/parser"
	"github.com/spreadingweeds/extension/pkg/core"
)

func TestLoadNight(t *testing.T) {
	n, err := loadNight("testdata/night.yaml")
	require.NoError(t, err)

	assert.Equal(t, nightDate{TotalDays: 6, DayOfMonth: 6, Season: "spring"}, n.Date)
	require.Len(t, n.Locations, 1)
	assert.Equal(t, "Pelican Farm", n.Locations[0].DisplayName)
	require.Len(t, n.Tiles, 3)
	require.NotNil(t, n.Tiles[1].Terrain)
	require.NotNil(t, n.Tiles[1].Terrain.Crop)
	assert.Equal(t, "472", n.Tiles[1].Terrain.Crop.SeedID)
	assert.Equal(t, core.ObjectChest, n.Tiles[2].Object.Kind)
}

func TestParseNight_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "date: [unterminated"},
		{"missing day", "tiles: []"},
		{"tile without debris", "date: {totalDays: 2}\ntiles:\n  - location: Farm\n"},
		{"tile without location", "date: {totalDays: 2}\ntiles:\n  - debris: Weeds\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseNight([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseNight_DefaultDayOfMonth(t *testing.T) {
	n, err := parseNight([]byte("date: {totalDays: 30}"))
	require.NoError(t, err)
	assert.Equal(t, 2, n.Date.DayOfMonth)
	assert.Equal(t, []string{"30", "2", ""}, n.dayArgs())
}

func TestTileArgs_RoundTripThroughParser(t *testing.T) {
	n, err := loadNight("testdata/night.yaml")
	require.NoError(t, err)
	p := parser.NewParser(nil)

	args, err := n.tileArgs(n.Tiles[0])
	require.NoError(t, err)
	ev, err := p.ParseTileDestroyed(args)
	require.NoError(t, err)
	assert.Equal(t, "Farm", ev.Location)
	assert.Equal(t, core.TilePos{X: 10, Y: 10}, ev.Tile)
	assert.Equal(t, 5, ev.Day)
	assert.Equal(t, "(O)343", ev.DebrisKind)
	require.NotNil(t, ev.Object)
	assert.Equal(t, *n.Tiles[0].Object, *ev.Object)
	assert.Nil(t, ev.Terrain)

	args, err = n.tileArgs(n.Tiles[1])
	require.NoError(t, err)
	ev, err = p.ParseTileDestroyed(args)
	require.NoError(t, err)
	require.NotNil(t, ev.Terrain)
	assert.Equal(t, *n.Tiles[1].Terrain.Crop, *ev.Terrain.Crop)
}

func TestTileArgs_ExplicitDay(t *testing.T) {
	day := 2
	n := &nightFile{Date: nightDate{TotalDays: 6}}
	args, err := n.tileArgs(nightTile{Location: "Farm", Debris: "Weeds", Day: &day})
	require.NoError(t, err)
	assert.Equal(t, []string{"Farm", "0,0", "Weeds", "", "", "false", "2"}, args)
}

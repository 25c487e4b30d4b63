package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadingweeds/extension/pkg/core"
)

func newTestParser() *Parser {
	return NewParser(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestParseIntFromFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"32", 32, false},
		{"32.00", 32, false},
		{"-1", -1, false},
		{"-1.0", -1, false},
		{"1.5", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseIntFromFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTileDestroyed(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, e core.TileDestroyed)
		wantErr bool
	}{
		{
			name: "object removal",
			input: []string{
				`"Farm"`, `"10,12"`, `"Stone"`,
				`"{""qualifiedId"":""(O)24"",""name"":""Parsnip"",""category"":-75}"`,
				`""`, "false", "5",
			},
			check: func(t *testing.T, e core.TileDestroyed) {
				assert.Equal(t, "Farm", e.Location)
				assert.Equal(t, core.TilePos{X: 10, Y: 12}, e.Tile)
				assert.Equal(t, "Stone", e.DebrisKind)
				require.NotNil(t, e.Object)
				assert.Equal(t, "(O)24", e.Object.QualifiedID)
				assert.Equal(t, "Parsnip", e.Object.Name)
				assert.Equal(t, -75, e.Object.Category)
				assert.Nil(t, e.Terrain)
				assert.False(t, e.GreenRain)
				assert.Equal(t, 5, e.Day)
			},
		},
		{
			name: "crop on tilled soil",
			input: []string{
				"Farm", "12.0,10.0", "Weeds", "null",
				`{"kind":"tilledSoil","crop":{"seedId":"472","harvestItemId":"24","currentPhase":2}}`,
				"true", "5.0",
			},
			check: func(t *testing.T, e core.TileDestroyed) {
				assert.Equal(t, core.TilePos{X: 12, Y: 10}, e.Tile)
				assert.Nil(t, e.Object)
				require.NotNil(t, e.Terrain)
				assert.Equal(t, core.TerrainTilledSoil, e.Terrain.Kind)
				require.NotNil(t, e.Terrain.Crop)
				assert.Equal(t, "472", e.Terrain.Crop.SeedID)
				assert.Equal(t, 2, e.Terrain.Crop.CurrentPhase)
				assert.True(t, e.GreenRain)
			},
		},
		{
			name:  "does not modify input",
			input: []string{`"Farm"`, "1,1", "Twig", "", "", "0", "1"},
			check: func(t *testing.T, e core.TileDestroyed) {
				assert.Equal(t, "Farm", e.Location)
			},
		},
		{name: "too few fields", input: []string{"Farm", "1,1"}, wantErr: true},
		{name: "bad tile", input: []string{"Farm", "1", "Weeds", "", "", "0", "1"}, wantErr: true},
		{name: "empty location", input: []string{`""`, "1,1", "Weeds", "", "", "0", "1"}, wantErr: true},
		{name: "empty debris", input: []string{"Farm", "1,1", "", "", "", "0", "1"}, wantErr: true},
		{name: "bad object json", input: []string{"Farm", "1,1", "Weeds", "{oops", "", "0", "1"}, wantErr: true},
		{name: "bad terrain json", input: []string{"Farm", "1,1", "Weeds", "", "{oops", "0", "1"}, wantErr: true},
		{name: "bad flag", input: []string{"Farm", "1,1", "Weeds", "", "", "perhaps", "1"}, wantErr: true},
		{name: "bad day", input: []string{"Farm", "1,1", "Weeds", "", "", "0", "1.5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.input...)
			e, err := p.ParseTileDestroyed(tt.input)
			assert.Equal(t, original, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, e)
		})
	}
}

func TestParseTileDestroyed_InsufficientFields(t *testing.T) {
	_, err := newTestParser().ParseTileDestroyed(nil)
	assert.ErrorIs(t, err, ErrInsufficientFields)
}

func TestParseDate(t *testing.T) {
	p := newTestParser()

	d, err := p.ParseDate([]string{"33.0", "5", `"Summer"`})
	require.NoError(t, err)
	assert.Equal(t, core.Date{TotalDays: 33, DayOfMonth: 5, Season: core.SeasonSummer}, d)

	d, err = p.ParseDate([]string{"1", "1"})
	require.NoError(t, err)
	assert.Equal(t, core.Date{TotalDays: 1, DayOfMonth: 1}, d)

	_, err = p.ParseDate([]string{"1"})
	assert.ErrorIs(t, err, ErrInsufficientFields)

	_, err = p.ParseDate([]string{"x", "1"})
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	p := newTestParser()

	loc, err := p.ParseLocation([]string{`"Farm"`, `"Pelican Farm"`})
	require.NoError(t, err)
	assert.Equal(t, core.Location{Name: "Farm", DisplayName: "Pelican Farm"}, loc)

	loc, err = p.ParseLocation([]string{"Town"})
	require.NoError(t, err)
	assert.Equal(t, "Town", loc.Label())

	_, err = p.ParseLocation([]string{`""`})
	assert.Error(t, err)

	_, err = p.ParseLocation(nil)
	assert.ErrorIs(t, err, ErrInsufficientFields)
}

func TestParseCommand(t *testing.T) {
	p := newTestParser()

	cmd, err := p.ParseCommand([]string{`"Report"`})
	require.NoError(t, err)
	assert.Equal(t, "report", cmd)

	_, err = p.ParseCommand([]string{})
	assert.ErrorIs(t, err, ErrInsufficientFields)
}

// Package parser converts raw host arguments into core values.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spreadingweeds/extension/internal/geo"
	"github.com/spreadingweeds/extension/internal/util"
	"github.com/spreadingweeds/extension/pkg/core"
)

// ErrInsufficientFields is returned when a command carries fewer
// arguments than it needs.
var ErrInsufficientFields = errors.New("insufficient fields")

// parseIntFromFloat parses a string that may be an integer ("32") or float ("32.00") into int.
// The host serializes every number as a float.
func parseIntFromFloat(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int", s)
	}
	return int(f), nil
}

// Parser provides pure []string -> core struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// clean returns a copy of data with host quoting undone.
func clean(data []string, want int) ([]string, error) {
	if len(data) < want {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientFields, len(data), want)
	}
	out := make([]string, len(data))
	for i, v := range data {
		out[i] = util.CleanArg(v)
	}
	return out, nil
}

// ParseTileDestroyed parses one removal reported by the host:
//
//	location, "x,y", debrisId, objectJson, terrainJson, greenRain, day
//
// Either JSON argument may be empty or null.
func (p *Parser) ParseTileDestroyed(data []string) (core.TileDestroyed, error) {
	var ev core.TileDestroyed

	data, err := clean(data, 7)
	if err != nil {
		return ev, err
	}

	ev.Location = data[0]
	if ev.Location == "" {
		return ev, errors.New("empty location name")
	}

	ev.Tile, err = geo.TileFromString(data[1])
	if err != nil {
		return ev, fmt.Errorf("error parsing tile %q: %w", data[1], err)
	}

	ev.DebrisKind = data[2]
	if ev.DebrisKind == "" {
		return ev, errors.New("empty debris id")
	}

	if !util.IsNullJSON(data[3]) {
		var obj core.RemovedObject
		if err := json.Unmarshal([]byte(data[3]), &obj); err != nil {
			return ev, fmt.Errorf("error unmarshalling object data: %w", err)
		}
		ev.Object = &obj
	}

	if !util.IsNullJSON(data[4]) {
		var terrain core.RemovedTerrain
		if err := json.Unmarshal([]byte(data[4]), &terrain); err != nil {
			return ev, fmt.Errorf("error unmarshalling terrain data: %w", err)
		}
		ev.Terrain = &terrain
	}

	ev.GreenRain, err = util.ParseFlag(data[5])
	if err != nil {
		return ev, fmt.Errorf("error parsing green rain flag: %w", err)
	}

	ev.Day, err = parseIntFromFloat(data[6])
	if err != nil {
		return ev, fmt.Errorf("error parsing day: %w", err)
	}

	p.logger.Debug("Parsed tile destroyed",
		"location", ev.Location,
		"tile", ev.Tile.String(),
		"debris", ev.DebrisKind,
		"hasObject", ev.Object != nil,
		"hasTerrain", ev.Terrain != nil)

	return ev, nil
}

// ParseDate parses "totalDays, dayOfMonth[, season]".
func (p *Parser) ParseDate(data []string) (core.Date, error) {
	var date core.Date

	data, err := clean(data, 2)
	if err != nil {
		return date, err
	}

	date.TotalDays, err = parseIntFromFloat(data[0])
	if err != nil {
		return date, fmt.Errorf("error parsing total days: %w", err)
	}
	date.DayOfMonth, err = parseIntFromFloat(data[1])
	if err != nil {
		return date, fmt.Errorf("error parsing day of month: %w", err)
	}
	if len(data) > 2 {
		date.Season = core.Season(strings.ToLower(data[2]))
	}
	return date, nil
}

// ParseLocation parses "name[, displayName]".
func (p *Parser) ParseLocation(data []string) (core.Location, error) {
	var loc core.Location

	data, err := clean(data, 1)
	if err != nil {
		return loc, err
	}
	loc.Name = data[0]
	if loc.Name == "" {
		return loc, errors.New("empty location name")
	}
	if len(data) > 1 {
		loc.DisplayName = data[1]
	}
	return loc, nil
}

// ParseCommand returns the console command name, lowercased.
func (p *Parser) ParseCommand(data []string) (string, error) {
	data, err := clean(data, 1)
	if err != nil {
		return "", err
	}
	return strings.ToLower(data[0]), nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spreadingweeds/extension/pkg/core"
)

// nightFile is a scripted night: what the host would report while the
// debris spreads, followed by the next morning.
type nightFile struct {
	Date      nightDate       `yaml:"date"`
	Locations []nightLocation `yaml:"locations"`
	Tiles     []nightTile     `yaml:"tiles"`
}

type nightDate struct {
	TotalDays  int    `yaml:"totalDays"`
	DayOfMonth int    `yaml:"dayOfMonth"`
	Season     string `yaml:"season"`
}

type nightLocation struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
}

type nightTile struct {
	Location  string               `yaml:"location"`
	X         int                  `yaml:"x"`
	Y         int                  `yaml:"y"`
	Debris    string               `yaml:"debris"`
	GreenRain bool                 `yaml:"greenRain"`
	Day       *int                 `yaml:"day"`
	Object    *core.RemovedObject  `yaml:"object"`
	Terrain   *core.RemovedTerrain `yaml:"terrain"`
}

func loadNight(path string) (*nightFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseNight(data)
}

func parseNight(data []byte) (*nightFile, error) {
	var n nightFile
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("error parsing night: %w", err)
	}
	if n.Date.TotalDays < 1 {
		return nil, fmt.Errorf("night: date.totalDays must be at least 1, got %d", n.Date.TotalDays)
	}
	if n.Date.DayOfMonth == 0 {
		n.Date.DayOfMonth = (n.Date.TotalDays-1)%28 + 1
	}
	for i, t := range n.Tiles {
		if t.Location == "" || t.Debris == "" {
			return nil, fmt.Errorf("night: tile %d needs a location and a debris id", i)
		}
	}
	return &n, nil
}

// dayArgs renders the morning as :DAY:START: arguments.
func (n *nightFile) dayArgs() []string {
	return []string{strconv.Itoa(n.Date.TotalDays), strconv.Itoa(n.Date.DayOfMonth), n.Date.Season}
}

// tileArgs renders t as :TILE:DESTROYED: arguments. The night belongs to
// the day before the morning unless the tile names its own day.
func (n *nightFile) tileArgs(t nightTile) ([]string, error) {
	day := n.Date.TotalDays - 1
	if t.Day != nil {
		day = *t.Day
	}
	object, err := jsonArg(t.Object)
	if err != nil {
		return nil, err
	}
	terrain, err := jsonArg(t.Terrain)
	if err != nil {
		return nil, err
	}
	return []string{
		t.Location,
		fmt.Sprintf("%d,%d", t.X, t.Y),
		t.Debris,
		object,
		terrain,
		strconv.FormatBool(t.GreenRain),
		strconv.Itoa(day),
	}, nil
}

// jsonArg encodes v the way the host quotes a string argument: wrapped in
// double quotes with inner quotes doubled.
func jsonArg[T any](v *T) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return `"` + strings.ReplaceAll(string(b), `"`, `""`) + `"`, nil
}

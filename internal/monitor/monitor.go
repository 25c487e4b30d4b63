// Package monitor renders diagnostic dumps of the settings and every
// namespaced ledger entry.
package monitor

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/ledger"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Book     *ledger.Book
	Settings func() config.ModConfig
	Logger   *slog.Logger
}

// Service produces data dumps.
type Service struct {
	deps Dependencies
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// ConfigLine describes the player-facing options on one line.
func ConfigLine(c config.ModConfig) string {
	return fmt.Sprintf("Config: ShowX=%t NewObjectResets=%t CropImages=%q ShowHUDDamageReport=%t ShowInWorldOverlay=%t",
		c.ShowX, c.NewObjectResets, c.CropImages, c.ShowHUDDamageReport, c.ShowInWorldOverlay)
}

// DataLines returns the settings, the view scale and one
// "{location} | {key} | {value}" line per stored entry.
func (s *Service) DataLines(zoom, uiScale float64) ([]string, error) {
	lines := []string{
		ConfigLine(s.deps.Settings()),
		fmt.Sprintf("Zoom: %.2f UI scale: %.2f", zoom, uiScale),
	}

	locations, err := s.deps.Book.Locations()
	if err != nil {
		return lines, fmt.Errorf("error listing locations: %w", err)
	}
	for _, loc := range locations {
		raw, err := s.deps.Book.For(loc).Raw()
		if err != nil {
			return lines, fmt.Errorf("error reading %s: %w", loc, err)
		}
		for _, e := range raw {
			lines = append(lines, fmt.Sprintf("%s | %s | %s", loc, e.Key, e.Value))
		}
	}
	return lines, nil
}

// Dump logs the full data dump at error level. It is used once when
// rendering faults.
func (s *Service) Dump(zoom, uiScale float64) {
	lines, err := s.DataLines(zoom, uiScale)
	for _, line := range lines {
		s.deps.Logger.Error(line, "function", "dump")
	}
	if err != nil {
		s.deps.Logger.Error("Incomplete data dump", "error", err)
	}
}

// WriteStatus writes the data dump to path, replacing its contents.
func (s *Service) WriteStatus(path string, zoom, uiScale float64) error {
	lines, err := s.DataLines(zoom, uiScale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("error writing status file: %w", err)
	}
	return nil
}

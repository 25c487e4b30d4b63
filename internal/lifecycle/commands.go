package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// NoReport is returned by Report before any damage was reported today.
const NoReport = "No damage report today."

// Data dumps the options, the last seen view scale and every namespaced
// ledger entry of every location.
func (m *Manager) Data() (string, error) {
	v := m.view.Load()
	lines, err := m.monitor.DataLines(v.zoom, v.uiScale)
	return strings.Join(lines, "\n"), err
}

// WriteData writes the data dump to path instead of returning it.
func (m *Manager) WriteData(path string) error {
	v := m.view.Load()
	return m.monitor.WriteStatus(path, v.zoom, v.uiScale)
}

// Clear removes every namespaced key from every location, sentinels
// included, and empties the render set.
func (m *Manager) Clear() (string, error) {
	names, err := m.book.Locations()
	if err != nil {
		return "", fmt.Errorf("error listing locations: %w", err)
	}

	var errs []error
	for _, name := range names {
		if _, err := m.book.For(name).ClearAll(); err != nil {
			errs = append(errs, err)
		}
	}
	m.state.ClearEntries()
	if err := m.book.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return "", err
	}
	return "Cleared all data for " + m.book.Namespace(), nil
}

// Report returns the console variant of the last damage report.
func (m *Manager) Report() string {
	_, console := m.state.Report()
	if console == "" {
		return NoReport
	}
	return console
}

// Run executes a console command by name.
func (m *Manager) Run(command string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "data":
		return m.Data()
	case "clear":
		return m.Clear()
	case "report":
		return m.Report(), nil
	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}

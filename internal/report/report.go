// Package report rebuilds a location's render entries and damage report
// text from its ledger.
package report

import (
	"fmt"
	"strings"

	"github.com/spreadingweeds/extension/pkg/core"
)

// Line is one destroyed thing in a report.
type Line struct {
	Name string
	Tile core.TilePos
}

// Section is the report of one location.
type Section struct {
	Location core.Location
	Lines    []Line
}

// Empty reports whether the section has nothing to say.
func (s Section) Empty() bool {
	return len(s.Lines) == 0
}

// HUDText renders the section for the on-screen message.
func (s Section) HUDText() string {
	if s.Empty() {
		return ""
	}
	names := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		names[i] = l.Name
	}
	return "\n\n" + s.Location.Label() + ":\n-----\n" + strings.Join(names, ", ")
}

// ConsoleText renders the section with tile coordinates.
func (s Section) ConsoleText() string {
	if s.Empty() {
		return ""
	}
	items := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		items[i] = fmt.Sprintf("%s (%s)", l.Name, l.Tile)
	}
	return "\n" + s.Location.Label() + ": " + strings.Join(items, ", ")
}

// Report is the damage report of one morning.
type Report struct {
	Title    string
	Sections []Section
}

// Add appends a section if it has any lines.
func (r *Report) Add(s Section) {
	if !s.Empty() {
		r.Sections = append(r.Sections, s)
	}
}

// Empty reports whether no location had damage.
func (r Report) Empty() bool {
	return len(r.Sections) == 0
}

// Display renders the report for the HUD. An empty report renders as "".
func (r Report) Display() string {
	if r.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Title)
	for _, s := range r.Sections {
		b.WriteString(s.HUDText())
	}
	return b.String()
}

// Console renders the report for the command console.
func (r Report) Console() string {
	if r.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Title)
	for _, s := range r.Sections {
		b.WriteString(s.ConsoleText())
	}
	return b.String()
}

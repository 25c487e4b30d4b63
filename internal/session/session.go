// Package session holds the in-memory state of the current play session:
// the active render set, the animation clock, the last built report and
// the fail-soft render flag. Nothing here is persisted.
package session

import (
	"math"
	"sort"
	"sync"

	"github.com/spreadingweeds/extension/internal/render"
	"github.com/spreadingweeds/extension/pkg/core"
)

// RenderEntry is one destruction shown in the world today.
type RenderEntry struct {
	// Key is the location name, a slash, and the ledger key.
	Key      string
	Location string
	Tile     core.TilePos
	Day      int
	Record   core.DestructionRecord
	// Visual is the entity drawable. Nil when nothing could be resolved.
	Visual render.Drawable
	// Crop is set when the entry is drawn as a growing plant.
	Crop *render.CropSprite
}

// IsCrop reports whether the entry draws as a growing plant.
func (e *RenderEntry) IsCrop() bool {
	return e.Crop != nil
}

// IsTilledSoilOnly reports whether the entry draws as a bare dirt patch.
func (e *RenderEntry) IsTilledSoilOnly() bool {
	return e.Record.IsTilledSoilOnly()
}

const clockPeriod = 100

// Clock is the overlay pulse. Its value rises from 0 to 2 in steps of
// 0.02 and wraps back to 0.
type Clock struct {
	ticks int
}

// Advance moves the clock one frame forward.
func (c *Clock) Advance() {
	c.ticks++
	if c.ticks > clockPeriod {
		c.ticks = 0
	}
}

// Value returns the clock position in [0, 2].
func (c *Clock) Value() float64 {
	return float64(c.ticks) / (clockPeriod / 2)
}

// AtTrough reports whether the clock just wrapped.
func (c *Clock) AtTrough() bool {
	return c.ticks == 0
}

// Triangle folds the value into a 0..1..0 wave.
func (c *Clock) Triangle() float64 {
	v := c.Value()
	if v > 1 {
		return 2 - v
	}
	return v
}

// Alpha is the overlay opacity for the current frame.
func (c *Clock) Alpha() float64 {
	return math.Min(1, 0.2+0.75*c.Triangle())
}

// EmoteFrame is the emote sheet index of the marker for the current frame.
func (c *Clock) EmoteFrame() int {
	return 36 + int(math.RoundToEven(c.Value()*6))%4
}

// Reset puts the clock back to its trough.
func (c *Clock) Reset() {
	c.ticks = 0
}

// State is owned by the lifecycle manager. It is safe for concurrent use
// so a config reload on the watcher goroutine can rebuild the render set.
type State struct {
	mu        sync.RWMutex
	entries   map[string]*RenderEntry
	dismissed map[string]struct{}

	Clock Clock

	doNotRender   bool
	displayReport string
	consoleReport string
	date          core.Date
	location      core.Location
}

// New creates an empty session.
func New() *State {
	return &State{
		entries:   make(map[string]*RenderEntry),
		dismissed: make(map[string]struct{}),
	}
}

// Put adds an entry to the render set. Entries dismissed earlier today are
// refused and Put returns false.
func (s *State) Put(e *RenderEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dismissed[e.Key]; ok {
		return false
	}
	s.entries[e.Key] = e
	return true
}

// Get returns the entry with key.
func (s *State) Get(key string) (*RenderEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Dismiss removes an entry for the rest of the day.
func (s *State) Dismiss(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.dismissed[key] = struct{}{}
}

// IsDismissed reports whether key was dismissed today.
func (s *State) IsDismissed(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dismissed[key]
	return ok
}

// Entries returns the entries of one location ordered by day, x, then y.
func (s *State) Entries(location string) []*RenderEntry {
	s.mu.RLock()
	out := make([]*RenderEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Location == location {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Tile.X != b.Tile.X {
			return a.Tile.X < b.Tile.X
		}
		return a.Tile.Y < b.Tile.Y
	})
	return out
}

// Len returns the size of the render set.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Unload drops the entries of one location without dismissing them.
func (s *State) Unload(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if e.Location == location {
			delete(s.entries, k)
		}
	}
}

// ClearEntries empties the render set.
func (s *State) ClearEntries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*RenderEntry)
}

// EndDay clears everything that only lives for one day.
func (s *State) EndDay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*RenderEntry)
	s.dismissed = make(map[string]struct{})
	s.doNotRender = false
	s.Clock.Reset()
}

// DoNotRender reports whether rendering is disabled for the day.
func (s *State) DoNotRender() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doNotRender
}

// DisableRendering turns rendering off until the day ends. It returns true
// only for the call that flipped the flag.
func (s *State) DisableRendering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doNotRender {
		return false
	}
	s.doNotRender = true
	return true
}

// SetReport stores the last built report texts.
func (s *State) SetReport(display, console string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayReport = display
	s.consoleReport = console
}

// Report returns the last built report texts.
func (s *State) Report() (display, console string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayReport, s.consoleReport
}

// SetDate records the current in-game date.
func (s *State) SetDate(d core.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = d
}

// Date returns the current in-game date.
func (s *State) Date() core.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

// SetLocation records where the player is.
func (s *State) SetLocation(l core.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = l
}

// Location returns where the player is.
func (s *State) Location() core.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

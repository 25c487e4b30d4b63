// Package lifecycle ties the recorder, the ledger, the report builder and
// the overlay to the host's day cycle.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spreadingweeds/extension/internal/classifier"
	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/ledger"
	"github.com/spreadingweeds/extension/internal/monitor"
	"github.com/spreadingweeds/extension/internal/overlay"
	"github.com/spreadingweeds/extension/internal/registry"
	"github.com/spreadingweeds/extension/internal/report"
	"github.com/spreadingweeds/extension/internal/session"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/spreadingweeds/extension/pkg/core"
)

// Notifier shows a transient message to the player.
type Notifier interface {
	ShowMessage(text string)
}

// DamageSink receives the records found for each location at day start.
type DamageSink interface {
	WriteDamage(ctx context.Context, date core.Date, location string, records []core.DestructionRecord) error
}

// Options configure a Manager. Backend and Registry are required.
type Options struct {
	Backend  storage.Backend
	Registry registry.Registry
	Ledger   config.LedgerConfig
	Labels   config.Labels
	Settings config.ModConfig
	Notifier Notifier
	Sink     DamageSink
	// Describe maps a location name to its display name. Nil leaves the
	// display name empty.
	Describe func(name string) core.Location
	// Persist writes options saved through SaveConfig. Nil keeps them in
	// memory only.
	Persist  func(config.ModConfig) error
	Logger   *slog.Logger
}

type viewScale struct {
	zoom, uiScale float64
}

// Manager owns the session state and drives every component from the
// host's callbacks.
type Manager struct {
	book      *ledger.Book
	state     *session.State
	builder   *report.Builder
	recorder  *classifier.Recorder
	renderer  *overlay.Renderer
	indicator *overlay.Indicator
	monitor   *monitor.Service

	settings atomic.Pointer[config.ModConfig]
	view     atomic.Pointer[viewScale]
	labels   config.Labels
	notifier Notifier
	sink     DamageSink
	describe func(string) core.Location
	persist  func(config.ModConfig) error
	logger   *slog.Logger
}

// New creates a Manager with an empty session.
func New(opts Options) (*Manager, error) {
	if opts.Backend == nil {
		return nil, ledger.ErrNoBackend
	}
	if opts.Registry == nil {
		return nil, errors.New("lifecycle: registry is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Describe == nil {
		opts.Describe = func(name string) core.Location { return core.Location{Name: name} }
	}

	book := ledger.NewBook(opts.Backend, opts.Ledger)
	recorder, err := classifier.NewRecorder(book, opts.Registry, nil, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("error creating recorder: %w", err)
	}

	m := &Manager{
		book:     book,
		state:    session.New(),
		builder:  report.NewBuilder(book, opts.Registry, opts.Labels, opts.Logger),
		recorder: recorder,
		labels:   opts.Labels,
		notifier: opts.Notifier,
		sink:     opts.Sink,
		describe: opts.Describe,
		persist:  opts.Persist,
		logger:   opts.Logger,
	}
	settings := opts.Settings
	m.settings.Store(&settings)
	m.view.Store(&viewScale{zoom: 1, uiScale: 1})

	m.monitor = monitor.NewService(monitor.Dependencies{Book: book, Settings: m.Settings, Logger: opts.Logger})
	m.renderer = overlay.NewRenderer(m.Settings, opts.Logger, m.dumpDiagnostics)
	m.indicator = overlay.NewIndicator(m.Settings, opts.Logger, m.dumpDiagnostics)
	return m, nil
}

// Settings returns the current player-facing options.
func (m *Manager) Settings() config.ModConfig {
	return *m.settings.Load()
}

// State exposes the session, mostly for tools and tests.
func (m *Manager) State() *session.State {
	return m.state
}

// Book returns the ledger book.
func (m *Manager) Book() *ledger.Book {
	return m.book
}

// OnDayStarted builds the render set and the damage report for every
// location that ever recorded damage, and shows the report when enabled.
// It returns the HUD text of the report.
func (m *Manager) OnDayStarted(date core.Date) (string, error) {
	m.state.SetDate(date)
	cfg := m.Settings()

	names, err := m.book.DamagedLocations()
	if err != nil {
		return "", fmt.Errorf("error listing damaged locations: %w", err)
	}

	rep := report.Report{Title: m.labels.ReportTitle}
	var errs []error
	for _, name := range names {
		res, err := m.builder.BuildForDay(m.describe(name), cfg.CropMode(), false)
		if err != nil {
			errs = append(errs, fmt.Errorf("error building %s: %w", name, err))
			continue
		}
		m.put(res.Entries)
		rep.Add(res.Section)
		m.writeDamage(date, name, res.Entries)
	}

	display := rep.Display()
	m.state.SetReport(display, rep.Console())
	if display != "" && cfg.ShowHUDDamageReport && m.notifier != nil {
		m.notifier.ShowMessage(display)
	}
	m.logger.Info("Day started", "day", date.TotalDays, "locations", len(names), "entries", m.state.Len())
	return display, errors.Join(errs...)
}

func (m *Manager) writeDamage(date core.Date, location string, entries []*session.RenderEntry) {
	if m.sink == nil || len(entries) == 0 {
		return
	}
	records := make([]core.DestructionRecord, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}
	if err := m.sink.WriteDamage(context.Background(), date, location, records); err != nil {
		m.logger.Warn("Failed to export damage counts", "location", location, "error", err)
	}
}

func (m *Manager) put(entries []*session.RenderEntry) {
	for _, e := range entries {
		m.state.Put(e)
	}
}

func (m *Manager) rebuild(loc core.Location) error {
	res, err := m.builder.BuildForDay(loc, m.Settings().CropMode(), true)
	if err != nil {
		return fmt.Errorf("error rebuilding %s: %w", loc.Name, err)
	}
	m.put(res.Entries)
	return nil
}

// OnWarped refreshes the render set of the location the player entered.
// No report text is produced.
func (m *Manager) OnWarped(loc core.Location) error {
	m.state.SetLocation(loc)
	return m.rebuild(loc)
}

// OnDayEnding clears every dated record of every location, keeping the
// sentinel, and resets the session. Calling it twice is harmless.
func (m *Manager) OnDayEnding() error {
	names, err := m.book.Locations()
	if err != nil {
		return fmt.Errorf("error listing locations: %w", err)
	}

	var errs []error
	removed := 0
	for _, name := range names {
		n, err := m.book.For(name).ClearDay()
		if err != nil {
			errs = append(errs, err)
		}
		removed += n
	}

	m.state.EndDay()
	if err := m.book.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("error flushing ledger: %w", err))
	}
	m.logger.Info("Day ended", "removed", removed)
	return errors.Join(errs...)
}

// OnSaveLoaded drops the whole session. The ledger is part of the save
// and is left alone.
func (m *Manager) OnSaveLoaded() {
	m.state.EndDay()
	m.state.SetReport("", "")
	m.state.SetLocation(core.Location{})
	m.builder.ResetNames()
}

// OnTileDestroyed records one destruction from the nightly pass.
func (m *Manager) OnTileDestroyed(in core.TileDestroyed) (classifier.Outcome, error) {
	return m.recorder.OnTileDestroyed(in)
}

// OnConfigChanged applies new options and rebuilds the current location
// so crop images and toggles take effect immediately.
func (m *Manager) OnConfigChanged(cfg config.ModConfig) error {
	m.settings.Store(&cfg)
	loc := m.state.Location()
	if loc.Name == "" {
		return nil
	}
	m.state.Unload(loc.Name)
	return m.rebuild(loc)
}

// SaveConfig persists cfg and then applies it like OnConfigChanged. When
// persisting fails nothing is applied.
func (m *Manager) SaveConfig(cfg config.ModConfig) error {
	if m.persist != nil {
		if err := m.persist(cfg); err != nil {
			return fmt.Errorf("error saving options: %w", err)
		}
	}
	return m.OnConfigChanged(cfg)
}

// DrawWorld draws today's entries into the world. Missing frame fields
// are taken from the session.
func (m *Manager) DrawWorld(f overlay.Frame) {
	m.renderer.DrawWorld(m.state, m.frame(f))
}

// DrawHUD draws the off-screen arrows.
func (m *Manager) DrawHUD(f overlay.Frame) {
	m.indicator.DrawHUD(m.state, m.frame(f))
}

func (m *Manager) frame(f overlay.Frame) overlay.Frame {
	date := m.state.Date()
	if f.Location == "" {
		f.Location = m.state.Location().Name
	}
	if f.DayOfMonth == 0 {
		f.DayOfMonth = date.DayOfMonth
	}
	if date.Season == core.SeasonWinter {
		f.Winter = true
	}
	if f.Viewport != nil {
		m.view.Store(&viewScale{zoom: f.Viewport.Zoom(), uiScale: f.Viewport.UIScale()})
	}
	return f
}

func (m *Manager) dumpDiagnostics() {
	v := m.view.Load()
	m.monitor.Dump(v.zoom, v.uiScale)
}

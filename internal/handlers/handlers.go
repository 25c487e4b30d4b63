// Package handlers binds host commands to the day lifecycle.
package handlers

import (
	"errors"
	"log/slog"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/dispatcher"
	"github.com/spreadingweeds/extension/internal/lifecycle"
	"github.com/spreadingweeds/extension/internal/parser"
)

// Host commands.
const (
	CmdTileDestroyed = ":TILE:DESTROYED:"
	CmdDayStart      = ":DAY:START:"
	CmdDayEnd        = ":DAY:END:"
	CmdWarp          = ":WARP:"
	CmdSaveLoaded    = ":SAVE:LOADED:"
	CmdConfigReload  = ":CONFIG:RELOAD:"
	CmdConsole       = ":CMD:"
)

// Results returned to the host.
const (
	ResultOK       = "ok"
	ResultRecorded = "recorded"
	ResultSkipped  = "skipped"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Manager *lifecycle.Manager
	Parser  *parser.Parser
	Logger  *slog.Logger
	// LoadConfig reads the current options on :CONFIG:RELOAD:.
	// Defaults to config.GetModConfig.
	LoadConfig func() config.ModConfig
}

// Service turns raw host arguments into lifecycle calls.
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) (*Service, error) {
	if deps.Manager == nil {
		return nil, errors.New("handlers: manager is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.GetModConfig
	}
	return &Service{deps: deps}, nil
}

// Register installs every host command on d.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	opts := []dispatcher.Option{dispatcher.Logged(), dispatcher.Recovered()}
	d.Register(CmdTileDestroyed, s.handleTileDestroyed, opts...)
	d.Register(CmdDayStart, s.handleDayStart, opts...)
	d.Register(CmdDayEnd, s.handleDayEnd, opts...)
	d.Register(CmdWarp, s.handleWarp, opts...)
	d.Register(CmdSaveLoaded, s.handleSaveLoaded, opts...)
	d.Register(CmdConfigReload, s.handleConfigReload, opts...)
	d.Register(CmdConsole, s.handleConsole, opts...)
}

func (s *Service) handleTileDestroyed(e dispatcher.Event) (any, error) {
	in, err := s.deps.Parser.ParseTileDestroyed(e.Args)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Manager.OnTileDestroyed(in)
	if err != nil {
		return nil, err
	}
	if !out.IsRecorded() {
		return ResultSkipped, nil
	}
	return ResultRecorded, nil
}

func (s *Service) handleDayStart(e dispatcher.Event) (any, error) {
	date, err := s.deps.Parser.ParseDate(e.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Manager.OnDayStarted(date)
}

func (s *Service) handleDayEnd(dispatcher.Event) (any, error) {
	if err := s.deps.Manager.OnDayEnding(); err != nil {
		return nil, err
	}
	return ResultOK, nil
}

func (s *Service) handleWarp(e dispatcher.Event) (any, error) {
	loc, err := s.deps.Parser.ParseLocation(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Manager.OnWarped(loc); err != nil {
		return nil, err
	}
	return ResultOK, nil
}

func (s *Service) handleSaveLoaded(dispatcher.Event) (any, error) {
	s.deps.Manager.OnSaveLoaded()
	return ResultOK, nil
}

// handleConfigReload applies the current options. An optional location
// argument names where the player is standing.
func (s *Service) handleConfigReload(e dispatcher.Event) (any, error) {
	if len(e.Args) > 0 {
		loc, err := s.deps.Parser.ParseLocation(e.Args)
		if err != nil {
			return nil, err
		}
		s.deps.Manager.State().SetLocation(loc)
	}
	cfg := s.deps.LoadConfig()
	if err := s.deps.Manager.OnConfigChanged(cfg); err != nil {
		return nil, err
	}
	s.deps.Logger.Info("Options reloaded", "cropImages", string(cfg.CropMode()))
	return ResultOK, nil
}

func (s *Service) handleConsole(e dispatcher.Event) (any, error) {
	cmd, err := s.deps.Parser.ParseCommand(e.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Manager.Run(cmd)
}

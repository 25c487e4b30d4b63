package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/dispatcher"
	"github.com/spreadingweeds/extension/internal/handlers"
	"github.com/spreadingweeds/extension/internal/influx"
	"github.com/spreadingweeds/extension/internal/lifecycle"
	"github.com/spreadingweeds/extension/internal/logging"
	intOtel "github.com/spreadingweeds/extension/internal/otel"
	"github.com/spreadingweeds/extension/internal/parser"
	"github.com/spreadingweeds/extension/internal/registry"
	"github.com/spreadingweeds/extension/internal/storage"
	"github.com/spreadingweeds/extension/pkg/core"
)

// app is one process worth of wiring: logging, telemetry, the ledger
// backend and the lifecycle manager behind the command dispatcher.
type app struct {
	sessionStart time.Time

	slogManager *logging.SlogManager
	logger      *slog.Logger
	zlog        zerolog.Logger
	logFile     *os.File
	graylog     *gelf.Writer
	otel        *intOtel.Provider

	backend    storage.Backend
	influx     *influx.Manager
	manager    *lifecycle.Manager
	dispatcher *dispatcher.Dispatcher

	namesMu sync.RWMutex
	names   map[string]string
}

type appOptions struct {
	// Notifier receives the HUD report. Nil drops it.
	Notifier lifecycle.Notifier
}

type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) ShowMessage(text string) {
	fmt.Fprintln(n.w, text)
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{
		sessionStart: time.Now(),
		names:        make(map[string]string),
	}
	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	var err error
	a.backend, err = createStorageBackend(config.GetStorageConfig(), config.GetLedgerConfig(), a.zlog, a.logger)
	if err != nil {
		a.close()
		return nil, err
	}
	if err := a.backend.Init(); err != nil {
		a.backend = nil
		a.close()
		return nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		a.close()
		return nil, err
	}

	var sink lifecycle.DamageSink
	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		a.influx = influx.NewManager(a.zlog.With().Str("component", "influx").Logger(), influxCfg)
		if err := a.influx.Connect(ctx); err != nil {
			a.logger.Warn("Damage metrics disabled", "error", err)
		} else {
			sink = a.influx
		}
	}

	a.manager, err = lifecycle.New(lifecycle.Options{
		Backend:  a.backend,
		Registry: catalog,
		Ledger:   config.GetLedgerConfig(),
		Labels:   config.GetLabels(),
		Settings: config.GetModConfig(),
		Notifier: opts.Notifier,
		Sink:     sink,
		Describe: a.describe,
		Persist:  config.SaveModConfig,
		Logger:   a.logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.dispatcher, err = dispatcher.New(logging.NewDispatcherLogger(a.zlog.With().Str("component", "dispatcher").Logger()))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}
	svc, err := handlers.NewService(handlers.Dependencies{
		Manager: a.manager,
		Parser:  parser.NewParser(a.logger),
		Logger:  a.logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	svc.Register(a.dispatcher)

	a.logger.Info("Ready", "storage", config.GetStorageConfig().Type, "namespace", a.manager.Book().Namespace())
	return a, nil
}

func (a *app) setupLogging() error {
	var err error
	a.logFile, err = logging.OpenSessionLog(viper.GetString("logsDir"), ExtensionName, a.sessionStart)
	if err != nil {
		return err
	}

	a.slogManager = logging.NewSlogManager()

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		a.otel, err = intOtel.New(intOtel.FromConfig(otelCfg, a.logFile))
		if err != nil {
			a.otel = nil
			fmt.Fprintf(os.Stderr, "Failed to initialize OTel provider: %v\n", err)
		}
	}

	if graylogCfg := config.GetGraylogConfig(); graylogCfg.Enabled {
		a.graylog, err = logging.NewGraylogWriter(graylogCfg.Address, ExtensionName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Graylog disabled: %v\n", err)
		} else {
			a.slogManager.Graylog = a.graylog
		}
	}

	a.slogManager.Context = logging.SessionContext(a.currentDay, a.currentLocation)

	a.slogManager.Setup(a.logFile, viper.GetString("logLevel"), a.otel.LoggerProvider())
	a.logger = a.slogManager.Logger()
	a.logger.Info("Logging to file", "path", a.logFile.Name())

	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	a.zlog = zerolog.New(a.logFile).Level(level).With().Timestamp().Logger()
	return nil
}

func (a *app) currentDay() int {
	if a.manager == nil {
		return 0
	}
	return a.manager.State().Date().TotalDays
}

func (a *app) currentLocation() string {
	if a.manager == nil {
		return ""
	}
	return a.manager.State().Location().Name
}

// setDisplayName records the label a location's report section uses.
func (a *app) setDisplayName(name, display string) {
	a.namesMu.Lock()
	defer a.namesMu.Unlock()
	a.names[name] = display
}

func (a *app) describe(name string) core.Location {
	a.namesMu.RLock()
	defer a.namesMu.RUnlock()
	return core.Location{Name: name, DisplayName: a.names[name]}
}

// dispatch sends one host command through the dispatcher.
func (a *app) dispatch(command string, args ...string) (any, error) {
	return a.dispatcher.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// watchConfig reloads the options whenever the config file changes.
func (a *app) watchConfig() {
	config.Watch(func(config.ModConfig) {
		a.slogManager.SetLevel(viper.GetString("logLevel"))
		if _, err := a.dispatch(handlers.CmdConfigReload); err != nil {
			a.logger.Error("Failed to apply reloaded options", "error", err)
		}
	})
}

func (a *app) close() error {
	var errs []error
	if a.backend != nil {
		if err := storage.Flush(a.backend); err != nil {
			errs = append(errs, err)
		}
		if err := a.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.influx != nil {
		errs = append(errs, a.influx.Close())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.slogManager != nil {
		errs = append(errs, a.slogManager.Flush(ctx))
	}
	errs = append(errs, a.otel.Shutdown(ctx))
	if a.graylog != nil {
		errs = append(errs, a.graylog.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

func loadCatalog(path string) (*registry.Catalog, error) {
	catalog, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
	}
	if path == "" {
		return catalog, nil
	}
	extra, err := registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	catalog.Merge(extra)
	return catalog, nil
}

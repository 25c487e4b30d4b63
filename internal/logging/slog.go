// Package logging builds the application logger and the small adapters
// other packages need around it.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const otelScope = "spreading-weeds"

// SlogManager owns the process logger. Records go to the log file (or
// Console without one) and, when configured, to Graylog and OTel.
type SlogManager struct {
	// Console receives records when Setup gets no file. Defaults to os.Stdout.
	Console io.Writer
	// Graylog receives every record as JSON, usually a *gelf.Writer.
	Graylog io.Writer
	// Context is evaluated for every record.
	Context ContextProvider

	level    slog.LevelVar
	logger   *slog.Logger
	provider *sdklog.LoggerProvider
}

func NewSlogManager() *SlogManager {
	return &SlogManager{Console: os.Stdout}
}

// parseLevel accepts the slog level names in any case plus "warning".
// Anything else is treated as info.
func parseLevel(name string) slog.Level {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func utcTimestamps(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// Setup (re)builds the logger. provider may be nil.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	m.level.Set(parseLevel(level))
	m.provider = provider
	opts := &slog.HandlerOptions{Level: &m.level, ReplaceAttr: utcTimestamps}

	out := file
	if out == nil {
		out = m.Console
	}

	sinks := make([]slog.Handler, 0, 3)
	if out != nil {
		sinks = append(sinks, slog.NewTextHandler(out, opts))
	}
	if m.Graylog != nil {
		sinks = append(sinks, slog.NewJSONHandler(m.Graylog, opts))
	}
	if provider != nil {
		sinks = append(sinks, otelslog.NewHandler(otelScope, otelslog.WithLoggerProvider(provider)))
	}

	m.logger = slog.New(withContext(NewFanoutHandler(sinks...), m.Context))
	m.logger.Info("Logging initialized", "level", m.level.Level().String())
}

// SetLevel changes the file, console and Graylog threshold in place.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Level returns the current threshold.
func (m *SlogManager) Level() slog.Level {
	return m.level.Level()
}

// Logger returns slog.Default until Setup has run.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush pushes buffered OTel records out.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	return m.provider.ForceFlush(ctx)
}

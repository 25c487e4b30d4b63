package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestFanout_Handle(t *testing.T) {
	var a, b bytes.Buffer
	slog.New(NewFanoutHandler(textHandler(&a, slog.LevelInfo), nil, textHandler(&b, slog.LevelWarn))).
		Info("tile recorded")

	assert.Contains(t, a.String(), "tile recorded")
	assert.Empty(t, b.String(), "warn handler skips info records")
}

func TestFanout_FailureDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	fan := NewFanoutHandler(failingHandler{}, textHandler(&buf, slog.LevelInfo))

	r := slog.NewRecord(testTime, slog.LevelInfo, "still delivered", 0)
	err := fan.Handle(context.Background(), r)

	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), "still delivered")
}

func TestFanout_Enabled(t *testing.T) {
	ctx := context.Background()
	info := textHandler(&bytes.Buffer{}, slog.LevelInfo)
	debug := textHandler(&bytes.Buffer{}, slog.LevelDebug)

	tests := []struct {
		name     string
		handlers []slog.Handler
		level    slog.Level
		want     bool
	}{
		{"below every handler", []slog.Handler{info}, slog.LevelDebug, false},
		{"at threshold", []slog.Handler{info}, slog.LevelInfo, true},
		{"one handler enough", []slog.Handler{info, debug}, slog.LevelDebug, true},
		{"no handlers", nil, slog.LevelError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFanoutHandler(tt.handlers...).Enabled(ctx, tt.level))
		})
	}
}

func TestFanout_Derived(t *testing.T) {
	var buf bytes.Buffer
	fan := NewFanoutHandler(textHandler(&buf, slog.LevelInfo))

	slog.New(fan.WithAttrs([]slog.Attr{slog.String("component", "ledger")})).Info("attrs")
	slog.New(fan.WithGroup("tile")).Info("grouped", "x", 4)

	assert.Contains(t, buf.String(), "component=ledger")
	assert.Contains(t, buf.String(), "tile.x=4")
	require.Same(t, fan, fan.WithGroup(""))
}

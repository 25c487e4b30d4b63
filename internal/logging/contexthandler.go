package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes that are evaluated per record.
type ContextProvider func() []slog.Attr

// SessionContext reports the in-game day and the player's location. Zero
// values are omitted so records logged before a save is loaded stay clean.
func SessionContext(day func() int, location func() string) ContextProvider {
	return func() []slog.Attr {
		attrs := make([]slog.Attr, 0, 2)
		if d := day(); d > 0 {
			attrs = append(attrs, slog.Int("day", d))
		}
		if loc := location(); loc != "" {
			attrs = append(attrs, slog.String("location", loc))
		}
		return attrs
	}
}

// sessionHandler appends the provider's attributes to each record before
// passing it on.
type sessionHandler struct {
	slog.Handler
	provider ContextProvider
}

func withContext(h slog.Handler, provider ContextProvider) slog.Handler {
	if provider == nil {
		return h
	}
	return &sessionHandler{Handler: h, provider: provider}
}

func (h *sessionHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.provider()...)
	return h.Handler.Handle(ctx, r)
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionHandler{Handler: h.Handler.WithAttrs(attrs), provider: h.provider}
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &sessionHandler{Handler: h.Handler.WithGroup(name), provider: h.provider}
}

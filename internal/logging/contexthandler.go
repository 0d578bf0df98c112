package logging

import (
	"context"
	"log/slog"

	"github.com/flappyballoon/balloon/internal/session"
)

// ContextProvider returns attributes evaluated at the moment a record is handled.
type ContextProvider func() []slog.Attr

// SessionProvider reports the current player and run number.
func SessionProvider(s *session.Context) ContextProvider {
	return func() []slog.Attr {
		return []slog.Attr{
			slog.String("player", s.PlayerName()),
			slog.Int("run", s.RunNumber()),
		}
	}
}

// ContextHandler appends the provider's attributes to every record. A key the
// record already carries wins over the provided one, so a log line about a
// specific run keeps its own "run" value.
type ContextHandler struct {
	next    slog.Handler
	provide ContextProvider
}

func NewContextHandler(next slog.Handler, provide ContextProvider) *ContextHandler {
	return &ContextHandler{next: next, provide: provide}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provide == nil {
		return h.next.Handle(ctx, r)
	}
	extra := h.provide()
	if len(extra) == 0 {
		return h.next.Handle(ctx, r)
	}
	present := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})
	for _, a := range extra {
		if !present[a.Key] {
			r.AddAttrs(a)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.next.WithAttrs(attrs), h.provide)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return NewContextHandler(h.next.WithGroup(name), h.provide)
}

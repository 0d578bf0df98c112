package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Fanout delivers every record to each sink that accepts its level. A sink
// that fails to handle a record is skipped and counted; the remaining sinks
// still see the record, so a dead GELF endpoint never silences the log file.
type Fanout struct {
	sinks   []slog.Handler
	dropped *atomic.Int64
}

// NewFanout ignores nil sinks.
func NewFanout(sinks ...slog.Handler) *Fanout {
	kept := make([]slog.Handler, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept, dropped: new(atomic.Int64)}
}

// Dropped reports how many sink deliveries failed since creation. Handlers
// derived through WithAttrs or WithGroup share the counter.
func (f *Fanout) Dropped() int64 {
	return f.dropped.Load()
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, s := range f.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			f.dropped.Add(1)
		}
	}
	return nil
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (f *Fanout) derive(fn func(slog.Handler) slog.Handler) *Fanout {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = fn(s)
	}
	return &Fanout{sinks: sinks, dropped: f.dropped}
}

package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/flappyballoon/balloon/internal/dispatcher"
	"github.com/flappyballoon/balloon/internal/storage"
)

// teardown releases what the background handlers write to. The dispatcher
// drains first, so runs still queued at quit reach the journal, telemetry
// and the backend session before any of them closes.
type teardown struct {
	dispatcher *dispatcher.Dispatcher
	journal    storage.Backend
	telemetry  io.Closer
	logout     func(context.Context) error
	log        *slog.Logger
	drain      time.Duration
}

func (t *teardown) run() {
	log := t.log
	if log == nil {
		log = slog.Default()
	}

	if t.dispatcher != nil {
		drain := t.drain
		if drain <= 0 {
			drain = 15 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), drain)
		if err := t.dispatcher.Close(ctx); err != nil {
			log.Warn("Background tasks still pending at exit", "error", err)
		}
		cancel()
	}

	if t.journal != nil {
		closeStorage(log, t.journal)
	}

	if t.telemetry != nil {
		if err := t.telemetry.Close(); err != nil {
			log.Warn("Closing InfluxDB", "error", err)
		}
	}

	if t.logout != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := t.logout(ctx); err != nil {
			log.Warn("Logout failed", "error", err)
		}
		cancel()
	}
}

func closeStorage(log *slog.Logger, b storage.Backend) {
	if err := b.Close(); err != nil {
		log.Warn("Closing run journal", "error", err)
		return
	}
	if e, ok := b.(storage.Exportable); ok && e.ExportedFilePath() != "" {
		log.Info("Run journal exported", "path", e.ExportedFilePath())
	}
}

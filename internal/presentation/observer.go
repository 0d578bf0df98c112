package presentation

import (
	"log/slog"

	"github.com/flappyballoon/balloon/pkg/core"
)

// LogObserver draws nothing; it logs state changes. Used in headless mode.
type LogObserver struct {
	log   *slog.Logger
	last  core.GameState
	seen  bool
	score int
}

// NewLogObserver creates a LogObserver writing to log.
func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log}
}

// Render logs the transition, if any, and every score change.
func (o *LogObserver) Render(snap core.Snapshot) {
	if !o.seen || snap.State != o.last {
		o.log.Info("Game state", "from", o.last, "to", snap.State, "score", snap.Score, "best", snap.BestScore)
		o.last = snap.State
		o.seen = true
	}
	if snap.State == core.StateRunning && snap.Score != o.score {
		o.log.Info("Point", "score", snap.Score)
	}
	o.score = snap.Score
}

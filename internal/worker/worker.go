package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/flappyballoon/balloon/internal/session"
	"github.com/flappyballoon/balloon/internal/storage"
	"github.com/flappyballoon/balloon/pkg/core"
)

// CommandWhoAmI looks up the logged-in player.
const CommandWhoAmI = ":SESSION:WHOAMI:"

// Backend is the part of the REST client the handlers call.
type Backend interface {
	SubmitRun(ctx context.Context, run core.RunResult) error
	FetchMyStats(ctx context.Context) (core.PlayerStats, error)
	Me(ctx context.Context) (*core.Player, error)
}

// RunWriter records run telemetry. influx.Manager implements it.
type RunWriter interface {
	WriteRun(ctx context.Context, r core.RunResult, player string) error
}

// BestSink receives authoritative best scores. score.Tracker implements it.
type BestSink interface {
	OfferBest(best int)
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	API       Backend
	Journal   storage.Backend // optional
	Telemetry RunWriter       // optional
	Scores    BestSink
	Session   *session.Context
	Logger    *slog.Logger
	Timeout   time.Duration // per backend call
}

// Manager runs the background half of the game: everything that talks to
// the backend, the journal or telemetry.
type Manager struct {
	deps Dependencies
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 10 * time.Second
	}
	return &Manager{deps: deps}
}

func (m *Manager) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.deps.Timeout)
}

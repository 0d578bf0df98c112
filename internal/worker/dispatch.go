package worker

import (
	"fmt"

	"github.com/flappyballoon/balloon/internal/dispatcher"
	"github.com/flappyballoon/balloon/internal/score"
	"github.com/flappyballoon/balloon/pkg/core"
)

// RegisterHandlers registers all background task handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Run submission - buffered so the game loop never waits on the network
	d.Register(score.CommandSubmitRun, m.handleSubmitRun, dispatcher.Buffered(64), dispatcher.Logged())

	// Best score and identity lookups - buffered
	d.Register(score.CommandFetchStats, m.handleFetchStats, dispatcher.Buffered(16), dispatcher.Logged())
	d.Register(CommandWhoAmI, m.handleWhoAmI, dispatcher.Buffered(4), dispatcher.Logged())
}

func (m *Manager) handleSubmitRun(e dispatcher.Event) (any, error) {
	run, ok := e.Payload.(core.RunResult)
	if !ok {
		return nil, fmt.Errorf("submit run: unexpected payload %T", e.Payload)
	}
	log := m.deps.Logger
	player := m.deps.Session.PlayerName()

	if m.deps.Journal != nil {
		if err := m.deps.Journal.RecordRun(&run); err != nil {
			log.Warn("Run not journaled", "score", run.Score, "error", err)
		}
	}

	ctx, cancel := m.context()
	defer cancel()

	if m.deps.Telemetry != nil {
		if err := m.deps.Telemetry.WriteRun(ctx, run, player); err != nil {
			log.Warn("Run telemetry not written", "score", run.Score, "error", err)
		}
	}

	if err := m.deps.API.SubmitRun(ctx, run); err != nil {
		return nil, fmt.Errorf("submitting run: %w", err)
	}
	log.Info("Run submitted", "score", run.Score, "avg_mic_level", run.AvgMicLevel, "duration_seconds", run.DurationSeconds)

	best, err := m.refreshBest()
	if err != nil {
		return nil, err
	}
	return best, nil
}

func (m *Manager) handleFetchStats(dispatcher.Event) (any, error) {
	return m.refreshBest()
}

// refreshBest fetches the authoritative best score and offers it to the
// tracker. On failure the tracker keeps its cached value.
func (m *Manager) refreshBest() (int, error) {
	ctx, cancel := m.context()
	defer cancel()

	stats, err := m.deps.API.FetchMyStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching stats: %w", err)
	}
	m.deps.Scores.OfferBest(stats.BestScore)
	return stats.BestScore, nil
}

func (m *Manager) handleWhoAmI(dispatcher.Event) (any, error) {
	ctx, cancel := m.context()
	defer cancel()

	p, err := m.deps.API.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("looking up player: %w", err)
	}
	if p == nil {
		m.deps.Logger.Info("Not logged in, playing anonymously")
		return nil, nil
	}
	m.deps.Session.SetPlayer(*p)
	m.deps.Logger.Info("Playing as", "player", p.Username, "id", p.ID)
	return p, nil
}

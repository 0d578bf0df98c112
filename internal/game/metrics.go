package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/flappyballoon/balloon/internal/game"

type metrics struct {
	runs   metric.Int64Counter
	frames metric.Int64Counter
	score  metric.Int64Histogram
}

// newMetrics uses the global OTel meter (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		out metrics
		err error
	)

	out.runs, err = m.Int64Counter(
		"game.runs",
		metric.WithDescription("Total finished runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	out.frames, err = m.Int64Counter(
		"game.frames",
		metric.WithDescription("Total simulated frames while running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	out.score, err = m.Int64Histogram(
		"game.score",
		metric.WithDescription("Final score of each run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}
	return &out, nil
}

func (m *metrics) frame() {
	if m == nil {
		return
	}
	m.frames.Add(context.Background(), 1)
}

func (m *metrics) runEnded(score int) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.runs.Add(ctx, 1)
	m.score.Record(ctx, int64(score))
}

// Package score tracks the current run's score and the cached personal best.
package score

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/flappyballoon/balloon/internal/dispatcher"
	"github.com/flappyballoon/balloon/internal/queue"
	"github.com/flappyballoon/balloon/pkg/core"
)

// Commands the tracker hands to background handlers.
const (
	CommandSubmitRun  = ":RUN:SUBMIT:"
	CommandFetchStats = ":STATS:FETCH:"
)

// Dispatcher is the part of dispatcher.Dispatcher the tracker needs.
type Dispatcher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// Tracker holds the current score and the cached best score. All methods except
// OfferBest must be called from the game goroutine.
type Tracker struct {
	dispatch Dispatcher
	log      *slog.Logger

	current int
	best    int
	inbox   *queue.Queue[int]

	// authoritative is the highest best score the backend has reported.
	// The backend value never decreases, so a lower offer is stale.
	authoritative int
	heard         bool
}

// New creates a tracker with a best score of zero.
func New(d Dispatcher, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		dispatch: d,
		log:      log,
		inbox:    queue.New[int](16),
	}
}

// Current returns the score of the run in progress.
func (t *Tracker) Current() int { return t.current }

// Increment adds one point and returns the new score.
func (t *Tracker) Increment() int {
	t.current++
	return t.current
}

// ResetCurrent clears the current score.
func (t *Tracker) ResetCurrent() { t.current = 0 }

// Best returns the cached best score.
func (t *Tracker) Best() int { return t.best }

// UpdateBestLocal raises the cached best if score beats it. It reports whether
// the best changed.
func (t *Tracker) UpdateBestLocal(score int) bool {
	if score <= t.best {
		return false
	}
	t.best = score
	return true
}

// RecordRun submits a finished run in the background. The returned error only
// says the task could not be queued; it has already been logged.
func (t *Tracker) RecordRun(r core.RunResult) error {
	_, err := t.dispatch.Dispatch(dispatcher.Event{
		Command:   CommandSubmitRun,
		Payload:   r,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.log.Warn("Run not submitted", "score", r.Score, "error", err)
		return fmt.Errorf("queueing run submission: %w", err)
	}
	return nil
}

// FetchBest asks the backend for the authoritative best score in the
// background. Until it answers, the best score stays where it is.
func (t *Tracker) FetchBest() error {
	_, err := t.dispatch.Dispatch(dispatcher.Event{
		Command:   CommandFetchStats,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.log.Warn("Best score not fetched", "error", err)
		return fmt.Errorf("queueing stats fetch: %w", err)
	}
	return nil
}

// OfferBest hands an authoritative best score to the tracker. Safe to call
// from any goroutine; the value is applied on the next Sync.
func (t *Tracker) OfferBest(best int) {
	t.inbox.Push(best)
}

// DroppedOffers reports how many offered best scores the inbox discarded
// because the game loop did not sync in time. Safe from any goroutine.
func (t *Tracker) DroppedOffers() int {
	return t.inbox.Dropped()
}

// Sync applies the authoritative best score, if any arrived. Offers come from
// independent background tasks and may land out of order, so the highest one
// wins; it replaces the cached best, including an optimistic local value.
func (t *Tracker) Sync() bool {
	offers := t.inbox.Drain()
	if len(offers) == 0 {
		return false
	}
	highest := offers[0]
	for _, o := range offers[1:] {
		highest = max(highest, o)
	}
	if t.heard {
		highest = max(highest, t.authoritative)
	}
	t.authoritative, t.heard = highest, true

	if highest != t.best {
		t.log.Debug("Best score reconciled", "cached", t.best, "authoritative", highest)
	}
	t.best = highest
	return true
}

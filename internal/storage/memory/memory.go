// internal/storage/memory/memory.go
package memory

import (
	"sort"
	"sync"

	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/pkg/core"
)

// Backend keeps the run journal in memory and exports it to JSON on Close
type Backend struct {
	cfg  config.MemoryConfig
	runs []core.RunResult

	idCounter  uint
	exportPath string
	mu         sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close exports the journal when an output directory is configured and at
// least one run was recorded.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.OutputDir == "" || len(b.runs) == 0 {
		return nil
	}
	return b.exportJSON()
}

// RecordRun appends a copy of the run and assigns its ID
func (b *Backend) RecordRun(r *core.RunResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	r.ID = b.idCounter
	b.runs = append(b.runs, *r)
	return nil
}

// BestScore returns the highest recorded score
func (b *Backend) BestScore() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.runs) == 0 {
		return 0, core.ErrNoRuns
	}
	best := b.runs[0].Score
	for _, r := range b.runs[1:] {
		if r.Score > best {
			best = r.Score
		}
	}
	return best, nil
}

// RecentRuns returns up to n runs, newest first
func (b *Backend) RecentRuns(n int) ([]core.RunResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.RunResult, len(b.runs))
	copy(out, b.runs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// ExportedFilePath returns the path of the file written by Close, or "" if
// nothing was exported.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportPath
}

// internal/storage/storage.go
package storage

import "github.com/flappyballoon/balloon/pkg/core"

// ErrNotFound is returned when the journal holds no run to answer a query.
var ErrNotFound = core.ErrNoRuns

// Backend is the interface all run journal implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// RecordRun stores a finished run and assigns its ID.
	RecordRun(r *core.RunResult) error

	// BestScore returns the highest journaled score, or ErrNotFound.
	BestScore() (int, error)

	// RecentRuns returns up to n runs, newest first.
	RecentRuns(n int) ([]core.RunResult, error)
}

// Exportable is an optional interface for backends that write the journal
// to a file on Close.
type Exportable interface {
	ExportedFilePath() string
}

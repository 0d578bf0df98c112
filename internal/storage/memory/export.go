// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JournalExport is the root JSON structure written on Close
type JournalExport struct {
	ExportedAt time.Time `json:"exportedAt"`
	BestScore  int       `json:"bestScore"`
	Runs       []RunJSON `json:"runs"`
}

// RunJSON is one exported run
type RunJSON struct {
	ID              uint           `json:"id"`
	Score           int            `json:"score"`
	AvgMicLevel     float64        `json:"avgMicLevel"`
	MaxMicLevel     float64        `json:"maxMicLevel"`
	DurationSeconds int            `json:"durationSeconds"`
	FinishedAt      time.Time      `json:"finishedAt"`
	Tuning          map[string]any `json:"tuning,omitempty"`
}

// now is swapped by tests.
var now = time.Now

// exportJSON writes the journal to a JSON file, gzipped when configured.
// The caller holds the lock.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := export.ExportedAt.Format("20060102_150405")
	filename := fmt.Sprintf("balloon_runs_%s.json", timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}
	b.exportPath = outputPath
	return nil
}

func (b *Backend) buildExport() JournalExport {
	export := JournalExport{
		ExportedAt: now().UTC(),
		Runs:       make([]RunJSON, 0, len(b.runs)),
	}
	for _, r := range b.runs {
		if r.Score > export.BestScore {
			export.BestScore = r.Score
		}
		export.Runs = append(export.Runs, RunJSON{
			ID:              r.ID,
			Score:           r.Score,
			AvgMicLevel:     r.AvgMicLevel,
			MaxMicLevel:     r.MaxMicLevel,
			DurationSeconds: r.DurationSeconds,
			FinishedAt:      r.FinishedAt.UTC(),
			Tuning:          r.Tuning,
		})
	}
	return export
}

func writeJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

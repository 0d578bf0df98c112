// pkg/core/run.go
package core

import (
	"errors"
	"time"
)

// ErrNoRuns is returned by run journals that have nothing recorded yet.
var ErrNoRuns = errors.New("no runs recorded")

// AudioSample is a per-frame amplitude in [0, 255].
type AudioSample float64

// RunStats accumulates microphone and score data for the run in progress.
type RunStats struct {
	VolumeSum    float64
	VolumeFrames int
	VolumeMax    float64
	StartTime    time.Time
	Score        int
}

// Add accumulates one sample.
func (s *RunStats) Add(sample AudioSample) {
	v := float64(sample)
	s.VolumeSum += v
	s.VolumeFrames++
	if v > s.VolumeMax {
		s.VolumeMax = v
	}
}

// Average returns the mean sample over the run, 0 when no sample was taken.
func (s *RunStats) Average() float64 {
	if s.VolumeFrames == 0 {
		return 0
	}
	return s.VolumeSum / float64(s.VolumeFrames)
}

// Result closes the stats into the value that gets submitted.
func (s *RunStats) Result(end time.Time) RunResult {
	duration := 0
	if !s.StartTime.IsZero() {
		duration = int(end.Sub(s.StartTime).Round(time.Second) / time.Second)
	}
	return RunResult{
		Score:           s.Score,
		AvgMicLevel:     s.Average(),
		MaxMicLevel:     s.VolumeMax,
		DurationSeconds: duration,
		FinishedAt:      end,
	}
}

// RunResult is one finished run.
type RunResult struct {
	ID              uint           `json:"id,omitempty"`
	Score           int            `json:"score"`
	AvgMicLevel     float64        `json:"avg_mic_level"`
	MaxMicLevel     float64        `json:"max_mic_level"`
	DurationSeconds int            `json:"duration_seconds"`
	FinishedAt      time.Time      `json:"-"`
	Tuning          map[string]any `json:"-"`
}

// Package audio turns live microphone input into one amplitude sample per
// frame.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flappyballoon/balloon/pkg/core"
)

// ErrUnavailable means there is no usable microphone: permission was denied,
// there is no hardware, or the source was released.
var ErrUnavailable = errors.New("microphone unavailable")

type sourceState int

const (
	sourceNew sourceState = iota
	sourceActive
	sourceUnavailable
	sourceReleased
)

// Source samples the microphone level. Acquire once per session; Sample once
// per frame; Release when the session ends.
type Source struct {
	mu       sync.Mutex
	capturer Capturer
	analyser *Analyser
	ring     *ring
	window   []float32
	state    sourceState
	log      *slog.Logger
}

// NewSource wraps capturer. A nil capturer yields a source that is always
// unavailable.
func NewSource(capturer Capturer, cfg AnalyserConfig, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	a := NewAnalyser(cfg)
	return &Source{
		capturer: capturer,
		analyser: a,
		ring:     newRing(a.Size() * 8),
		window:   make([]float32, a.Size()),
		log:      log,
	}
}

// Acquire opens the capture device. On failure the source degrades to
// unavailable and the error (wrapping ErrUnavailable) is only meant for
// logging. Calling Acquire again after the first attempt returns the outcome
// of that attempt without touching the device.
func (s *Source) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case sourceActive:
		return nil
	case sourceUnavailable, sourceReleased:
		return ErrUnavailable
	}

	if err := ctx.Err(); err != nil {
		s.state = sourceUnavailable
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if s.capturer == nil {
		s.state = sourceUnavailable
		return fmt.Errorf("%w: no capture device", ErrUnavailable)
	}
	if err := s.capturer.Start(s.ring.write); err != nil {
		s.state = sourceUnavailable
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s.state = sourceActive
	return nil
}

// Available reports whether Sample can return a signal.
func (s *Source) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sourceActive
}

// Sample returns the mean frequency-bin magnitude of the latest capture window.
// The second result is false when there is no signal: the source is
// unavailable or nothing has been captured yet.
func (s *Source) Sample() (core.AudioSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != sourceActive || s.ring.written() == 0 {
		return 0, false
	}
	s.ring.latest(s.window)
	return s.analyser.Level(s.window), true
}

// Release stops capture. Safe to call any number of times from any state.
func (s *Source) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == sourceReleased {
		return nil
	}
	wasActive := s.state == sourceActive
	s.state = sourceReleased
	s.analyser.Reset()
	if !wasActive {
		return nil
	}
	if err := s.capturer.Stop(); err != nil {
		return fmt.Errorf("release microphone: %w", err)
	}
	s.log.Debug("Microphone released")
	return nil
}

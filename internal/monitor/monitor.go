package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/flappyballoon/balloon/pkg/core"
)

// QueueLener reports how many background tasks are waiting.
type QueueLener interface {
	QueueLen() int
}

// OfferCounter reports best-score offers discarded before the game loop
// applied them. score.Tracker implements it.
type OfferCounter interface {
	DroppedOffers() int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger     *slog.Logger
	Queue      QueueLener
	Offers     OfferCounter // optional
	Interval   time.Duration
	StatusPath string // optional file rewritten with the latest status
}

// Status is one status sample.
type Status struct {
	Time         time.Time `json:"time"`
	State        string    `json:"state"`
	Player       string    `json:"player"`
	Score        int       `json:"score"`
	BestScore    int       `json:"bestScore"`
	Frames       uint64    `json:"frames"`
	Obstacles    int       `json:"obstacles"`
	QueueLength  int       `json:"queueLength"`
	DroppedBest  int       `json:"droppedBestOffers"`
	MicAvailable bool      `json:"micAvailable"`
	Level        float64   `json:"level"`
}

// Service logs a periodic status line. It observes the game through rendered
// snapshots, so it never touches the loop's state directly.
type Service struct {
	deps Dependencies

	mu        sync.RWMutex
	last      core.Snapshot
	frames    uint64
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = 10 * time.Second
	}
	return &Service{deps: deps}
}

// Render records the latest snapshot.
func (s *Service) Render(snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	if snap.State == core.StateRunning {
		s.frames++
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current program status
func (s *Service) GetProgramStatus() Status {
	s.mu.RLock()
	snap := s.last
	frames := s.frames
	s.mu.RUnlock()

	queued := 0
	if s.deps.Queue != nil {
		queued = s.deps.Queue.QueueLen()
	}
	dropped := 0
	if s.deps.Offers != nil {
		dropped = s.deps.Offers.DroppedOffers()
	}
	return Status{
		Time:         time.Now(),
		State:        snap.State.String(),
		Player:       snap.PlayerName,
		Score:        snap.Score,
		BestScore:    snap.BestScore,
		Frames:       frames,
		Obstacles:    len(snap.Obstacles),
		QueueLength:  queued,
		DroppedBest:  dropped,
		MicAvailable: snap.MicAvailable,
		Level:        float64(snap.Level),
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(s.done)
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor goroutine")

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				st := s.GetProgramStatus()
				logger.Info("Status",
					"state", st.State,
					"score", st.Score,
					"best", st.BestScore,
					"frames", st.Frames,
					"queued", st.QueueLength,
					"dropped_best", st.DroppedBest,
					"mic", st.MicAvailable,
				)
				if s.deps.StatusPath != "" {
					if err := writeStatusFile(s.deps.StatusPath, st); err != nil {
						logger.Error("Error writing status file", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for its goroutine to exit
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

func writeStatusFile(path string, st Status) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Package game runs the balloon simulation: one coordinated tick per frame
// that advances obstacles, applies physics and spawns new pairs.
package game

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/flappyballoon/balloon/internal/collision"
	"github.com/flappyballoon/balloon/internal/obstacle"
	"github.com/flappyballoon/balloon/internal/score"
	"github.com/flappyballoon/balloon/internal/session"
	"github.com/flappyballoon/balloon/internal/sound"
	"github.com/flappyballoon/balloon/pkg/core"
)

// Command is an input from the presentation layer.
type Command int

const (
	CommandStart Command = iota + 1
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Sampler is the microphone as the game sees it.
type Sampler interface {
	Acquire(ctx context.Context) error
	Sample() (core.AudioSample, bool)
	Release() error
}

// Observer receives a projection of the simulation after every frame. It must
// not hold on to the snapshot's slices.
type Observer interface {
	Render(core.Snapshot)
}

// Dependencies holds all collaborators of a Session.
type Dependencies struct {
	Audio     Sampler
	Tracker   *score.Tracker
	Sound     sound.Effects
	Session   *session.Context
	Observers []Observer
	Logger    *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRand replaces the source of gap positions. f must return values in [0, 1).
func WithRand(f func() float64) Option {
	return func(s *Session) {
		s.rand = f
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session owns the game state. Everything except Run's frame pacing happens on
// the goroutine that calls Run (or Tick, in tests).
type Session struct {
	tuning Tuning
	deps   Dependencies
	log    *slog.Logger
	rand   func() float64
	now    func() time.Time

	state        core.GameState
	player       core.PlayerObject
	visible      bool
	field        *obstacle.Field
	run          *runContext
	level        core.AudioSample
	micAvailable bool
	frames       uint64
	closed       bool
	metrics      *metrics
}

// NewSession builds an idle session. Missing sound or session context are
// replaced by no-op versions.
func NewSession(tuning Tuning, deps Dependencies, opts ...Option) *Session {
	tuning = tuning.withDefaults()
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sound == nil {
		deps.Sound = sound.Nop{}
	}
	if deps.Session == nil {
		deps.Session = session.NewContext()
	}

	s := &Session{
		tuning:  tuning,
		deps:    deps,
		log:     deps.Logger,
		rand:    rand.Float64,
		now:     time.Now,
		state:   core.StateIdle,
		visible: true,
		field:   obstacle.NewField(tuning.ObstacleWidth, tuning.FieldHeight),
		player: core.PlayerObject{
			X:      tuning.BalloonX,
			Width:  tuning.BalloonWidth,
			Height: tuning.BalloonHeight,
		},
	}
	s.player.MoveTo(tuning.StartY())

	m, err := newMetrics()
	if err != nil {
		s.log.Warn("Game metrics disabled", "error", err)
	}
	s.metrics = m

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current game state.
func (s *Session) State() core.GameState { return s.state }

// Frames returns how many frames were simulated while running.
func (s *Session) Frames() uint64 { return s.frames }

// MicAvailable reports whether the microphone was acquired.
func (s *Session) MicAvailable() bool { return s.micAvailable }

// Start begins a run. Only legal from Idle; otherwise it is a no-op and
// returns false.
func (s *Session) Start() bool {
	if s.state != core.StateIdle || s.closed {
		s.log.Debug("Start ignored", "state", s.state)
		return false
	}

	s.field.Clear()
	s.run = newRunContext(s.deps.Session.NextRun(), s.now())
	s.deps.Tracker.ResetCurrent()
	s.state = core.StateRunning

	s.player.VY = 0
	s.player.MoveTo(s.tuning.StartY())
	s.visible = true

	s.log.Info("Run started", "run", s.run.number, "best", s.deps.Tracker.Best())
	return true
}

// Tick simulates one frame. It does nothing unless a run is in progress.
func (s *Session) Tick() {
	if s.state != core.StateRunning {
		return
	}
	s.frames++
	s.metrics.frame()

	s.advanceObstacles()
	s.applyPhysics()
	s.spawnObstacles()
}

func (s *Session) advanceObstacles() {
	if s.state != core.StateRunning {
		return
	}
	step := s.tuning.MoveSpeed
	s.field.AdvanceAndPrune(step)

	balloon := s.player.Bounds
	hit := false
	s.field.ForEach(func(i int, o core.Obstacle) bool {
		if collision.Overlaps(balloon, o.Bounds) {
			hit = true
			return false
		}
		if o.AwardsPoint && !o.Scored && passed(o.Bounds, balloon, step) {
			s.field.MarkScored(i)
			s.award()
		}
		return true
	})
	if hit {
		s.over("collision")
	}
}

// passed reports whether the obstacle's right edge went behind the balloon's
// left edge during the last step.
func passed(o, balloon core.Rect, step float64) bool {
	return o.Right() < balloon.Left && o.Right()+step >= balloon.Left
}

func (s *Session) award() {
	points := s.deps.Tracker.Increment()
	s.run.stats.Score = points
	_ = s.deps.Sound.Play(sound.Point)
	s.log.Debug("Point", "score", points)
}

func (s *Session) applyPhysics() {
	if s.state != core.StateRunning {
		return
	}
	sample, ok := s.deps.Audio.Sample()
	s.level = sample
	if ok {
		s.run.stats.Add(sample)
	}

	if ok && float64(sample) > s.tuning.Threshold {
		s.player.VY = s.tuning.Impulse
	} else {
		s.player.VY += s.tuning.Gravity
	}
	s.player.MoveTo(s.player.Y + s.player.VY)

	if collision.Outside(s.player.Bounds, s.tuning.FieldHeight) {
		s.over("boundary")
	}
}

func (s *Session) spawnObstacles() {
	if s.state != core.StateRunning {
		return
	}
	if s.run.separation > s.tuning.SpawnInterval {
		s.run.separation = 0
		pct := math.Floor(s.rand()*float64(s.tuning.GapRangePct)) + float64(s.tuning.GapMinPct)
		gapStart := s.tuning.FieldHeight * pct / 100
		s.field.SpawnPair(s.tuning.FieldWidth, gapStart, s.tuning.PipeGap)
	}
	s.run.separation++
}

// over ends the run. A second call, in the same frame or later, is a no-op.
func (s *Session) over(reason string) {
	if s.state != core.StateRunning {
		s.log.Debug("Game over ignored", "reason", reason, "state", s.state)
		return
	}
	s.state = core.StateOver
	s.visible = false
	_ = s.deps.Sound.Play(sound.GameOver)

	final := s.deps.Tracker.Current()
	s.run.stats.Score = final
	if s.deps.Tracker.UpdateBestLocal(final) {
		s.log.Info("New best score", "score", final)
	}

	result := s.run.stats.Result(s.now())
	result.Tuning = s.tuning.Map()
	// Queued for the background; a failure is logged by the tracker.
	_ = s.deps.Tracker.RecordRun(result)
	s.metrics.runEnded(final)

	s.log.Info("Game over",
		"run", s.run.number,
		"reason", reason,
		"score", final,
		"avgMicLevel", result.AvgMicLevel,
		"maxMicLevel", result.MaxMicLevel,
		"duration", result.DurationSeconds,
	)

	s.field.Clear()
	s.run = nil
	s.deps.Tracker.ResetCurrent()
	s.state = core.StateIdle
}

// Frame runs one frame boundary: apply background results, simulate, and
// project the result to every observer.
func (s *Session) Frame() {
	s.deps.Tracker.Sync()
	s.Tick()
	s.render()
}

// Run acquires the microphone, fetches the best score and drives frames at the
// configured rate until ctx is done or a quit command arrives. A closed
// commands channel counts as quit. The session is closed on return.
func (s *Session) Run(ctx context.Context, commands <-chan Command) error {
	defer func() {
		if err := s.Close(); err != nil {
			s.log.Warn("Closing session", "error", err)
		}
	}()

	if err := s.deps.Audio.Acquire(ctx); err != nil {
		s.log.Warn("Microphone unavailable, the balloon can only fall", "error", err)
	} else {
		s.micAvailable = true
	}
	_ = s.deps.Tracker.FetchBest()

	ticker := time.NewTicker(s.tuning.FrameInterval())
	defer ticker.Stop()

	s.render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.drain(commands) {
				s.log.Info("Quit requested")
				return nil
			}
			s.Frame()
		}
	}
}

// drain applies every pending command and reports whether to quit.
func (s *Session) drain(commands <-chan Command) bool {
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return true
			}
			switch cmd {
			case CommandStart:
				s.Start()
			case CommandQuit:
				return true
			default:
				s.log.Debug("Unknown command", "command", int(cmd))
			}
		default:
			return false
		}
	}
}

func (s *Session) render() {
	if len(s.deps.Observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, o := range s.deps.Observers {
		o.Render(snap)
	}
}

// Snapshot projects the current state.
func (s *Session) Snapshot() core.Snapshot {
	return core.Snapshot{
		State:         s.state,
		Score:         s.deps.Tracker.Current(),
		BestScore:     s.deps.Tracker.Best(),
		PlayerName:    s.deps.Session.PlayerName(),
		PlayerVisible: s.visible,
		Player:        s.player.Bounds,
		Obstacles:     s.field.Bounds(),
		MicAvailable:  s.micAvailable,
		Level:         s.level,
		FieldWidth:    s.tuning.FieldWidth,
		FieldHeight:   s.tuning.FieldHeight,
	}
}

// Close stops the simulation, releases the microphone and removes every
// obstacle. A run in progress is abandoned without being submitted. Safe to
// call more than once.
func (s *Session) Close() error {
	if s.state == core.StateRunning {
		s.log.Info("Run abandoned", "run", s.run.number, "score", s.deps.Tracker.Current())
	}
	s.state = core.StateIdle
	s.run = nil
	s.field.Clear()
	s.closed = true
	return s.deps.Audio.Release()
}

package game

import "time"

const (
	DefaultMoveSpeed     = 3.0  // obstacle step per frame
	DefaultGravity       = 0.5  // added to VY every frame without lift
	DefaultImpulse       = -4.0 // VY while the level is above threshold
	DefaultThreshold     = 75.0 // mic level that lifts the balloon
	DefaultSpawnInterval = 115  // frames between obstacle pairs
	DefaultPipeGap       = 70.0
	DefaultGapMinPct     = 8  // gap start, percent of field height
	DefaultGapRangePct   = 43 // random spread added to DefaultGapMinPct
	DefaultFieldWidth    = 800.0
	DefaultFieldHeight   = 600.0
	DefaultBalloonX      = 120.0
	DefaultBalloonSize   = 28.0
	DefaultStartTopPct   = 40.0
	DefaultObstacleWidth = 52.0
	DefaultFPS           = 60
)

// Tuning holds every constant of the simulation.
type Tuning struct {
	MoveSpeed     float64
	Gravity       float64
	Impulse       float64
	Threshold     float64
	SpawnInterval int
	PipeGap       float64
	GapMinPct     int
	GapRangePct   int
	FieldWidth    float64
	FieldHeight   float64
	BalloonX      float64
	BalloonWidth  float64
	BalloonHeight float64
	StartTopPct   float64
	ObstacleWidth float64
	FPS           int
}

// DefaultTuning returns the stock game feel.
func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:     DefaultMoveSpeed,
		Gravity:       DefaultGravity,
		Impulse:       DefaultImpulse,
		Threshold:     DefaultThreshold,
		SpawnInterval: DefaultSpawnInterval,
		PipeGap:       DefaultPipeGap,
		GapMinPct:     DefaultGapMinPct,
		GapRangePct:   DefaultGapRangePct,
		FieldWidth:    DefaultFieldWidth,
		FieldHeight:   DefaultFieldHeight,
		BalloonX:      DefaultBalloonX,
		BalloonWidth:  DefaultBalloonSize,
		BalloonHeight: DefaultBalloonSize,
		StartTopPct:   DefaultStartTopPct,
		ObstacleWidth: DefaultObstacleWidth,
		FPS:           DefaultFPS,
	}
}

// StartY is the balloon's top edge at the start of a run.
func (t Tuning) StartY() float64 {
	return t.FieldHeight * t.StartTopPct / 100
}

// FrameInterval is the time between two frames.
func (t Tuning) FrameInterval() time.Duration {
	fps := t.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Map flattens the tuning for journaling next to a run.
func (t Tuning) Map() map[string]any {
	return map[string]any{
		"move_speed":     t.MoveSpeed,
		"gravity":        t.Gravity,
		"impulse":        t.Impulse,
		"threshold":      t.Threshold,
		"spawn_interval": t.SpawnInterval,
		"pipe_gap":       t.PipeGap,
		"field_width":    t.FieldWidth,
		"field_height":   t.FieldHeight,
		"fps":            t.FPS,
	}
}

// withDefaults fills zero fields from DefaultTuning. Gravity and Impulse are
// taken as given since zero is a legal value for them.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.MoveSpeed <= 0 {
		t.MoveSpeed = d.MoveSpeed
	}
	if t.SpawnInterval <= 0 {
		t.SpawnInterval = d.SpawnInterval
	}
	if t.PipeGap <= 0 {
		t.PipeGap = d.PipeGap
	}
	if t.GapRangePct <= 0 {
		t.GapRangePct = d.GapRangePct
	}
	if t.FieldWidth <= 0 {
		t.FieldWidth = d.FieldWidth
	}
	if t.FieldHeight <= 0 {
		t.FieldHeight = d.FieldHeight
	}
	if t.BalloonWidth <= 0 {
		t.BalloonWidth = d.BalloonWidth
	}
	if t.BalloonHeight <= 0 {
		t.BalloonHeight = d.BalloonHeight
	}
	if t.ObstacleWidth <= 0 {
		t.ObstacleWidth = d.ObstacleWidth
	}
	if t.FPS <= 0 {
		t.FPS = d.FPS
	}
	return t
}

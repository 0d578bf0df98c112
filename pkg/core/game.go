// pkg/core/game.go
package core

// GameState is the single state value that governs whether the simulation
// may mutate anything.
type GameState int

const (
	StateIdle    GameState = iota // waiting for the start command
	StateRunning                  // simulation updates happen only here
	StateOver                     // transient, reset to Idle right after side effects
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle in playfield units. Y grows downward.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// PlayerObject is the balloon.
type PlayerObject struct {
	X      float64
	Y      float64 // top edge
	VY     float64
	Width  float64
	Height float64
	Bounds Rect
}

// MoveTo sets the vertical position and recomputes the bounds in the same step,
// so Bounds is never stale after a mutation.
func (p *PlayerObject) MoveTo(y float64) {
	p.Y = y
	p.Bounds = Rect{Left: p.X, Top: p.Y, Width: p.Width, Height: p.Height}
}

// Obstacle is one member of a pipe pair.
type Obstacle struct {
	X           float64
	GapStart    float64
	Bounds      Rect
	AwardsPoint bool
	Scored      bool
}

// Snapshot is the read-only projection of the simulation handed to observers.
type Snapshot struct {
	State         GameState
	Score         int
	BestScore     int
	PlayerName    string
	PlayerVisible bool
	Player        Rect
	Obstacles     []Rect
	MicAvailable  bool
	Level         AudioSample
	FieldWidth    float64
	FieldHeight   float64
}

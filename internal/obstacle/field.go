// Package obstacle owns the live set of obstacle pairs.
package obstacle

import "github.com/flappyballoon/balloon/pkg/core"

// Field owns every live obstacle. Only Field mutates obstacles.
type Field struct {
	width     float64 // obstacle width
	height    float64 // obstacle height
	obstacles []*core.Obstacle
}

// NewField creates an empty field for obstacles of the given size.
func NewField(width, height float64) *Field {
	return &Field{
		width:     width,
		height:    height,
		obstacles: make([]*core.Obstacle, 0, 8),
	}
}

// SpawnPair adds a top and a bottom obstacle at x, leaving gapSize free below
// gapStart. Only the bottom member awards a point.
func (f *Field) SpawnPair(x, gapStart, gapSize float64) {
	top := &core.Obstacle{
		X:        x,
		GapStart: gapStart,
		Bounds:   core.Rect{Left: x, Top: gapStart - f.height, Width: f.width, Height: f.height},
	}
	bottom := &core.Obstacle{
		X:           x,
		GapStart:    gapStart,
		Bounds:      core.Rect{Left: x, Top: gapStart + gapSize, Width: f.width, Height: f.height},
		AwardsPoint: true,
	}
	f.obstacles = append(f.obstacles, top, bottom)
}

// AdvanceAndPrune moves every obstacle left by step and drops the ones whose
// right edge has passed the left boundary.
func (f *Field) AdvanceAndPrune(step float64) {
	kept := f.obstacles[:0]
	for _, o := range f.obstacles {
		o.X -= step
		o.Bounds.Left = o.X
		if o.Bounds.Right() <= 0 {
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(f.obstacles); i++ {
		f.obstacles[i] = nil
	}
	f.obstacles = kept
}

// ForEach visits obstacles in spawn order. Returning false stops the walk.
// The visitor gets a copy; use MarkScored to record an awarded point.
func (f *Field) ForEach(visit func(i int, o core.Obstacle) bool) {
	for i, o := range f.obstacles {
		if !visit(i, *o) {
			return
		}
	}
}

// MarkScored records that obstacle i has awarded its point.
func (f *Field) MarkScored(i int) {
	if i >= 0 && i < len(f.obstacles) {
		f.obstacles[i].Scored = true
	}
}

// Clear removes every obstacle.
func (f *Field) Clear() {
	for i := range f.obstacles {
		f.obstacles[i] = nil
	}
	f.obstacles = f.obstacles[:0]
}

// Len returns the number of live obstacles.
func (f *Field) Len() int {
	return len(f.obstacles)
}

// Bounds returns a copy of every obstacle's bounding box for rendering.
func (f *Field) Bounds() []core.Rect {
	out := make([]core.Rect, len(f.obstacles))
	for i, o := range f.obstacles {
		out[i] = o.Bounds
	}
	return out
}

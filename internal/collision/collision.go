// Package collision holds the pure geometry tests of the game core.
package collision

import "github.com/flappyballoon/balloon/pkg/core"

// Overlaps reports whether two rectangles intersect. Touching edges do not count.
func Overlaps(a, b core.Rect) bool {
	return a.Left < b.Right() &&
		a.Right() > b.Left &&
		a.Top < b.Bottom() &&
		a.Bottom() > b.Top
}

// Outside reports whether r has reached the top or bottom boundary of a
// playfield of the given height.
func Outside(r core.Rect, height float64) bool {
	return r.Top <= 0 || r.Bottom() >= height
}

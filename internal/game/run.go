package game

import (
	"time"

	"github.com/flappyballoon/balloon/pkg/core"
)

// runContext bundles the transient counters of one run. It is created by Start
// and dropped by the game-over transition.
type runContext struct {
	number     int
	stats      core.RunStats
	separation int
}

func newRunContext(number int, start time.Time) *runContext {
	return &runContext{
		number: number,
		stats:  core.RunStats{StartTime: start},
	}
}

// internal/storage/memory/memory_test.go
package memory

import (
	"testing"
	"time"

	"github.com/flappyballoon/balloon/internal/config"
	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(score int, finished time.Time) *core.RunResult {
	return &core.RunResult{Score: score, AvgMicLevel: 40, MaxMicLevel: 120, DurationSeconds: 9, FinishedAt: finished}
}

func TestRecordRun_AssignsIDs(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())

	first := run(3, time.Now())
	second := run(5, time.Now())
	require.NoError(t, b.RecordRun(first))
	require.NoError(t, b.RecordRun(second))

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
}

func TestBestScore(t *testing.T) {
	b := New(config.MemoryConfig{})

	_, err := b.BestScore()
	assert.ErrorIs(t, err, core.ErrNoRuns)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, s := range []int{4, 11, 7} {
		require.NoError(t, b.RecordRun(run(s, base.Add(time.Duration(i)*time.Minute))))
	}

	best, err := b.BestScore()
	require.NoError(t, err)
	assert.Equal(t, 11, best)
}

func TestRecentRuns_NewestFirst(t *testing.T) {
	b := New(config.MemoryConfig{})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.RecordRun(run(1, base)))
	require.NoError(t, b.RecordRun(run(2, base.Add(2*time.Minute))))
	require.NoError(t, b.RecordRun(run(3, base.Add(time.Minute))))

	runs, err := b.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].Score)
	assert.Equal(t, 3, runs[1].Score)

	all, err := b.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecentRuns_SameTimeUsesID(t *testing.T) {
	b := New(config.MemoryConfig{})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.RecordRun(run(1, at)))
	require.NoError(t, b.RecordRun(run(2, at)))

	runs, err := b.RecentRuns(1)
	require.NoError(t, err)
	assert.Equal(t, 2, runs[0].Score)
}

func TestRecordRun_CopiesValue(t *testing.T) {
	b := New(config.MemoryConfig{})
	r := run(6, time.Now())
	require.NoError(t, b.RecordRun(r))
	r.Score = 99

	best, err := b.BestScore()
	require.NoError(t, err)
	assert.Equal(t, 6, best)
}

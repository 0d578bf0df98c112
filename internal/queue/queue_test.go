package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_New(t *testing.T) {
	q := New[int](0)
	require.NotNil(t, q)
	assert.Empty(t, q.Drain())
	assert.Equal(t, 0, q.Dropped())
}

func TestQueue_PushDrainKeepsOrder(t *testing.T) {
	q := New[string](0)

	q.Push("a")
	q.Push("b", "c")

	assert.Equal(t, []string{"a", "b", "c"}, q.Drain())
	assert.Empty(t, q.Drain(), "drain empties the queue")

	q.Push("d")
	assert.Equal(t, []string{"d"}, q.Drain())
}

func TestQueue_LimitDropsOldest(t *testing.T) {
	q := New[int](3)

	q.Push(1, 2, 3)
	q.Push(4)
	q.Push(5, 6)

	assert.Equal(t, []int{4, 5, 6}, q.Drain())
	assert.Equal(t, 3, q.Dropped())

	q.Push(7)
	assert.Equal(t, 3, q.Dropped(), "drops are cumulative, not reset by Drain")
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int](0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(base + i)
			}
		}(g * 100)
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 800)
}

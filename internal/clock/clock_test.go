package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFiresInRequestOrder(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Request(func(time.Time) { got = append(got, "a") })
	q.Request(func(time.Time) { got = append(got, "b") })
	q.Request(func(time.Time) { got = append(got, "c") })

	require.Equal(t, 3, q.Pending())
	assert.Equal(t, 3, q.Fire(time.Now()))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueRequestDuringFireRunsNextRefresh(t *testing.T) {
	q := NewQueue()
	ticks := 0
	var tick Callback
	tick = func(time.Time) {
		ticks++
		q.Request(tick)
	}
	q.Request(tick)

	assert.Equal(t, 1, q.Fire(time.Now()))
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 1, q.Pending())

	assert.Equal(t, 1, q.Fire(time.Now()))
	assert.Equal(t, 2, ticks)
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue()
	ran := false
	h := q.Request(func(time.Time) { ran = true })

	assert.True(t, q.Cancel(h))
	assert.False(t, q.Cancel(h), "second cancel is a no-op")
	assert.False(t, q.Cancel(0))
	assert.Equal(t, 0, q.Fire(time.Now()))
	assert.False(t, ran)
}

func TestQueueCancelWithinBatch(t *testing.T) {
	q := NewQueue()
	ran := false
	var second Handle
	q.Request(func(time.Time) { q.Cancel(second) })
	second = q.Request(func(time.Time) { ran = true })

	assert.Equal(t, 1, q.Fire(time.Now()))
	assert.False(t, ran)
}

func TestHandlesAreNonZeroAndUnique(t *testing.T) {
	q := NewQueue()
	seen := map[Handle]bool{}
	for i := 0; i < 100; i++ {
		h := q.Request(func(time.Time) {})
		require.NotZero(t, h)
		require.False(t, seen[h])
		seen[h] = true
	}
}

func TestDisplayDefaultsRate(t *testing.T) {
	d := NewDisplay(0)
	defer d.Stop()
	assert.Equal(t, time.Second/DefaultRefreshHz, d.Interval())

	d2 := NewDisplay(120)
	defer d2.Stop()
	assert.Equal(t, time.Second/120, d2.Interval())
}

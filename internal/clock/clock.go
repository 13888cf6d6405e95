// Package clock provides refresh-tied frame scheduling.
//
// A Queue collects callbacks that should run on the next display refresh.
// Something else decides when a refresh happens: a Display ticker in the
// running server, or a test calling Fire directly.
package clock

import (
	"slices"
	"time"
)

// Handle identifies a requested frame callback. The zero Handle is never
// issued and means "nothing scheduled".
type Handle uint64

// Callback runs on a refresh. now is the refresh timestamp.
type Callback func(now time.Time)

// Queue is a refresh-tied callback queue.
//
// Callbacks requested while a batch is firing run on the next Fire, never
// on the current one. Queue is not safe for concurrent use; it belongs to
// the event loop that drives it.
type Queue struct {
	next    Handle
	pending map[Handle]Callback
	firing  map[Handle]Callback
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: map[Handle]Callback{}}
}

// Request schedules cb for the next refresh and returns its handle.
func (q *Queue) Request(cb Callback) Handle {
	q.next++
	q.pending[q.next] = cb
	return q.next
}

// Cancel drops a pending callback. It reports whether h was still pending;
// canceling an unknown, fired or zero handle is a no-op.
func (q *Queue) Cancel(h Handle) bool {
	if h == 0 {
		return false
	}
	if _, ok := q.pending[h]; ok {
		delete(q.pending, h)
		return true
	}
	if _, ok := q.firing[h]; ok {
		delete(q.firing, h)
		return true
	}
	return false
}

// Pending returns the number of callbacks waiting for the next refresh.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Fire runs every callback that was pending when Fire was called, in
// request order, and returns how many ran.
func (q *Queue) Fire(now time.Time) int {
	if len(q.pending) == 0 {
		return 0
	}
	q.firing, q.pending = q.pending, map[Handle]Callback{}
	handles := make([]Handle, 0, len(q.firing))
	for h := range q.firing {
		handles = append(handles, h)
	}
	slices.Sort(handles)

	n := 0
	for _, h := range handles {
		cb, ok := q.firing[h]
		if !ok {
			continue // canceled by an earlier callback in this batch
		}
		delete(q.firing, h)
		cb(now)
		n++
	}
	q.firing = nil
	return n
}

// DefaultRefreshHz is used when a non-positive rate is configured.
const DefaultRefreshHz = 60

// Display paces refreshes at a fixed rate.
type Display struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewDisplay starts a refresh ticker at hz refreshes per second.
func NewDisplay(hz int) *Display {
	if hz <= 0 {
		hz = DefaultRefreshHz
	}
	interval := time.Second / time.Duration(hz)
	return &Display{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// C delivers refresh timestamps.
func (d *Display) C() <-chan time.Time { return d.ticker.C }

// Interval is the time between refreshes.
func (d *Display) Interval() time.Duration { return d.interval }

// Stop halts the ticker. No more refreshes are delivered.
func (d *Display) Stop() { d.ticker.Stop() }

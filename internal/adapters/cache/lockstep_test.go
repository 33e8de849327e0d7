package cache

import (
	"runtime"
	"sync/atomic"
)

// lockstep advances a shared tick once every participant has called wait, so tests can reason
// about the order in which concurrent callers see the cache
type lockstep struct {
	participants int64
	maxTicks     int64
	tick         atomic.Int64
	arrived      atomic.Int64
}

func (l *lockstep) currentTick() int {
	return int(l.tick.Load())
}

func (l *lockstep) done() bool {
	return l.tick.Load() >= l.maxTicks
}

// run blocks until maxTicks ticks have passed
func (l *lockstep) run() {
	for !l.done() {
		if l.arrived.Load() != l.participants {
			runtime.Gosched()
			continue
		}

		// Every participant is blocked in wait, so nobody can arrive in between
		l.arrived.Store(0)
		l.tick.Add(1)
	}
}

// lockstepCache is one participant's view of a cache shared by all participants
type lockstepCache[T any] struct {
	*basicCache[T]
	clock    *lockstep
	nextTick int64
}

func (c *lockstepCache[T]) wait() {
	if c.clock.done() {
		panic("wait() called after the last tick")
	}

	c.nextTick++
	c.clock.arrived.Add(1)

	for c.clock.tick.Load() < c.nextTick {
		runtime.Gosched()
	}
}

func (c *lockstepCache[T]) waitUntilDone() {
	for !c.clock.done() {
		c.wait()
	}
}

func newLockstep[T any](participants int, maxTicks int) (*lockstep, []*lockstepCache[T]) {
	clock := &lockstep{
		participants: int64(participants),
		maxTicks:     int64(maxTicks),
	}
	store := NewBasicCache[T]().(*basicCache[T])

	caches := make([]*lockstepCache[T], participants)
	for i := range participants {
		caches[i] = &lockstepCache[T]{basicCache: store, clock: clock}
	}
	return clock, caches
}

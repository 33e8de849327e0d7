package ratelimiting

import (
	"context"
	"time"
)

// WindowLimiter allows at most limit operations to start within any sliding window.
//
// Each of the limit slots remembers when its previous operation finished. An operation takes the
// slot that has been free the longest and waits until window has passed since that operation
// finished.
type WindowLimiter struct {
	window    time.Duration
	nowFunc   func() time.Time
	afterFunc func(time.Duration) <-chan time.Time

	// Finish times of the previous operation in each free slot, oldest first
	slots chan time.Time
}

func NewWindowLimiter(
	limit int,
	window time.Duration,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) *WindowLimiter {
	slots := make(chan time.Time, limit)
	longAgo := nowFunc().Add(-window)
	for range limit {
		slots <- longAgo
	}

	return &WindowLimiter{
		window:    window,
		nowFunc:   nowFunc,
		afterFunc: afterFunc,
		slots:     slots,
	}
}

// Limit runs operation once the window allows it.
//
// Returns false without running operation if ctx is done first, or if ctx has a deadline that
// would pass before the wait plus maxOperationTime.
func (l *WindowLimiter) Limit(ctx context.Context, maxOperationTime time.Duration, operation func()) bool {
	var lastFinished time.Time
	select {
	case lastFinished = <-l.slots:
	case <-ctx.Done():
		return false
	}

	release := lastFinished
	defer func() {
		l.slots <- release
	}()

	wait := l.window - l.nowFunc().Sub(lastFinished)

	if deadline, ok := ctx.Deadline(); ok {
		if max(wait, 0)+maxOperationTime > deadline.Sub(l.nowFunc()) {
			return false
		}
	}

	if wait > 0 {
		select {
		case <-l.afterFunc(wait):
		case <-ctx.Done():
			return false
		}
	}

	operation()
	release = l.nowFunc()
	return true
}

package mcts

import (
	"time"
)

// Search clock, a negative duration means no time limit
type timer struct {
	start    time.Time
	duration time.Duration
}

func newTimer() *timer {
	return &timer{start: time.Now(), duration: -1}
}

func (t *timer) expired() bool {
	return t.duration > 0 && time.Since(t.start) >= t.duration
}

func (t *timer) isSet() bool {
	return t.duration >= 0
}

// Restart the clock with given duration
func (t *timer) reset(duration time.Duration) {
	t.start = time.Now()
	t.duration = duration
}

// Elapsed milliseconds, at least 1 so it's safe to divide by
func (t *timer) elapsedMs() uint32 {
	return uint32(max(time.Since(t.start).Milliseconds(), 1))
}

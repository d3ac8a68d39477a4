package utils

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer that timer-driven state machines use.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. Tests replace it with a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc is AfterFunc backed by time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is an AfterFunc source whose timers only run when fired.
type ManualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, d: d, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Fire runs every live timer scheduled with duration d and reports how many
// ran. Callbacks run on the caller's goroutine without the clock lock held.
func (c *ManualClock) Fire(d time.Duration) int {
	c.mu.Lock()
	var due, keep []*manualTimer
	for _, t := range c.pending {
		switch {
		case t.stopped:
		case t.d == d:
			t.fired = true
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	c.pending = keep
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Live counts timers that are neither stopped nor fired.
func (c *ManualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

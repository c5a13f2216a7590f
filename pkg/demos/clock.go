package demos

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// Clock schedules callbacks for effects. Callbacks always run as scheduler
// tasks, never on a foreign goroutine. Durations must be positive.
type Clock interface {
	// Every calls fn every d until stop is called.
	Every(d time.Duration, fn func()) (stop func())

	// After calls fn once after d unless stop is called first.
	After(d time.Duration, fn func()) (stop func())
}

// RealClock fires on wall-clock time and hands callbacks to the scheduler
// loop with Dispatch.
type RealClock struct {
	sched *hooks.Scheduler
}

// NewRealClock returns a clock that dispatches onto s. s must be running
// its loop.
func NewRealClock(s *hooks.Scheduler) *RealClock {
	return &RealClock{sched: s}
}

func (c *RealClock) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.sched.Dispatch(fn)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (c *RealClock) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { c.sched.Dispatch(fn) })
	return func() { t.Stop() }
}

// ManualClock only moves when Advance is called. Scripted scenarios use it
// so timer demos are deterministic.
type ManualClock struct {
	sched  *hooks.Scheduler
	now    time.Duration
	seq    int
	timers map[int]*manualTimer
}

type manualTimer struct {
	id    int
	at    time.Duration
	every time.Duration
	fn    func()
}

// NewManualClock returns a stopped clock whose callbacks run as tasks on s.
func NewManualClock(s *hooks.Scheduler) *ManualClock {
	return &ManualClock{sched: s, timers: make(map[int]*manualTimer)}
}

// Now returns the time elapsed since the clock was created.
func (c *ManualClock) Now() time.Duration { return c.now }

// Pending returns the number of live timers.
func (c *ManualClock) Pending() int { return len(c.timers) }

func (c *ManualClock) Every(d time.Duration, fn func()) func() {
	return c.add(d, d, fn)
}

func (c *ManualClock) After(d time.Duration, fn func()) func() {
	return c.add(d, 0, fn)
}

func (c *ManualClock) add(d, every time.Duration, fn func()) func() {
	c.seq++
	id := c.seq
	c.timers[id] = &manualTimer{id: id, at: c.now + d, every: every, fn: fn}
	return func() { delete(c.timers, id) }
}

// Advance moves the clock forward by d, firing due timers in time order.
// Each firing is its own task; their errors are joined.
func (c *ManualClock) Advance(d time.Duration) error {
	target := c.now + d
	var errs []error
	for {
		t := c.next(target)
		if t == nil {
			break
		}
		c.now = t.at
		if t.every > 0 {
			t.at += t.every
		} else {
			delete(c.timers, t.id)
		}
		if err := c.sched.Act(t.fn); err != nil {
			errs = append(errs, err)
		}
	}
	c.now = target
	return errors.Join(errs...)
}

// next returns the earliest timer due at or before target. Ties fire in
// creation order.
func (c *ManualClock) next(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

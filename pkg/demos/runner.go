package demos

import (
	"fmt"
	"time"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// Env holds the timings scripted demos use.
type Env struct {
	Tick       time.Duration
	FetchDelay time.Duration
}

// DefaultEnv returns one-second ticks and a 300ms fetch delay.
func DefaultEnv() Env {
	return Env{Tick: time.Second, FetchDelay: 300 * time.Millisecond}
}

// StepResult is the state after one scripted step.
type StepResult struct {
	Step    string
	Output  string
	Batches []hooks.BatchReport
	Err     error
}

// Runner drives one demo instance through a script on the calling
// goroutine, with a manual clock, and records what every step did.
type Runner struct {
	sched *hooks.Scheduler
	clock *ManualClock
	env   Env

	root     *hooks.Instance
	annotate func() string

	batches []hooks.BatchReport
	steps   []StepResult
	remove  func()
}

// NewRunner creates a runner over s.
func NewRunner(s *hooks.Scheduler, env Env) *Runner {
	r := &Runner{
		sched: s,
		clock: NewManualClock(s),
		env:   env,
	}
	r.remove = s.OnBatch(func(rep hooks.BatchReport) {
		r.batches = append(r.batches, rep)
	})
	return r
}

// Scheduler returns the scheduler the runner drives.
func (r *Runner) Scheduler() *hooks.Scheduler { return r.sched }

// Clock returns the runner's manual clock.
func (r *Runner) Clock() *ManualClock { return r.clock }

// Env returns the demo timings.
func (r *Runner) Env() Env { return r.env }

// Root returns the instance mounted by Mount.
func (r *Runner) Root() *hooks.Instance { return r.root }

// Annotate appends fn's result to every recorded output, for demos with
// state outside their instance.
func (r *Runner) Annotate(fn func() string) {
	r.annotate = fn
}

// Mount mounts the demo's root instance as the first step.
func (r *Runner) Mount(render hooks.RenderFunc, props any, opts ...hooks.MountOption) error {
	in, err := r.sched.Mount(render, props, opts...)
	r.root = in
	return r.record("mount", err)
}

// Do runs fn as one task.
func (r *Runner) Do(step string, fn func()) error {
	return r.record(step, r.sched.Act(fn))
}

// Advance moves the manual clock forward by d.
func (r *Runner) Advance(step string, d time.Duration) error {
	return r.record(step, r.clock.Advance(d))
}

// Unmount unmounts the root instance.
func (r *Runner) Unmount(step string) error {
	return r.record(step, r.sched.Unmount(r.root))
}

// Steps returns the recorded steps.
func (r *Runner) Steps() []StepResult {
	return r.steps
}

// Close stops collecting batch reports.
func (r *Runner) Close() {
	if r.remove != nil {
		r.remove()
		r.remove = nil
	}
}

func (r *Runner) record(step string, err error) error {
	out := ""
	if r.root != nil && r.root.Output() != nil {
		out = fmt.Sprint(r.root.Output())
	}
	if r.annotate != nil {
		out += " | " + r.annotate()
	}
	r.steps = append(r.steps, StepResult{
		Step:    step,
		Output:  out,
		Batches: r.batches,
		Err:     err,
	})
	r.batches = nil
	return err
}

// View returns the root instance's output as T.
func View[T any](r *Runner) T {
	var zero T
	if r.root == nil {
		return zero
	}
	v, _ := r.root.Output().(T)
	return v
}

package hooks

import (
	"context"
	"sync"
)

var (
	defaultScheduler     *Scheduler
	defaultSchedulerOnce sync.Once
)

// Default returns the process-wide scheduler, created on first use.
func Default() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = NewScheduler()
	})
	return defaultScheduler
}

// Mount mounts an instance on the default scheduler.
func Mount(render RenderFunc, props any, opts ...MountOption) (*Instance, error) {
	return Default().Mount(render, props, opts...)
}

// Update re-renders an instance with new props. The instance's own
// scheduler is used, so instances of other schedulers work too.
func Update(in *Instance, props any) error {
	if in == nil {
		return ErrUnmounted
	}
	return in.sched.Update(in, props)
}

// Unmount tears an instance down on its own scheduler.
func Unmount(in *Instance) error {
	if in == nil {
		return nil
	}
	return in.sched.Unmount(in)
}

// Act runs fn as one task on the default scheduler.
func Act(fn func()) error {
	return Default().Act(fn)
}

// Dispatch queues fn on the default scheduler.
func Dispatch(fn func()) {
	Default().Dispatch(fn)
}

// Run runs the default scheduler's loop until ctx is done.
func Run(ctx context.Context) error {
	return Default().Run(ctx)
}

package hooks

// Cleanup is returned by an effect callback and called before the effect
// runs again and when its instance unmounts.
type Cleanup func()

type effectPhase uint8

const (
	// effectPending: a render recorded a callback that has not committed.
	effectPending effectPhase = iota + 1
	// effectScheduled: the render committed; the effect waits for flush.
	effectScheduled
	// effectCommitted: flushed; the cleanup (if any) belongs to the last run.
	effectCommitted
)

// effectCell is the state machine behind UseEffect:
//
//	Pending --commit--> Scheduled --flush--> Committed --render--> Pending
type effectCell struct {
	owner *Instance
	index int

	phase effectPhase

	// deps and cleanup belong to the last run.
	deps    Deps
	cleanup Cleanup
	ran     bool

	// next* are recorded by the render in progress.
	nextFn   func() Cleanup
	nextDeps Deps

	// saved* restore the previous phase when a render rolls back.
	savedPhase    effectPhase
	savedNextFn   func() Cleanup
	savedNextDeps Deps

	disposed bool
}

func (e *effectCell) kind() HookType { return HookEffect }

// schedule records fn and deps for the current render without running
// anything.
func (e *effectCell) schedule(fn func() Cleanup, deps Deps) {
	e.savedPhase, e.savedNextFn, e.savedNextDeps = e.phase, e.nextFn, e.nextDeps
	e.phase = effectPending
	e.nextFn = fn
	e.nextDeps = deps.clone()
}

func (e *effectCell) commit() {
	if e.phase == effectPending {
		e.phase = effectScheduled
	}
}

func (e *effectCell) rollback() {
	if e.phase != effectPending {
		return
	}
	e.phase, e.nextFn, e.nextDeps = e.savedPhase, e.savedNextFn, e.savedNextDeps
}

// effectOutcome records what one flush of a cell did.
type effectOutcome struct {
	ran     bool
	cleaned bool
	errs    []error
}

// flush runs a scheduled effect. When the tuple changed, or the effect
// never ran, or deps is nil, the previous cleanup runs first and then the
// new callback; the callback's return value becomes the next cleanup.
func (e *effectCell) flush() effectOutcome {
	var out effectOutcome
	if e.phase != effectScheduled || e.disposed {
		return out
	}
	e.phase = effectCommitted

	fn, deps := e.nextFn, e.nextDeps
	e.nextFn, e.nextDeps = nil, nil

	if e.ran && e.deps.Equal(deps) {
		return out
	}

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		out.cleaned = true
		if err := e.guard(EffectPhaseCleanup, func() { c() }); err != nil {
			out.errs = append(out.errs, err)
		}
	}

	e.deps = deps
	e.ran = true
	out.ran = true
	if err := e.guard(EffectPhaseCallback, func() { e.cleanup = fn() }); err != nil {
		out.errs = append(out.errs, err)
	}
	return out
}

// dispose runs the last cleanup once and retires the cell.
func (e *effectCell) dispose() (ran bool, err error) {
	if e.disposed {
		return false, nil
	}
	e.disposed = true
	e.nextFn, e.nextDeps = nil, nil
	if e.cleanup == nil {
		return false, nil
	}
	c := e.cleanup
	e.cleanup = nil
	return true, e.guard(EffectPhaseCleanup, func() { c() })
}

func (e *effectCell) guard(phase EffectPhase, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EffectError{
				InstanceID: e.owner.id,
				Name:       e.owner.name,
				Slot:       e.index,
				Phase:      phase,
				Value:      r,
			}
		}
	}()
	fn()
	return nil
}

// UseEffect schedules fn to run after the current batch commits. It runs on
// the first commit and again whenever deps differs from the tuple of its
// last run; the previous Cleanup runs first. A nil deps re-runs after every
// commit; On() runs once.
//
// Example:
//
//	hooks.UseEffect(in, func() hooks.Cleanup {
//	    t := time.AfterFunc(time.Second, tick)
//	    return func() { t.Stop() }
//	}, hooks.On(running))
func UseEffect(in *Instance, fn func() Cleanup, deps Deps) {
	idx := in.ledger.cursor
	c := in.ledger.nextSlot(HookEffect, func() cell {
		return &effectCell{owner: in, index: idx}
	})
	c.(*effectCell).schedule(fn, deps)
}

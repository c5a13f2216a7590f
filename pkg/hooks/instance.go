package hooks

// RenderFunc renders one component instance. Hooks are called on in, in the
// same order on every render. The returned value is the instance's output.
type RenderFunc func(in *Instance) any

// Instance is a mounted component: an identity, a hook slot arena, a render
// function and the current props. Instances are created by Mount and
// destroyed by Unmount; only the owning Scheduler mutates them.
type Instance struct {
	id    uint64
	name  string
	sched *Scheduler

	render RenderFunc
	props  any

	// gate, when set, lets Update skip renders whose props are unchanged.
	gate PropsEqual

	ledger *ledger
	output any

	renderCount int
	skipCount   int
	mounted     bool
	disposed    bool

	// pending holds cells with queued writes, in first-write order.
	pending []pendingCell
}

// pendingCell is a cell with queued writes.
type pendingCell interface {
	applyPending()
	dropPending()
}

// MountOption configures an instance at mount time.
type MountOption func(*Instance)

// WithName sets the instance name used in logs, errors and devtools.
func WithName(name string) MountOption {
	return func(in *Instance) {
		in.name = name
	}
}

func newInstance(s *Scheduler, render RenderFunc, props any, opts []MountOption) *Instance {
	in := &Instance{
		id:     nextID(),
		sched:  s,
		render: render,
		props:  props,
	}
	in.ledger = newLedger(in)
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ID returns the instance identity. IDs are never reused.
func (in *Instance) ID() uint64 { return in.id }

// Name returns the instance name given at mount, or "".
func (in *Instance) Name() string { return in.name }

// String returns "Name#ID".
func (in *Instance) String() string { return instanceLabel(in.name, in.id) }

// Props returns the props of the current (or last committed) render.
func (in *Instance) Props() any { return in.props }

// Output returns the value returned by the last committed render.
func (in *Instance) Output() any { return in.output }

// RenderCount returns how many renders have committed.
func (in *Instance) RenderCount() int { return in.renderCount }

// SkipCount returns how many props updates the gate skipped.
func (in *Instance) SkipCount() int { return in.skipCount }

// Mounted reports whether the first render committed and the instance has
// not been unmounted since.
func (in *Instance) Mounted() bool { return in.mounted && !in.disposed }

// Memoized reports whether the instance was mounted behind a props gate.
func (in *Instance) Memoized() bool { return in.gate != nil }

// Scheduler returns the scheduler that owns the instance.
func (in *Instance) Scheduler() *Scheduler { return in.sched }

// Slots returns the kinds of the committed hook slots, in ledger order.
func (in *Instance) Slots() []HookType {
	out := make([]HookType, 0, len(in.ledger.slots))
	for _, c := range in.ledger.slots {
		out = append(out, c.kind())
	}
	return out
}

// PropsAs returns the instance props as T, or the zero value when the props
// hold a different type.
func PropsAs[T any](in *Instance) T {
	v, _ := in.props.(T)
	return v
}

// queueWrite records c as having pending writes.
func (in *Instance) queueWrite(c pendingCell) {
	for _, p := range in.pending {
		if p == c {
			return
		}
	}
	in.pending = append(in.pending, c)
}

// applyPending folds every queued write into the staged cell values.
func (in *Instance) applyPending() {
	pending := in.pending
	in.pending = nil
	for _, c := range pending {
		c.applyPending()
	}
}

// dropPending discards queued writes without applying them.
func (in *Instance) dropPending() {
	for _, c := range in.pending {
		c.dropPending()
	}
	in.pending = nil
}

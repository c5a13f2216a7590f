package hooks

// stateWrite is one queued write: a literal value or an updater.
type stateWrite[T any] struct {
	value   T
	updater func(T) T
}

// stateCell holds a committed value and the writes queued since the last
// render.
type stateCell[T any] struct {
	owner *Instance
	index int

	value T

	// staged is the value the current render sees; it becomes value on
	// commit.
	staged    T
	hasStaged bool

	queue []stateWrite[T]
}

func (c *stateCell[T]) kind() HookType { return HookState }

func (c *stateCell[T]) commit() {
	if c.hasStaged {
		c.value = c.staged
		c.hasStaged = false
	}
}

func (c *stateCell[T]) rollback() {
	var zero T
	c.staged = zero
	c.hasStaged = false
}

// current is the value visible to the render in progress.
func (c *stateCell[T]) current() T {
	if c.hasStaged {
		return c.staged
	}
	return c.value
}

// applyPending folds the queued writes over the committed value, in call
// order.
func (c *stateCell[T]) applyPending() {
	if len(c.queue) == 0 {
		return
	}
	v := c.value
	for _, w := range c.queue {
		if w.updater != nil {
			v = w.updater(v)
		} else {
			v = w.value
		}
	}
	c.queue = nil
	c.staged = v
	c.hasStaged = true
}

func (c *stateCell[T]) dropPending() {
	c.queue = nil
}

// write queues w and marks the owner dirty. A literal write replaces every
// earlier queued write for this cell.
func (c *stateCell[T]) write(w stateWrite[T]) error {
	in := c.owner
	if in.disposed {
		err := &StaleWriteError{InstanceID: in.id, Name: in.name, Slot: c.index}
		in.sched.staleWrite(err)
		return err
	}
	if w.updater == nil {
		c.queue = c.queue[:0]
	}
	c.queue = append(c.queue, w)
	in.queueWrite(c)
	in.sched.markDirty(in)
	return nil
}

// Setter writes to a state cell. Writes are queued and applied on the next
// render of the owning instance; they never change the value returned by
// the render in progress.
type Setter[T any] struct {
	cell *stateCell[T]
}

// Set queues a literal write. It discards earlier queued writes to the same
// cell. Writing to an unmounted instance returns a *StaleWriteError.
func (s Setter[T]) Set(v T) error {
	return s.cell.write(stateWrite[T]{value: v})
}

// Update queues an updater. Updaters queued in one task see the result of
// the writes queued before them.
func (s Setter[T]) Update(fn func(T) T) error {
	return s.cell.write(stateWrite[T]{updater: fn})
}

// Committed returns the last committed value. It never includes queued
// writes.
func (s Setter[T]) Committed() T {
	return s.cell.value
}

// UseState returns the state value for this render and its setter. The
// initial value is used on the first render only.
//
// Example:
//
//	count, setCount := hooks.UseState(in, 0)
//	onClick := func() { setCount.Update(func(n int) int { return n + 1 }) }
func UseState[T any](in *Instance, initial T) (T, Setter[T]) {
	return UseStateFunc(in, func() T { return initial })
}

// UseStateFunc is UseState with a lazy initializer that runs on the first
// render only.
func UseStateFunc[T any](in *Instance, init func() T) (T, Setter[T]) {
	idx := in.ledger.cursor
	c := in.ledger.nextSlot(HookState, func() cell {
		return &stateCell[T]{owner: in, index: idx, value: init()}
	})
	sc, ok := c.(*stateCell[T])
	if !ok {
		panic("hooks: state slot type changed between renders")
	}
	return sc.current(), Setter[T]{cell: sc}
}

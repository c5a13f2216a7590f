package hooks

// ledger is the ordinal-indexed slot arena of one instance.
//
// Slot N must correspond to the same hook call on every render. The ledger
// does not try to recover from a mismatch: nextSlot and endRender panic or
// fail with a *HookOrderViolation and the scheduler tears the instance down.
type ledger struct {
	owner *Instance

	slots  []cell
	cursor int

	// committed is the slot count recorded by the last successful render.
	// -1 until the first render commits.
	committed int

	rendering bool
}

func newLedger(owner *Instance) *ledger {
	return &ledger{owner: owner, committed: -1}
}

// beginRender resets the cursor for a new render pass.
func (l *ledger) beginRender() {
	l.cursor = 0
	l.rendering = true
}

// nextSlot returns the cell at the cursor, creating it with init on the
// first render, and advances the cursor.
func (l *ledger) nextSlot(kind HookType, init func() cell) cell {
	if !l.rendering {
		panic(ErrHookOutsideRender)
	}

	idx := l.cursor
	l.cursor++

	if idx < len(l.slots) {
		c := l.slots[idx]
		if c.kind() != kind {
			panic(l.violation(idx, c.kind(), kind))
		}
		return c
	}

	if l.committed >= 0 {
		// A render after the first may never grow the arena.
		panic(l.violation(idx, 0, kind))
	}

	c := init()
	l.slots = append(l.slots, c)
	return c
}

// endRender checks that the render visited exactly as many slots as the
// previous one.
func (l *ledger) endRender() error {
	l.rendering = false
	if l.committed >= 0 && l.cursor != l.committed {
		return &HookOrderViolation{
			InstanceID: l.owner.id,
			Name:       l.owner.name,
			Index:      l.cursor,
			Want:       l.committed,
			Count:      l.cursor,
		}
	}
	return nil
}

// commit makes every staged cell value authoritative.
func (l *ledger) commit() {
	for _, c := range l.slots {
		c.commit()
	}
	l.committed = len(l.slots)
}

// rollback discards staged values. Slots created by a render that never
// committed are dropped.
func (l *ledger) rollback() {
	l.rendering = false
	keep := l.committed
	if keep < 0 {
		keep = 0
	}
	for _, c := range l.slots {
		c.rollback()
	}
	l.slots = l.slots[:keep]
}

// effects returns the effect cells in slot order.
func (l *ledger) effects() []*effectCell {
	var out []*effectCell
	for _, c := range l.slots {
		if e, ok := c.(*effectCell); ok {
			out = append(out, e)
		}
	}
	return out
}

// teardown runs every effect's pending cleanup in creation order and
// discards the arena. It returns how many cleanups ran and the errors they
// raised.
func (l *ledger) teardown() (cleaned int, errs []error) {
	for _, e := range l.effects() {
		ran, err := e.dispose()
		if ran {
			cleaned++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	l.slots = nil
	l.committed = -1
	l.rendering = false
	return cleaned, errs
}

func (l *ledger) violation(idx int, expected, got HookType) *HookOrderViolation {
	return &HookOrderViolation{
		InstanceID: l.owner.id,
		Name:       l.owner.name,
		Index:      idx,
		Expected:   expected,
		Got:        got,
	}
}

package hooks

// memoCell caches a derived value keyed by its last dependency tuple.
type memoCell[T any] struct {
	k HookType

	value T
	deps  Deps
	has   bool

	// prev* hold the committed entry while a render has replaced it.
	prevValue T
	prevDeps  Deps
	prevHas   bool
	staged    bool

	computes int
}

func newMemoCell[T any](k HookType) *memoCell[T] {
	return &memoCell[T]{k: k}
}

func (m *memoCell[T]) kind() HookType { return m.k }

func (m *memoCell[T]) commit() {
	m.staged = false
	var zero T
	m.prevValue = zero
	m.prevDeps = nil
}

func (m *memoCell[T]) rollback() {
	if !m.staged {
		return
	}
	m.value, m.deps, m.has = m.prevValue, m.prevDeps, m.prevHas
	m.commit()
}

// get returns the cached value when deps equals the stored tuple, and
// otherwise calls compute and caches the result under deps. A nil deps
// always recomputes.
func (m *memoCell[T]) get(compute func() T, deps Deps) T {
	if m.has && m.deps.Equal(deps) {
		return m.value
	}
	if !m.staged {
		m.prevValue, m.prevDeps, m.prevHas = m.value, m.deps, m.has
		m.staged = true
	}
	m.value = compute()
	m.deps = deps.clone()
	m.has = true
	m.computes++
	return m.value
}

// UseMemo returns compute's result, recomputing only when deps differs from
// the tuple of the previous computation. compute must be a pure function of
// deps; nothing else is tracked.
//
// Example:
//
//	primes := hooks.UseMemo(in, func() []int { return sieve(limit) }, hooks.On(limit))
func UseMemo[T any](in *Instance, compute func() T, deps Deps) T {
	c := in.ledger.nextSlot(HookMemo, func() cell { return newMemoCell[T](HookMemo) })
	mc, ok := c.(*memoCell[T])
	if !ok {
		panic("hooks: memo slot type changed between renders")
	}
	return mc.get(compute, deps)
}

// Callback is a stable handle to a function. Go funcs cannot be compared,
// so dependency tuples and memoized props compare Callback pointers
// instead.
type Callback[F any] struct {
	fn F
}

// Fn returns the wrapped function.
func (c *Callback[F]) Fn() F {
	return c.fn
}

// UseCallback returns the same *Callback for as long as deps is unchanged,
// and a new one wrapping fn otherwise.
//
// Example:
//
//	onSelect := hooks.UseCallback(in, func(id int) { setSelected.Set(id) }, hooks.On())
//	hooks.Update(row, RowProps{ID: 1, OnSelect: onSelect})
func UseCallback[F any](in *Instance, fn F, deps Deps) *Callback[F] {
	c := in.ledger.nextSlot(HookCallback, func() cell { return newMemoCell[*Callback[F]](HookCallback) })
	mc, ok := c.(*memoCell[*Callback[F]])
	if !ok {
		panic("hooks: callback slot type changed between renders")
	}
	return mc.get(func() *Callback[F] { return &Callback[F]{fn: fn} }, deps)
}

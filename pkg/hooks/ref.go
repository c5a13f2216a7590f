package hooks

import "sync"

// Ref holds a mutable value that survives re-renders. Writes never mark the
// owner dirty and are never tracked as dependencies: list a ref's value in
// a Deps tuple explicitly if staleness matters.
//
// Ref[T] is safe for concurrent access, so async work started by an effect
// may read and write it without dispatching.
type Ref[T any] struct {
	value T
	isSet bool
	mu    sync.RWMutex
}

// NewRef creates a free-standing Ref outside any instance.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.isSet = true
}

// IsSet returns true if Set has been called since creation or Clear.
func (r *Ref[T]) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSet
}

// Clear resets the ref to its zero value.
func (r *Ref[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.value = zero
	r.isSet = false
}

type refCell[T any] struct {
	ref *Ref[T]
}

func (c *refCell[T]) kind() HookType { return HookRef }
func (c *refCell[T]) commit()        {}
func (c *refCell[T]) rollback()      {}

// UseRef returns the instance's Ref for this slot, created with initial on
// the first render and returned unchanged afterwards.
//
// Example:
//
//	renders := hooks.UseRef(in, 0)
//	renders.Set(renders.Current() + 1)
func UseRef[T any](in *Instance, initial T) *Ref[T] {
	c := in.ledger.nextSlot(HookRef, func() cell {
		return &refCell[T]{ref: NewRef(initial)}
	})
	rc, ok := c.(*refCell[T])
	if !ok {
		panic("hooks: ref slot type changed between renders")
	}
	return rc.ref
}

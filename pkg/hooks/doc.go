// Package hooks is a small reactive runtime for component instances: state
// cells, memoized values, effects with cleanup, refs, and call-order-stable
// hook slots.
//
// # Instances and hooks
//
// A component is a RenderFunc. Mounting it creates an Instance whose hook
// slots are addressed purely by call order, so hooks must be called
// unconditionally and in the same order on every render:
//
//	func Counter(in *hooks.Instance) any {
//	    count, setCount := hooks.UseState(in, 0)
//	    doubled := hooks.UseMemo(in, func() int { return count * 2 }, hooks.On(count))
//	    hooks.UseEffect(in, func() hooks.Cleanup {
//	        log.Println("count is", count)
//	        return nil
//	    }, hooks.On(count))
//	    return fmt.Sprintf("%d (%d)", count, doubled)
//	}
//
//	s := hooks.NewScheduler()
//	in, err := s.Mount(Counter, nil)
//
// A render that calls a different number or kind of hooks than the previous
// one fails with *HookOrderViolation and the instance is torn down.
//
// # Dependency tuples
//
// UseMemo, UseCallback and UseEffect take a Deps tuple compared element by
// element with SameValue. A nil tuple recomputes on every render; On()
// computes once. Funcs are never equal to each other; wrap them with
// UseCallback to get a comparable *Callback.
//
// # Batching
//
// Setter writes are queued, not applied. All writes made inside one task
// (Act, a dispatched task, or a single write outside any task) produce one
// render pass per dirty instance, followed by one effect flush:
//
//	s.Act(func() {
//	    setCount.Update(func(n int) int { return n + 1 })
//	    setCount.Update(func(n int) int { return n + 1 })
//	}) // one render, count == 2
//
// Effects run after every instance in the batch has rendered, in render
// order and slot order. Writes made by effects start a new batch.
//
// # Thread Safety
//
// A Scheduler is single-threaded. Other goroutines enter through Dispatch.
package hooks

package demos

import (
	"fmt"
	"time"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// script stops at the first failing step; every step is still recorded
// by the runner.
type script struct {
	r   *Runner
	err error
}

func (s *script) mount(render hooks.RenderFunc, props any, name string) {
	if s.err == nil {
		s.err = s.r.Mount(render, props, hooks.WithName(name))
	}
}

func (s *script) do(step string, fn func()) {
	if s.err == nil {
		s.err = s.r.Do(step, fn)
	}
}

func (s *script) advance(step string, d time.Duration) {
	if s.err == nil {
		s.err = s.r.Advance(step, d)
	}
}

func (s *script) unmount(step string) {
	if s.err == nil {
		s.err = s.r.Unmount(step)
	}
}

func counterScript(r *Runner) error {
	s := &script{r: r}
	s.mount(Counter, nil, "Counter")
	s.do("increment", func() { View[CounterView](r).Increment() })
	s.do("increment twice in one task", func() {
		v := View[CounterView](r)
		v.Increment()
		v.Increment()
	})
	s.do("set step to 5", func() { View[CounterView](r).SetStep(5) })
	s.do("decrement", func() { View[CounterView](r).Decrement() })
	s.do("reset", func() { View[CounterView](r).Reset() })
	return s.err
}

func timerScript(r *Runner) error {
	tick := r.Env().Tick
	s := &script{r: r}
	s.mount(Timer, TimerProps{Clock: r.Clock(), Tick: tick}, "Timer")
	s.do("start", func() { View[TimerView](r).Toggle() })
	s.advance(fmt.Sprintf("wait %s", 3*tick), 3*tick)
	s.do("pause", func() { View[TimerView](r).Toggle() })
	s.advance(fmt.Sprintf("wait %s while paused", 2*tick), 2*tick)
	s.do("resume", func() { View[TimerView](r).Toggle() })
	s.advance(fmt.Sprintf("wait %s", tick), tick)
	s.do("reset", func() { View[TimerView](r).Reset() })
	s.advance(fmt.Sprintf("wait %s after reset", tick), tick)
	s.unmount("unmount")
	return s.err
}

func fetcherScript(r *Runner) error {
	delay := r.Env().FetchDelay
	s := &script{r: r}
	s.mount(UserFetcher, FetcherProps{Clock: r.Clock(), Delay: delay}, "UserFetcher")
	s.advance("response for user 1", delay)
	s.do("select user 2", func() { View[FetcherView](r).SetUserID(2) })
	s.do("select user 3 before user 2 arrives", func() { View[FetcherView](r).SetUserID(3) })
	s.advance("response for user 3 only", delay)
	s.do("select user 11", func() { View[FetcherView](r).SetUserID(11) })
	s.advance("response for user 11", delay)
	s.do("select user 4", func() { View[FetcherView](r).SetUserID(4) })
	s.unmount("unmount while loading")
	s.advance("late response is dropped", delay)
	return s.err
}

func titleScript(r *Runner) error {
	doc := NewDocument("untitled")
	r.Annotate(func() string { return "document: " + doc.Title() })

	s := &script{r: r}
	s.mount(DocumentTitle, doc, "DocumentTitle")
	s.do("type a title", func() { View[TitleView](r).SetTitle("Learning Hooks") })
	s.do("increment", func() { View[TitleView](r).Increment() })
	s.do("decrement twice", func() {
		v := View[TitleView](r)
		v.Decrement()
		v.Decrement()
	})
	s.do("retitle and increment in one task", func() {
		v := View[TitleView](r)
		v.SetTitle("Both")
		v.Increment()
	})
	return s.err
}

func primesScript(r *Runner) error {
	s := &script{r: r}
	s.mount(PrimeFilter, nil, "PrimeFilter")
	s.do("click", func() { View[PrimeView](r).Click() })
	s.do("limit 100", func() { View[PrimeView](r).SetLimit(100) })
	s.do("fibonacci 25", func() { View[PrimeView](r).SetFibN(25) })
	s.do("click twice", func() {
		v := View[PrimeView](r)
		v.Click()
		v.Click()
	})
	s.do("limit 100 again", func() { View[PrimeView](r).SetLimit(100) })
	return s.err
}

// Fruits are the items of the search demos.
var Fruits = []string{"Apple", "Apricot", "Banana", "Blueberry", "Cherry", "Grape"}

func searchScript(ungated bool) func(r *Runner) error {
	return func(r *Runner) error {
		s := &script{r: r}
		s.mount(SearchList, SearchProps{Items: Fruits, Ungated: ungated}, "SearchList")
		s.do("unrelated click", func() { View[SearchView](r).Click() })
		s.do("select Banana", func() { View[SearchView](r).Select("Banana") })
		s.do("query \"ap\"", func() { View[SearchView](r).SetQuery("ap") })
		s.do("select Grape", func() { View[SearchView](r).Select("Grape") })
		s.do("clear query", func() { View[SearchView](r).SetQuery("") })
		s.unmount("unmount")
		return s.err
	}
}

func renderCounterScript(r *Runner) error {
	s := &script{r: r}
	s.mount(RenderCounter, nil, "RenderCounter")
	for i := 1; i <= 3; i++ {
		s.do(fmt.Sprintf("click ref (%d)", i), func() { View[RenderCountView](r).ClickRef() })
	}
	s.do("type \"hi\"", func() { View[RenderCountView](r).SetText("hi") })
	s.do("type \"hi!\"", func() { View[RenderCountView](r).SetText("hi!") })
	return s.err
}

func previousValueScript(r *Runner) error {
	s := &script{r: r}
	s.mount(PreviousValue, nil, "PreviousValue")
	s.do("increment", func() { View[PreviousView](r).Increment() })
	s.do("increment twice in one task", func() {
		v := View[PreviousView](r)
		v.Increment()
		v.Increment()
	})
	s.do("decrement", func() { View[PreviousView](r).Decrement() })
	return s.err
}

package demos

import (
	"fmt"
	"slices"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// CounterView is the output of Counter.
type CounterView struct {
	Count   int
	Step    int
	History []int

	Increment func()
	Decrement func()
	Reset     func()
	SetStep   func(step int)
}

func (v CounterView) String() string {
	return fmt.Sprintf("count=%d step=%d history=%v", v.Count, v.Step, v.History)
}

// Counter keeps a count, a step and the history of counts. Every write is
// an updater, so several clicks in one task all apply.
func Counter(in *hooks.Instance) any {
	count, setCount := hooks.UseState(in, 0)
	step, setStep := hooks.UseState(in, 1)
	history, setHistory := hooks.UseState[[]int](in, nil)

	add := func(delta int) {
		setCount.Update(func(c int) int { return c + delta })
		setHistory.Update(func(h []int) []int {
			last := 0
			if len(h) > 0 {
				last = h[len(h)-1]
			}
			return append(slices.Clone(h), last+delta)
		})
	}

	return CounterView{
		Count:     count,
		Step:      step,
		History:   history,
		Increment: func() { add(step) },
		Decrement: func() { add(-step) },
		Reset: func() {
			setCount.Set(0)
			setHistory.Set(nil)
		},
		SetStep: func(s int) {
			if s < 1 {
				s = 1
			}
			setStep.Set(s)
		},
	}
}

package demos

import (
	"strings"

	"github.com/vango-dev/hooks/internal/errors"
	"github.com/vango-dev/hooks/pkg/hooks"
)

// Demo is a scripted walk through one component.
type Demo struct {
	Name    string
	Summary string
	Hooks   []string
	Script  func(r *Runner) error
}

// Run executes the script on a fresh runner over s.
func (d Demo) Run(s *hooks.Scheduler, env Env) ([]StepResult, error) {
	r := NewRunner(s, env)
	defer r.Close()
	err := d.Script(r)
	return r.Steps(), err
}

// Catalog returns every demo in display order.
func Catalog() []Demo {
	return []Demo{
		{
			Name:    "counter",
			Summary: "State with a step and a history; clicks in one task all apply",
			Hooks:   []string{"State"},
			Script:  counterScript,
		},
		{
			Name:    "timer",
			Summary: "Interval effect keyed on the running flag, stopped by its cleanup",
			Hooks:   []string{"State", "Effect"},
			Script:  timerScript,
		},
		{
			Name:    "fetcher",
			Summary: "Simulated fetch keyed on the user id; stale responses are dropped",
			Hooks:   []string{"State", "Ref", "Effect"},
			Script:  fetcherScript,
		},
		{
			Name:    "title",
			Summary: "Two effects writing one document title; only the changed one runs",
			Hooks:   []string{"State", "Effect"},
			Script:  titleScript,
		},
		{
			Name:    "primes",
			Summary: "Memoized sieve and Fibonacci; unrelated clicks recompute nothing",
			Hooks:   []string{"State", "Ref", "Memo"},
			Script:  primesScript,
		},
		{
			Name:    "search",
			Summary: "Stable callback and gated rows; unrelated state skips every row",
			Hooks:   []string{"State", "Ref", "Memo", "Callback", "Effect"},
			Script:  searchScript(false),
		},
		{
			Name:    "search-ungated",
			Summary: "The search demo without the props gate, for comparison",
			Hooks:   []string{"State", "Ref", "Memo", "Callback", "Effect"},
			Script:  searchScript(true),
		},
		{
			Name:    "render-counter",
			Summary: "Refs change without re-rendering",
			Hooks:   []string{"State", "Ref", "Effect"},
			Script:  renderCounterScript,
		},
		{
			Name:    "previous-value",
			Summary: "Previous committed value kept in a ref",
			Hooks:   []string{"State", "Ref", "Effect"},
			Script:  previousValueScript,
		},
	}
}

// Lookup finds a demo by name.
func Lookup(name string) (Demo, error) {
	var names []string
	for _, d := range Catalog() {
		if d.Name == name {
			return d, nil
		}
		names = append(names, d.Name)
	}
	return Demo{}, errors.New("C003").
		WithFact("demo", name).
		WithFact("available", strings.Join(names, ", "))
}

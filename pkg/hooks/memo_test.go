package hooks

import "testing"

type result struct{ n int }

func TestMemoCellSkipsComputeOnEqualDeps(t *testing.T) {
	m := newMemoCell[*result](HookMemo)
	calls := 0
	f := func() *result {
		calls++
		return &result{n: calls}
	}

	first := m.get(f, On(1, "a"))
	second := m.get(f, On(1, "a"))

	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}
	if first != second {
		t.Fatal("equal deps must return the identical cached result")
	}
}

func TestMemoCellRecomputesOnChangedDeps(t *testing.T) {
	m := newMemoCell[int](HookMemo)
	calls := 0
	f := func() int {
		calls++
		return calls
	}

	steps := []struct {
		deps      Deps
		wantCalls int
	}{
		{On(1, "a"), 1},
		{On(1, "a"), 1},
		{On(2, "a"), 2},
		{On(2), 3},    // different length always recomputes
		{On(2), 3},
		{nil, 4},      // nil recomputes every time
		{nil, 5},
		{On(), 6},     // empty after nil: first time seen
		{On(), 6},
	}

	for i, step := range steps {
		m.get(f, step.deps)
		if calls != step.wantCalls {
			t.Fatalf("step %d (%v): calls = %d, want %d", i, step.deps, calls, step.wantCalls)
		}
	}
}

func TestUseMemoExpensiveInvokedOnceForEqualDeps(t *testing.T) {
	s := NewScheduler()
	expensive := 0

	type ab struct{ A, B int }
	render := func(in *Instance) any {
		p := PropsAs[ab](in)
		return UseMemo(in, func() int {
			expensive++
			return p.A + p.B
		}, On(p.A, p.B))
	}

	in, err := s.Mount(render, ab{1, 1})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := s.Update(in, ab{1, 1}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if in.RenderCount() != 2 {
		t.Fatalf("expected 2 renders, got %d", in.RenderCount())
	}
	if expensive != 1 {
		t.Errorf("expensive invoked %d times, want 1", expensive)
	}

	if err := s.Update(in, ab{1, 2}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if expensive != 2 || in.Output() != 3 {
		t.Errorf("after deps change: expensive=%d output=%v, want 2 and 3", expensive, in.Output())
	}
}

func TestUseMemoRollsBackOnRenderError(t *testing.T) {
	s := NewScheduler()
	computes := 0

	render := func(in *Instance) any {
		n := PropsAs[int](in)
		v := UseMemo(in, func() int {
			computes++
			return n * 10
		}, On(n))
		if n == 2 {
			panic("boom")
		}
		return v
	}

	in, err := s.Mount(render, 1)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := s.Update(in, 2); err == nil {
		t.Fatal("expected render error")
	}
	if computes != 2 {
		t.Fatalf("computes = %d, want 2", computes)
	}

	// The cache entry for n == 1 is restored, so this render is a hit.
	if err := s.Update(in, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if computes != 2 {
		t.Errorf("computes = %d after rollback, want 2", computes)
	}
	if in.Output() != 10 {
		t.Errorf("output = %v, want 10", in.Output())
	}
}

func TestUseCallbackIdentity(t *testing.T) {
	s := NewScheduler()
	var got []*Callback[func() int]

	render := func(in *Instance) any {
		k := PropsAs[int](in)
		cb := UseCallback(in, func() int { return k }, On(k))
		got = append(got, cb)
		return nil
	}

	in, err := s.Mount(render, 1)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_ = s.Update(in, 1)
	_ = s.Update(in, 2)

	if len(got) != 3 {
		t.Fatalf("expected 3 renders, got %d", len(got))
	}
	if got[0] != got[1] {
		t.Error("callback identity changed with equal deps")
	}
	if got[1] == got[2] {
		t.Error("callback identity kept across changed deps")
	}
	if got[2].Fn()() != 2 {
		t.Errorf("new callback returns %d, want 2", got[2].Fn()())
	}
	if kinds := in.Slots(); len(kinds) != 1 || kinds[0] != HookCallback {
		t.Errorf("slots = %v, want [Callback]", kinds)
	}
}

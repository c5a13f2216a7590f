package hooks

import (
	"errors"
	"reflect"
	"testing"
)

func TestEffectRerunsWhenDepsChange(t *testing.T) {
	s := NewScheduler()
	runs, cleanups := 0, 0

	render := func(in *Instance) any {
		x := PropsAs[int](in)
		UseEffect(in, func() Cleanup {
			runs++
			return func() { cleanups++ }
		}, On(x))
		return nil
	}

	in, err := s.Mount(render, 1)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := s.Update(in, 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if runs != 2 || cleanups != 1 {
		t.Errorf("runs=%d cleanups=%d, want 2 and 1", runs, cleanups)
	}

	if err := s.Update(in, 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if runs != 2 || cleanups != 1 {
		t.Errorf("equal deps re-ran the effect: runs=%d cleanups=%d", runs, cleanups)
	}

	if err := s.Unmount(in); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if cleanups != 2 {
		t.Errorf("cleanups after unmount = %d, want 2", cleanups)
	}
}

func TestEffectWithEmptyDepsRunsOnce(t *testing.T) {
	s := NewScheduler()
	runs, cleanups := 0, 0
	var set Setter[int]

	in, err := s.Mount(func(in *Instance) any {
		n, setN := UseState(in, 0)
		set = setN
		UseEffect(in, func() Cleanup {
			runs++
			return func() { cleanups++ }
		}, On())
		return n
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	for i := 1; i <= 5; i++ {
		_ = set.Set(i)
	}
	if in.RenderCount() != 6 {
		t.Fatalf("render count = %d, want 6", in.RenderCount())
	}
	if runs != 1 || cleanups != 0 {
		t.Errorf("runs=%d cleanups=%d before unmount, want 1 and 0", runs, cleanups)
	}

	_ = s.Unmount(in)
	_ = s.Unmount(in)
	if cleanups != 1 {
		t.Errorf("cleanups = %d after unmount, want exactly 1", cleanups)
	}
}

func TestEffectWithNilDepsRunsEveryCommit(t *testing.T) {
	s := NewScheduler()
	runs, cleanups := 0, 0

	in, err := s.Mount(func(in *Instance) any {
		UseEffect(in, func() Cleanup {
			runs++
			return func() { cleanups++ }
		}, nil)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_ = s.Update(in, nil)
	_ = s.Update(in, nil)

	if runs != 3 || cleanups != 2 {
		t.Errorf("runs=%d cleanups=%d, want 3 and 2", runs, cleanups)
	}
}

func TestEffectsRunAfterAllRendersInRenderThenSlotOrder(t *testing.T) {
	s := NewScheduler()
	var log []string

	mount := func(name string) Setter[int] {
		var set Setter[int]
		_, err := s.Mount(func(in *Instance) any {
			n, setN := UseState(in, 0)
			set = setN
			log = append(log, "render "+name)
			UseEffect(in, func() Cleanup {
				log = append(log, "effect "+name+".0")
				return nil
			}, On(n))
			UseEffect(in, func() Cleanup {
				log = append(log, "effect "+name+".1")
				return nil
			}, On(n))
			return n
		}, nil, WithName(name))
		if err != nil {
			t.Fatalf("Mount %s: %v", name, err)
		}
		return set
	}

	setA := mount("A")
	setB := mount("B")
	log = nil

	err := s.Act(func() {
		setB.Set(1)
		setA.Set(1)
	})
	if err != nil {
		t.Fatalf("Act: %v", err)
	}

	want := []string{
		"render B",
		"render A",
		"effect B.0",
		"effect B.1",
		"effect A.0",
		"effect A.1",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestEffectSeesCommittedRender(t *testing.T) {
	s := NewScheduler()
	var observed []any

	in, err := s.Mount(func(in *Instance) any {
		n := PropsAs[int](in)
		UseEffect(in, func() Cleanup {
			observed = append(observed, in.Output())
			return nil
		}, On(n))
		return n * 10
	}, 1)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := s.Update(in, 2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(observed, []any{10, 20}) {
		t.Errorf("effect observed %v, want [10 20]", observed)
	}
}

func TestEffectWriteStartsNewBatch(t *testing.T) {
	s := NewScheduler()
	var reports []BatchReport
	s.OnBatch(func(r BatchReport) { reports = append(reports, r) })

	in, err := s.Mount(func(in *Instance) any {
		loaded, setLoaded := UseState(in, false)
		UseEffect(in, func() Cleanup {
			setLoaded.Set(true)
			return nil
		}, On())
		return loaded
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if in.Output() != true {
		t.Errorf("output = %v, want true", in.Output())
	}
	if in.RenderCount() != 2 {
		t.Errorf("render count = %d, want 2", in.RenderCount())
	}
	if len(reports) != 2 {
		t.Fatalf("got %d batches, want 2", len(reports))
	}
	if reports[0].EffectsRun != 1 || reports[1].EffectsRun != 0 {
		t.Errorf("effects per batch = %d, %d, want 1, 0", reports[0].EffectsRun, reports[1].EffectsRun)
	}
	if reports[1].Seq != reports[0].Seq+1 || reports[1].Pass != 1 {
		t.Errorf("second batch seq=%d pass=%d", reports[1].Seq, reports[1].Pass)
	}
}

func TestEffectPanicDoesNotStopFlush(t *testing.T) {
	s := NewScheduler()
	ran := map[string]int{}

	var setA, setB Setter[int]
	_, err := s.Mount(func(in *Instance) any {
		n, set := UseState(in, 0)
		setA = set
		UseEffect(in, func() Cleanup {
			ran["A"]++
			if n == 1 {
				panic(errors.New("effect failed"))
			}
			return nil
		}, On(n))
		return n
	}, nil, WithName("A"))
	if err != nil {
		t.Fatalf("Mount A: %v", err)
	}
	b, err := s.Mount(func(in *Instance) any {
		n, set := UseState(in, 0)
		setB = set
		UseEffect(in, func() Cleanup {
			ran["B"]++
			return nil
		}, On(n))
		return n
	}, nil, WithName("B"))
	if err != nil {
		t.Fatalf("Mount B: %v", err)
	}

	err = s.Act(func() {
		setA.Set(1)
		setB.Set(1)
	})

	var effErr *EffectError
	if !errors.As(err, &effErr) {
		t.Fatalf("expected *EffectError, got %v", err)
	}
	if effErr.Name != "A" || effErr.Phase != EffectPhaseCallback || effErr.Slot != 1 {
		t.Errorf("effect error = %+v", effErr)
	}
	if effErr.Unwrap() == nil || effErr.Unwrap().Error() != "effect failed" {
		t.Errorf("unwrap = %v", effErr.Unwrap())
	}
	if ran["B"] != 2 {
		t.Errorf("B effect ran %d times, want 2", ran["B"])
	}
	if b.Output() != 1 {
		t.Errorf("B output = %v, want 1", b.Output())
	}
}

func TestCleanupPanicReported(t *testing.T) {
	s := NewScheduler()
	in, err := s.Mount(func(in *Instance) any {
		UseEffect(in, func() Cleanup {
			return func() { panic("cleanup failed") }
		}, On())
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	err = s.Unmount(in)
	var effErr *EffectError
	if !errors.As(err, &effErr) || effErr.Phase != EffectPhaseCleanup {
		t.Fatalf("expected cleanup EffectError, got %v", err)
	}
	if in.Mounted() {
		t.Error("instance still mounted after a failing cleanup")
	}
}

func TestUpdateStorm(t *testing.T) {
	s := NewScheduler(WithMaxPasses(5))

	in, err := s.Mount(func(in *Instance) any {
		n, set := UseState(in, 0)
		UseEffect(in, func() Cleanup {
			set.Update(func(v int) int { return v + 1 })
			return nil
		}, nil)
		return n
	}, nil)

	if !errors.Is(err, ErrUpdateStorm) {
		t.Fatalf("err = %v, want ErrUpdateStorm", err)
	}
	if in == nil {
		t.Fatal("a storm after a successful first render keeps the instance")
	}
	if in.RenderCount() != 5 {
		t.Errorf("render count = %d, want 5", in.RenderCount())
	}
	if s.IsDirty(in) {
		t.Error("the storm must drop the remaining dirty work")
	}
}

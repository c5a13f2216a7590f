package hooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// counter mounts an instance with one int state and returns its setter.
func counter(t *testing.T, s *Scheduler) (*Instance, *Setter[int]) {
	t.Helper()
	var set Setter[int]
	in, err := s.Mount(func(in *Instance) any {
		n, setN := UseState(in, 0)
		set = setN
		return n
	}, nil, WithName("Counter"))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return in, &set
}

func TestUpdaterCalledTwiceCommitsTwo(t *testing.T) {
	s := NewScheduler()
	in, set := counter(t, s)

	inc := func(v int) int { return v + 1 }
	err := s.Act(func() {
		set.Update(inc)
		set.Update(inc)
	})
	if err != nil {
		t.Fatalf("Act: %v", err)
	}

	if set.Committed() != 2 {
		t.Errorf("committed = %d, want 2", set.Committed())
	}
	if in.Output() != 2 {
		t.Errorf("output = %v, want 2", in.Output())
	}
	if in.RenderCount() != 2 {
		t.Errorf("render count = %d, want 2 (mount + one batched render)", in.RenderCount())
	}
}

func TestUpdatersFoldInCallOrder(t *testing.T) {
	tests := []struct {
		name     string
		updaters []func(int) int
		want     int
	}{
		{"single", []func(int) int{func(v int) int { return v + 5 }}, 5},
		{"add then double", []func(int) int{
			func(v int) int { return v + 1 },
			func(v int) int { return v * 2 },
		}, 2},
		{"double then add", []func(int) int{
			func(v int) int { return v * 2 },
			func(v int) int { return v + 1 },
		}, 1},
		{"many", []func(int) int{
			func(v int) int { return v + 3 },
			func(v int) int { return v * 4 },
			func(v int) int { return v - 2 },
			func(v int) int { return v * v },
		}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler()
			_, set := counter(t, s)
			err := s.Act(func() {
				for _, u := range tt.updaters {
					set.Update(u)
				}
			})
			if err != nil {
				t.Fatalf("Act: %v", err)
			}
			if set.Committed() != tt.want {
				t.Errorf("committed = %d, want %d", set.Committed(), tt.want)
			}
		})
	}
}

func TestLiteralWriteDiscardsEarlierWrites(t *testing.T) {
	s := NewScheduler()
	_, set := counter(t, s)

	_ = s.Act(func() {
		set.Update(func(v int) int { return v + 1 })
		set.Set(10)
	})
	if set.Committed() != 10 {
		t.Fatalf("committed = %d, want 10", set.Committed())
	}

	_ = s.Act(func() {
		set.Update(func(v int) int { return v + 100 })
		set.Set(3)
		set.Update(func(v int) int { return v * 2 })
	})
	if set.Committed() != 6 {
		t.Errorf("committed = %d, want 6", set.Committed())
	}
}

func TestWritesInvisibleUntilNextRender(t *testing.T) {
	s := NewScheduler()
	in, set := counter(t, s)

	_ = s.Act(func() {
		set.Set(4)
		if set.Committed() != 0 {
			t.Errorf("committed changed before render: %d", set.Committed())
		}
		if in.Output() != 0 {
			t.Errorf("output changed before render: %v", in.Output())
		}
		if !s.IsDirty(in) {
			t.Error("instance should be dirty after a write")
		}
	})

	if in.Output() != 4 {
		t.Errorf("output = %v, want 4", in.Output())
	}
	if s.IsDirty(in) {
		t.Error("instance still dirty after the task")
	}
}

func TestWriteOutsideTaskRendersImmediately(t *testing.T) {
	s := NewScheduler()
	in, set := counter(t, s)

	if err := set.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if in.Output() != 5 {
		t.Errorf("output = %v, want 5", in.Output())
	}
}

func TestRenderSeesOwnStateAfterPriorWrites(t *testing.T) {
	s := NewScheduler()
	var seen []int
	var set Setter[int]
	_, err := s.Mount(func(in *Instance) any {
		n, setN := UseState(in, 1)
		set = setN
		seen = append(seen, n)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	_ = set.Set(7)
	_ = set.Update(func(v int) int { return v + 1 })

	want := []int{1, 7, 8}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("render %d saw %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestUseStateFuncInitializerRunsOnce(t *testing.T) {
	s := NewScheduler()
	inits := 0
	in, err := s.Mount(func(in *Instance) any {
		v, _ := UseStateFunc(in, func() string {
			inits++
			return "ready"
		})
		return v
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_ = s.Update(in, nil)
	_ = s.Update(in, nil)

	if inits != 1 {
		t.Errorf("initializer ran %d times, want 1", inits)
	}
	if in.Output() != "ready" {
		t.Errorf("output = %v, want ready", in.Output())
	}
}

func TestStaleWriteIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := NewScheduler(WithLogger(logger))
	in, set := counter(t, s)

	if err := s.Unmount(in); err != nil {
		t.Fatalf("Unmount: %v", err)
	}

	err := set.Set(1)
	if !errors.Is(err, ErrStaleWriteIgnored) {
		t.Fatalf("err = %v, want ErrStaleWriteIgnored", err)
	}
	var stale *StaleWriteError
	if !errors.As(err, &stale) || stale.InstanceID != in.ID() || stale.Slot != 0 {
		t.Errorf("stale write error = %+v", stale)
	}
	if set.Committed() != 0 {
		t.Errorf("committed = %d after stale write, want 0", set.Committed())
	}
	if !strings.Contains(buf.String(), "state write after unmount ignored") {
		t.Errorf("expected a warning, got log %q", buf.String())
	}
}

func TestRenderErrorRollsBackState(t *testing.T) {
	s := NewScheduler()
	var set Setter[int]
	in, err := s.Mount(func(in *Instance) any {
		n, setN := UseState(in, 0)
		set = setN
		if n == 13 {
			panic("unlucky")
		}
		return n
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	err = set.Set(13)
	if err != nil {
		t.Fatalf("Set returns the write error only: %v", err)
	}
	if set.Committed() != 0 || in.Output() != 0 {
		t.Errorf("failed render leaked state: committed=%d output=%v", set.Committed(), in.Output())
	}
	if !in.Mounted() {
		t.Error("a render error must not unmount a mounted instance")
	}

	_ = set.Update(func(v int) int { return v + 2 })
	if set.Committed() != 2 {
		t.Errorf("committed = %d, want 2 (the failed write is dropped)", set.Committed())
	}
}

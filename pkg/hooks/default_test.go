package hooks

import "testing"

func TestDefaultScheduler(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default returned different schedulers")
	}

	var set *Setter[int]
	in, err := Mount(func(in *Instance) any {
		n, s := UseState(in, 0)
		set = &s
		return n
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer Unmount(in)

	if in.Scheduler() != Default() {
		t.Error("Mount did not use the default scheduler")
	}
	if err := Act(func() { set.Set(4) }); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if in.Output() != 4 {
		t.Errorf("output = %v, want 4", in.Output())
	}
}

func TestPackageUpdateUsesOwnScheduler(t *testing.T) {
	s := NewScheduler()
	in, err := s.Mount(func(in *Instance) any { return PropsAs[string](in) }, "a")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := Update(in, "b"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if in.Output() != "b" {
		t.Errorf("output = %v, want b", in.Output())
	}
	if err := Unmount(in); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if Update(nil, "c") != ErrUnmounted {
		t.Error("Update(nil) did not return ErrUnmounted")
	}
	if Unmount(nil) != nil {
		t.Error("Unmount(nil) returned an error")
	}
}

func TestRefIsSetAndClear(t *testing.T) {
	r := NewRef(3)
	if r.IsSet() {
		t.Error("new ref reports IsSet")
	}
	r.Set(5)
	if !r.IsSet() || r.Current() != 5 {
		t.Errorf("after Set: IsSet=%v Current=%d", r.IsSet(), r.Current())
	}
	r.Clear()
	if r.IsSet() || r.Current() != 0 {
		t.Errorf("after Clear: IsSet=%v Current=%d", r.IsSet(), r.Current())
	}
}

func TestRefWriteDoesNotRender(t *testing.T) {
	s := NewScheduler()
	var ref *Ref[int]
	in, err := s.Mount(func(in *Instance) any {
		ref = UseRef(in, 0)
		return ref.Current()
	}, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := s.Act(func() { ref.Set(9) }); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if in.RenderCount() != 1 {
		t.Errorf("render count = %d, want 1", in.RenderCount())
	}
	if in.Output() != 0 {
		t.Errorf("output = %v, want 0", in.Output())
	}
}

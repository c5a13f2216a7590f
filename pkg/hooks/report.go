package hooks

import (
	"fmt"
	"time"
)

// BatchReport describes one committed batch: which instances rendered or
// were skipped, how many effects ran, and what failed.
type BatchReport struct {
	Seq  uint64 `json:"seq"`
	Pass int    `json:"pass"`

	Rendered  []uint64 `json:"rendered,omitempty"`
	Skipped   []uint64 `json:"skipped,omitempty"`
	Failed    []uint64 `json:"failed,omitempty"`
	Unmounted []uint64 `json:"unmounted,omitempty"`

	EffectsRun  int `json:"effectsRun"`
	CleanupsRun int `json:"cleanupsRun"`

	Errors []string `json:"errors,omitempty"`

	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

func (r *BatchReport) addError(err error) {
	r.Errors = append(r.Errors, err.Error())
}

// Empty reports whether the batch did nothing.
func (r *BatchReport) Empty() bool {
	return len(r.Rendered) == 0 && len(r.Skipped) == 0 && len(r.Failed) == 0 &&
		len(r.Unmounted) == 0 && r.EffectsRun == 0 && r.CleanupsRun == 0 && len(r.Errors) == 0
}

// InstanceSnapshot is a read-only copy of an instance's state, published
// after every task for use from other goroutines.
type InstanceSnapshot struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	RenderCount int      `json:"renderCount"`
	SkipCount   int      `json:"skipCount"`
	Memoized    bool     `json:"memoized"`
	Dirty       bool     `json:"dirty"`
	Slots       []string `json:"slots"`
	Output      string   `json:"output"`
}

func (s *Scheduler) snapshot(in *Instance) InstanceSnapshot {
	slots := in.Slots()
	names := make([]string, len(slots))
	for i, k := range slots {
		names[i] = k.String()
	}
	out := ""
	if in.output != nil {
		out = fmt.Sprint(in.output)
	}
	return InstanceSnapshot{
		ID:          in.id,
		Name:        in.name,
		RenderCount: in.renderCount,
		SkipCount:   in.skipCount,
		Memoized:    in.gate != nil,
		Dirty:       s.dirty.Contains(in.id),
		Slots:       names,
		Output:      out,
	}
}

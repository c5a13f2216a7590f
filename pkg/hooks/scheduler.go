package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/trace"
)

// Scheduler owns the dirty set and drives the render → commit → flush
// cycle.
//
// # Thread Safety
//
// A Scheduler is single-threaded. Mount, Update, Unmount, Act and setter
// calls must all happen on one goroutine: the caller's, or the goroutine
// running Run. Other goroutines (timers, simulated fetches) must go through
// Dispatch, which is safe for concurrent use. Snapshots and OnBatch are also
// safe for concurrent use.
type Scheduler struct {
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	maxPasses int
	queueSize int
	onError   func(error)

	// Loop-owned state.
	instances  map[uint64]*Instance
	dirty      mapset.Set[uint64]
	dirtyOrder []*Instance
	rendered   []*Instance
	inTask     bool
	ctx        context.Context
	current    *BatchReport
	errs       []error
	seq        uint64

	tasks   chan func()
	running atomic.Bool

	pubMu     sync.RWMutex
	published []InstanceSnapshot

	obsMu     sync.Mutex
	obsSeq    uint64
	observers map[uint64]func(BatchReport)
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:    slog.Default().With("component", "hooks"),
		tracer:    defaultTracer(),
		maxPasses: DefaultMaxPasses,
		queueSize: DefaultQueueSize,
		instances: make(map[uint64]*Instance),
		dirty:     mapset.NewThreadUnsafeSet[uint64](),
		observers: make(map[uint64]func(BatchReport)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = make(chan func(), s.queueSize)
	return s
}

// Logger returns the scheduler logger.
func (s *Scheduler) Logger() *slog.Logger {
	return s.logger
}

// =============================================================================
// External interface
// =============================================================================

// Mount creates an instance and renders it for the first time. If the first
// render fails the instance is discarded and Mount returns a nil instance.
// Effect errors from the mount are returned together with the instance.
func (s *Scheduler) Mount(render RenderFunc, props any, opts ...MountOption) (*Instance, error) {
	in := newInstance(s, render, props, opts)

	var renderErr error
	err := s.Act(func() {
		s.instances[in.id] = in
		renderErr = s.renderInstance(in)
	})
	if renderErr != nil {
		if err == nil {
			err = renderErr
		}
		return nil, err
	}
	return in, err
}

// Update re-renders in with new props. For a memoized instance the render
// is skipped when the props are unchanged.
func (s *Scheduler) Update(in *Instance, props any) error {
	if in == nil || in.disposed {
		return ErrUnmounted
	}

	var renderErr error
	err := s.Act(func() {
		if in.disposed {
			renderErr = ErrUnmounted
			return
		}
		if in.gate != nil && in.mounted && in.gate(in.props, props) {
			in.skipCount++
			rep := s.batch()
			rep.Skipped = append(rep.Skipped, in.id)
			s.metrics.recordGateSkip()
			return
		}
		prev := in.props
		in.props = props
		if renderErr = s.renderInstance(in); renderErr != nil && !in.disposed {
			in.props = prev
		}
	})
	if err == nil {
		err = renderErr
	}
	return err
}

// Unmount tears the instance down: every effect cleanup runs once in slot
// order, queued writes are dropped and later writes are rejected.
// Unmounting twice is a no-op.
func (s *Scheduler) Unmount(in *Instance) error {
	if in == nil || in.disposed {
		return nil
	}
	return s.Act(func() {
		s.dispose(in, s.batch())
	})
}

// Act runs fn as one task: writes made by fn are batched into one render
// pass, followed by the effect flush. Errors from every batch the task
// produced are joined and returned. Act called inside a task just runs fn
// as part of the enclosing task.
func (s *Scheduler) Act(fn func()) error {
	return s.ActContext(context.Background(), fn)
}

// ActContext is Act with a parent context for tracing.
func (s *Scheduler) ActContext(ctx context.Context, fn func()) (err error) {
	if s.inTask {
		fn()
		return nil
	}

	ctx, span := s.startTaskSpan(ctx)
	s.inTask = true
	s.ctx = ctx
	defer func() {
		s.inTask = false
		s.ctx = nil
		if r := recover(); r != nil {
			s.abortTask()
			endSpan(span, fmt.Errorf("hooks: task panicked: %v", r))
			panic(r)
		}
		endSpan(span, err)
	}()

	fn()
	return s.drain()
}

// Dispatch queues fn to run as its own task on the scheduler goroutine. It
// is safe to call from any goroutine and blocks while the queue is full.
// Do not call it from a task when the queue may be full.
func (s *Scheduler) Dispatch(fn func()) {
	s.tasks <- fn
}

// Run processes dispatched tasks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrLoopAlreadyRunning
	}
	defer s.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.tasks:
			s.runTask(ctx, fn)
		}
	}
}

// RunQueued runs every task currently queued by Dispatch on the calling
// goroutine and returns how many ran. It does not wait for new tasks.
func (s *Scheduler) RunQueued() int {
	n := 0
	for {
		select {
		case fn := <-s.tasks:
			s.runTask(context.Background(), fn)
			n++
		default:
			return n
		}
	}
}

// runTask runs one dispatched task. A panicking task is reported instead of
// stopping the loop.
func (s *Scheduler) runTask(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.handleError(fmt.Errorf("hooks: dispatched task panicked: %v", r))
		}
	}()
	if err := s.ActContext(ctx, fn); err != nil {
		s.handleError(err)
	}
}

// Queued returns the number of dispatched tasks waiting to run.
func (s *Scheduler) Queued() int {
	return len(s.tasks)
}

// Instances returns the live instances ordered by ID. Loop goroutine only.
func (s *Scheduler) Instances() []*Instance {
	out := make([]*Instance, 0, len(s.instances))
	for _, in := range s.instances {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Snapshots returns the instance snapshots published after the last task.
// Safe for concurrent use.
func (s *Scheduler) Snapshots() []InstanceSnapshot {
	s.pubMu.RLock()
	defer s.pubMu.RUnlock()
	out := make([]InstanceSnapshot, len(s.published))
	copy(out, s.published)
	return out
}

// Snapshot returns the published snapshot of one instance.
func (s *Scheduler) Snapshot(id uint64) (InstanceSnapshot, bool) {
	s.pubMu.RLock()
	defer s.pubMu.RUnlock()
	for _, snap := range s.published {
		if snap.ID == id {
			return snap, true
		}
	}
	return InstanceSnapshot{}, false
}

// OnBatch registers fn to receive every committed BatchReport. fn runs on
// the scheduler goroutine and must not block. The returned func removes the
// observer.
func (s *Scheduler) OnBatch(fn func(BatchReport)) (remove func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.obsSeq++
	id := s.obsSeq
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// =============================================================================
// Dirty set
// =============================================================================

// markDirty adds in to the dirty set once per batch. A write outside any
// task opens an implicit task so the write still commits.
func (s *Scheduler) markDirty(in *Instance) {
	if s.dirty.Add(in.id) {
		s.dirtyOrder = append(s.dirtyOrder, in)
	}
	if !s.inTask {
		if err := s.Act(func() {}); err != nil {
			s.handleError(err)
		}
	}
}

func (s *Scheduler) unmarkDirty(in *Instance) {
	if !s.dirty.Contains(in.id) {
		return
	}
	s.dirty.Remove(in.id)
	for i, d := range s.dirtyOrder {
		if d == in {
			s.dirtyOrder = append(s.dirtyOrder[:i], s.dirtyOrder[i+1:]...)
			break
		}
	}
}

// IsDirty reports whether in has writes waiting for the next render pass.
func (s *Scheduler) IsDirty(in *Instance) bool {
	return s.dirty.Contains(in.id)
}

// =============================================================================
// Batches
// =============================================================================

// drain runs batches until no instance is dirty and nothing waits for a
// flush. Writes made during a flush land in the next pass, never in the
// current one.
func (s *Scheduler) drain() error {
	for pass := 0; len(s.dirtyOrder) > 0 || len(s.rendered) > 0 || s.current != nil; pass++ {
		if pass >= s.maxPasses {
			s.storm(pass)
			break
		}
		s.runBatch(pass)
	}

	errs := s.errs
	s.errs = nil
	s.publish()
	return errors.Join(errs...)
}

func (s *Scheduler) runBatch(pass int) {
	rep := s.batch()
	rep.Pass = pass
	span := s.startBatchSpan(rep.Seq, pass)

	dirty := s.dirtyOrder
	s.dirtyOrder = nil
	s.dirty.Clear()
	for _, in := range dirty {
		if in.disposed {
			continue
		}
		_ = s.renderInstance(in)
	}

	// Renders started by effects belong to the next batch.
	s.current = nil
	s.flush(rep)

	var spanErr error
	if len(rep.Errors) > 0 {
		spanErr = fmt.Errorf("hooks: batch %d: %d errors", rep.Seq, len(rep.Errors))
	}
	endSpan(span, spanErr)
	s.finishBatch(rep)
}

// batch returns the report of the batch in progress, starting one if
// needed.
func (s *Scheduler) batch() *BatchReport {
	if s.current == nil {
		s.seq++
		s.current = &BatchReport{Seq: s.seq, Started: time.Now()}
	}
	return s.current
}

func (s *Scheduler) finishBatch(rep *BatchReport) {
	rep.Duration = time.Since(rep.Started)
	if rep.Empty() {
		return
	}
	s.metrics.recordBatch()
	s.logger.Debug("batch committed",
		"seq", rep.Seq,
		"pass", rep.Pass,
		"rendered", len(rep.Rendered),
		"skipped", len(rep.Skipped),
		"unmounted", len(rep.Unmounted),
		"effects", rep.EffectsRun,
		"cleanups", rep.CleanupsRun,
		"errors", len(rep.Errors),
		"duration", rep.Duration,
	)

	s.obsMu.Lock()
	observers := make([]func(BatchReport), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()
	for _, fn := range observers {
		fn(*rep)
	}
}

// flush runs the scheduled effects of every instance rendered in the batch,
// in render order and then slot order. A failing effect does not stop the
// flush.
func (s *Scheduler) flush(rep *BatchReport) {
	rendered := s.rendered
	s.rendered = nil

	for _, in := range rendered {
		if in.disposed {
			continue
		}
		for _, e := range in.ledger.effects() {
			out := e.flush()
			if out.cleaned {
				rep.CleanupsRun++
				s.metrics.recordEffect(EffectPhaseCleanup)
			}
			if out.ran {
				rep.EffectsRun++
				s.metrics.recordEffect(EffectPhaseCallback)
			}
			for _, err := range out.errs {
				s.fail(rep, err)
			}
		}
	}
}

// storm drops the remaining work of a task that exhausted its pass budget.
func (s *Scheduler) storm(passes int) {
	dropped := len(s.dirtyOrder)
	for _, in := range s.dirtyOrder {
		in.dropPending()
	}
	s.dirtyOrder = nil
	s.dirty.Clear()
	s.rendered = nil

	rep := s.batch()
	rep.Pass = passes
	s.current = nil
	s.fail(rep, &stormError{passes: passes, dropped: dropped})
	s.finishBatch(rep)
}

// abortTask clears the task state after fn panicked.
func (s *Scheduler) abortTask() {
	for _, in := range s.dirtyOrder {
		in.dropPending()
	}
	s.dirtyOrder = nil
	s.dirty.Clear()
	s.rendered = nil
	s.current = nil
	s.errs = nil
}

// =============================================================================
// Rendering
// =============================================================================

// renderInstance applies the instance's queued writes and runs its render
// function through the ledger. On success the cells commit and the
// instance joins the flush list; on failure they roll back.
func (s *Scheduler) renderInstance(in *Instance) error {
	if in.disposed {
		return ErrUnmounted
	}
	if in.ledger.rendering {
		return ErrReentrantRender
	}

	rep := s.batch()
	s.unmarkDirty(in)

	span := s.startRenderSpan(in)
	start := time.Now()
	out, err := s.invoke(in)
	elapsed := time.Since(start).Seconds()

	switch v := err.(type) {
	case nil:
		in.ledger.commit()
		in.output = out
		in.renderCount++
		if !in.mounted {
			in.mounted = true
			s.metrics.mountedDelta(1)
		}
		s.addRendered(in)
		rep.Rendered = append(rep.Rendered, in.id)
		s.metrics.recordRender("ok", elapsed)

	case *HookOrderViolation:
		in.ledger.rollback()
		in.dropPending()
		rep.Failed = append(rep.Failed, in.id)
		s.metrics.recordRender("hook_order", elapsed)
		s.fail(rep, v)
		s.dispose(in, rep)

	default:
		in.ledger.rollback()
		in.dropPending()
		rep.Failed = append(rep.Failed, in.id)
		s.metrics.recordRender("render_error", elapsed)
		s.fail(rep, err)
		if !in.mounted {
			s.dispose(in, rep)
		}
	}

	endSpan(span, err)
	return err
}

// invoke runs one render pass and converts panics into errors.
func (s *Scheduler) invoke(in *Instance) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if v, ok := r.(*HookOrderViolation); ok {
				err = v
				return
			}
			err = &RenderError{
				InstanceID: in.id,
				Name:       in.name,
				Value:      r,
				Stack:      debug.Stack(),
			}
		}
	}()

	in.applyPending()
	in.ledger.beginRender()
	out = in.render(in)
	if err := in.ledger.endRender(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scheduler) addRendered(in *Instance) {
	for _, r := range s.rendered {
		if r == in {
			return
		}
	}
	s.rendered = append(s.rendered, in)
}

// dispose tears an instance down and forgets it.
func (s *Scheduler) dispose(in *Instance, rep *BatchReport) {
	if in.disposed {
		return
	}
	wasMounted := in.mounted
	in.disposed = true
	s.unmarkDirty(in)
	in.dropPending()

	cleaned, errs := in.ledger.teardown()
	rep.CleanupsRun += cleaned
	for i := 0; i < cleaned; i++ {
		s.metrics.recordEffect(EffectPhaseCleanup)
	}
	for _, err := range errs {
		s.fail(rep, err)
	}

	delete(s.instances, in.id)
	if wasMounted {
		s.metrics.mountedDelta(-1)
		rep.Unmounted = append(rep.Unmounted, in.id)
	}
}

// =============================================================================
// Error reporting
// =============================================================================

// fail records err for the current task and batch.
func (s *Scheduler) fail(rep *BatchReport, err error) {
	s.errs = append(s.errs, err)
	if rep != nil {
		rep.addError(err)
	}
	s.metrics.recordError(err)
	s.logger.Debug("batch error", "error", err)
}

func (s *Scheduler) staleWrite(err *StaleWriteError) {
	s.metrics.recordStaleWrite()
	s.metrics.recordError(err)
	s.logger.Warn("state write after unmount ignored",
		"instance", instanceLabel(err.Name, err.InstanceID),
		"slot", err.Slot,
	)
}

func (s *Scheduler) handleError(err error) {
	if s.onError != nil {
		s.onError(err)
		return
	}
	s.logger.Error("task failed", "error", err)
}

// publish copies instance state for readers on other goroutines.
func (s *Scheduler) publish() {
	instances := s.Instances()
	snaps := make([]InstanceSnapshot, 0, len(instances))
	for _, in := range instances {
		if !in.mounted {
			continue
		}
		snaps = append(snaps, s.snapshot(in))
	}

	s.pubMu.Lock()
	s.published = snaps
	s.pubMu.Unlock()
}

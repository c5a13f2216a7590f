package hooks

import (
	"errors"
	"fmt"
	"strconv"

	diag "github.com/vango-dev/hooks/internal/errors"
)

// ErrHookOutsideRender is the panic value for a hook called while its
// instance is not rendering.
var ErrHookOutsideRender = errors.New("hooks: hook called outside an active render of its instance")

// ErrStaleWriteIgnored is wrapped by StaleWriteError. Writes to an unmounted
// instance are dropped and reported with this error; they are not fatal.
var ErrStaleWriteIgnored = errors.New("hooks: state write after unmount ignored")

// ErrUpdateStorm is returned when effects keep dirtying instances and the
// scheduler exhausts its pass budget for a single task.
var ErrUpdateStorm = errors.New("hooks: update storm, pass budget exceeded")

// ErrUnmounted is returned by Update for an instance that is no longer
// mounted.
var ErrUnmounted = errors.New("hooks: instance is not mounted")

// ErrReentrantRender is returned when an instance is asked to render while
// its own render is in progress.
var ErrReentrantRender = errors.New("hooks: instance is already rendering")

// ErrLoopAlreadyRunning is returned when Run is called on a scheduler whose
// loop is already running.
var ErrLoopAlreadyRunning = errors.New("hooks: scheduler loop is already running")

// HookOrderViolation reports that an instance called its hooks in a
// different order or number than on the previous render. It is fatal for
// the instance.
type HookOrderViolation struct {
	InstanceID uint64
	Name       string

	// Index is the ordinal where the mismatch was detected.
	Index int

	// Expected and Got are the slot kinds at Index. Got is zero when the
	// render ended early; Expected is zero when the render called an extra
	// hook.
	Expected HookType
	Got      HookType

	// Want and Count are the previous and current hook counts when the
	// mismatch was found at the end of the render.
	Want  int
	Count int
}

func (e *HookOrderViolation) Error() string {
	switch {
	case e.Expected != 0 && e.Got != 0:
		return fmt.Sprintf("[HOOKS H001] %s: hook order changed at index %d: expected %s, got %s",
			instanceLabel(e.Name, e.InstanceID), e.Index, e.Expected, e.Got)
	case e.Got != 0:
		return fmt.Sprintf("[HOOKS H001] %s: hook order changed: extra %s hook at index %d",
			instanceLabel(e.Name, e.InstanceID), e.Got, e.Index)
	default:
		return fmt.Sprintf("[HOOKS H001] %s: hook order changed: expected %d hooks, got %d",
			instanceLabel(e.Name, e.InstanceID), e.Want, e.Count)
	}
}

// Diagnostic returns the coded form of the error.
func (e *HookOrderViolation) Diagnostic() *diag.Error {
	d := diag.New("H001").WithInstance(instanceLabel(e.Name, e.InstanceID)).Wrap(e)
	if e.Expected != 0 || e.Got != 0 {
		d.WithFact("index", strconv.Itoa(e.Index))
	}
	if e.Expected != 0 {
		d.WithFact("expected", e.Expected.String())
	}
	if e.Got != 0 {
		d.WithFact("got", e.Got.String())
	}
	if e.Want != 0 || e.Count != 0 {
		d.WithFact("hooks", fmt.Sprintf("%d (previous render: %d)", e.Count, e.Want))
	}
	return d
}

// RenderError reports a panic raised by a render function. The instance's
// cells were rolled back to their committed values.
type RenderError struct {
	InstanceID uint64
	Name       string

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack captured at recovery.
	Stack []byte
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("[HOOKS H002] %s: render panicked: %v", instanceLabel(e.Name, e.InstanceID), e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *RenderError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Diagnostic returns the coded form of the error.
func (e *RenderError) Diagnostic() *diag.Error {
	return diag.New("H002").
		WithInstance(instanceLabel(e.Name, e.InstanceID)).
		WithFact("panic", fmt.Sprint(e.Value)).
		Wrap(e)
}

// EffectPhase names the part of an effect that failed.
type EffectPhase string

const (
	EffectPhaseCallback EffectPhase = "callback"
	EffectPhaseCleanup  EffectPhase = "cleanup"
)

// EffectError reports a panic raised by an effect callback or cleanup.
type EffectError struct {
	InstanceID uint64
	Name       string
	Slot       int
	Phase      EffectPhase
	Value      any
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("[HOOKS H003] %s: effect %d %s panicked: %v",
		instanceLabel(e.Name, e.InstanceID), e.Slot, e.Phase, e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *EffectError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Diagnostic returns the coded form of the error.
func (e *EffectError) Diagnostic() *diag.Error {
	return diag.New("H003").
		WithInstance(instanceLabel(e.Name, e.InstanceID)).
		WithFact("slot", strconv.Itoa(e.Slot)).
		WithFact("phase", string(e.Phase)).
		WithFact("panic", fmt.Sprint(e.Value)).
		Wrap(e)
}

// StaleWriteError is returned by a Setter whose instance has been
// unmounted. The write is dropped.
type StaleWriteError struct {
	InstanceID uint64
	Name       string
	Slot       int
}

func (e *StaleWriteError) Error() string {
	return fmt.Sprintf("[HOOKS H004] %s: state slot %d written after unmount",
		instanceLabel(e.Name, e.InstanceID), e.Slot)
}

func (e *StaleWriteError) Unwrap() error { return ErrStaleWriteIgnored }

// Diagnostic returns the coded form of the error.
func (e *StaleWriteError) Diagnostic() *diag.Error {
	return diag.New("H004").
		WithInstance(instanceLabel(e.Name, e.InstanceID)).
		WithFact("slot", strconv.Itoa(e.Slot)).
		Wrap(e)
}

// stormError adds the pass count to ErrUpdateStorm.
type stormError struct {
	passes  int
	dropped int
}

func (e *stormError) Error() string {
	return fmt.Sprintf("[HOOKS H005] update storm: %d passes, %d dirty instances dropped", e.passes, e.dropped)
}

func (e *stormError) Unwrap() error { return ErrUpdateStorm }

func (e *stormError) Diagnostic() *diag.Error {
	return diag.New("H005").
		WithFact("passes", strconv.Itoa(e.passes)).
		WithFact("dropped", strconv.Itoa(e.dropped)).
		Wrap(e)
}

func instanceLabel(name string, id uint64) string {
	if name == "" {
		name = "instance"
	}
	return name + "#" + strconv.FormatUint(id, 10)
}

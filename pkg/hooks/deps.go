package hooks

import (
	"math"
	"reflect"
)

// Deps is a dependency tuple for UseMemo, UseCallback and UseEffect.
//
// A nil Deps means "no tuple": the memo recomputes and the effect re-runs
// on every commit. A non-nil empty Deps means "once": compute or run at
// mount and never again.
type Deps []any

// On builds a dependency tuple. On() with no arguments returns a non-nil
// empty tuple, which runs once.
func On(values ...any) Deps {
	if values == nil {
		return Deps{}
	}
	return Deps(values)
}

// Equal reports whether d and other are shallow-equal element by element.
// A nil tuple is never equal to anything, including another nil tuple.
func (d Deps) Equal(other Deps) bool {
	if d == nil || other == nil {
		return false
	}
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !SameValue(d[i], other[i]) {
			return false
		}
	}
	return true
}

// clone copies the tuple so later mutation of the caller's slice cannot
// change what was recorded.
func (d Deps) clone() Deps {
	if d == nil {
		return nil
	}
	out := make(Deps, len(d))
	copy(out, d)
	return out
}

// SameValue is the shallow equality used for dependency tuples and memoized
// props:
//   - scalars compare by value; floats use same-value semantics, so NaN
//     equals NaN and +0 differs from -0
//   - pointers, maps, channels compare by identity
//   - slices compare by backing array, length and capacity
//   - funcs are equal only when both are nil
//   - comparable structs and arrays compare with ==; anything else is unequal
func SameValue(a, b any) bool {
	return sameReflect(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameReflect(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Pointer() == b.Pointer() && a.Len() == b.Len() && a.Cap() == b.Cap()
	case reflect.Func:
		return a.IsNil() && b.IsNil()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return sameReflect(a.Elem(), b.Elem())
	default:
		return comparableEqual(a, b)
	}
}

// comparableEqual compares structs and arrays with ==. Types whose
// comparability is only known at run time (interface fields holding slices)
// are reported unequal instead of panicking.
func comparableEqual(a, b reflect.Value) (eq bool) {
	if !a.Type().Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a.Equal(b)
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if a == 0 && b == 0 {
		return math.Signbit(a) == math.Signbit(b)
	}
	return a == b
}

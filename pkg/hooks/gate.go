package hooks

import "reflect"

// PropsEqual decides whether a props-driven re-render can be skipped.
type PropsEqual func(prev, next any) bool

// Memoized mounts the instance behind a props gate using ShallowEqualProps.
// Update skips the render function entirely when the new props are
// field-by-field equal to the previous ones and keeps the previous output.
// State writes inside the instance still re-render it.
func Memoized() MountOption {
	return MemoizedWith(ShallowEqualProps)
}

// MemoizedWith is Memoized with a custom comparison.
func MemoizedWith(eq PropsEqual) MountOption {
	return func(in *Instance) {
		in.gate = eq
	}
}

// ShallowEqualProps compares two props values field by field with
// SameValue. It understands nil, map[string]any, structs, and pointers to
// structs; other values are compared with SameValue directly.
func ShallowEqualProps(prev, next any) bool {
	if prev == nil || next == nil {
		return prev == nil && next == nil
	}
	if SameValue(prev, next) {
		return true
	}

	if pm, ok := prev.(map[string]any); ok {
		nm, ok := next.(map[string]any)
		if !ok || len(pm) != len(nm) {
			return false
		}
		for k, pv := range pm {
			nv, ok := nm[k]
			if !ok || !SameValue(pv, nv) {
				return false
			}
		}
		return true
	}

	pv, nv := reflect.ValueOf(prev), reflect.ValueOf(next)
	if pv.Type() != nv.Type() {
		return false
	}
	if pv.Kind() == reflect.Pointer && pv.Elem().Kind() == reflect.Struct {
		if pv.IsNil() || nv.IsNil() {
			return false
		}
		pv, nv = pv.Elem(), nv.Elem()
	}
	if pv.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < pv.NumField(); i++ {
		if !sameReflect(pv.Field(i), nv.Field(i)) {
			return false
		}
	}
	return true
}

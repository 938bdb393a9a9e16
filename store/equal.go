package store

import (
	"math"
	"reflect"
)

// EqualFunc reports whether a store should treat next as a change from prev.
type EqualFunc[T any] func(prev, next T) bool

// SafeNotEqual is the default change test for stores and component fields.
//
// NaN is equal to NaN. Non-nil maps, slices, pointers, funcs, channels,
// structs and arrays are always considered changed, since they may have been
// mutated in place. Everything else is compared by value.
func SafeNotEqual[T any](prev, next T) bool {
	return notEqualValue(reflect.ValueOf(&prev).Elem(), reflect.ValueOf(&next).Elem())
}

// NotEqualAny is SafeNotEqual for untyped component fields.
func NotEqualAny(prev, next any) bool {
	return notEqualValue(reflect.ValueOf(prev), reflect.ValueOf(next))
}

func notEqualValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() != b.IsValid()
	}

	if isNaN(a) {
		return !isNaN(b)
	}

	switch a.Kind() {
	case reflect.Interface:
		if a.IsNil() {
			return !isNilValue(b)
		}
		if b.Kind() == reflect.Interface {
			b = b.Elem()
		}
		return notEqualValue(a.Elem(), b)
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		if !a.IsNil() {
			return true
		}
		return !isNilValue(b)
	case reflect.Struct, reflect.Array:
		return true
	}

	if b.Kind() == reflect.Interface {
		if b.IsNil() {
			return true
		}
		b = b.Elem()
	}
	if a.Type() != b.Type() {
		return true
	}
	return !a.Equal(b)
}

func isNaN(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(v.Float())
	}
	return false
}

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Package opt provides an explicit present/absent value type.
//
// Filter inputs and optional query results use Value instead of sentinel
// values (empty string, zero, -1) so that "absent" can never be confused with
// a legitimate value.
package opt

import "fmt"

// Value holds either nothing or a value of type T.
// The zero Value is absent.
type Value[T any] struct {
	value   T
	present bool
}

// Some returns a present Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns Some(*p) for a non-nil pointer and None otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsPresent reports whether v holds a value.
func (v Value[T]) IsPresent() bool {
	return v.present
}

// Get returns the held value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.present
}

// OrElse returns the held value, or fallback when absent.
func (v Value[T]) OrElse(fallback T) T {
	if !v.present {
		return fallback
	}
	return v.value
}

// MustGet returns the held value and panics when absent.
func (v Value[T]) MustGet() T {
	if !v.present {
		panic("opt: MustGet on absent value")
	}
	return v.value
}

// String implements fmt.Stringer.
func (v Value[T]) String() string {
	if !v.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", v.value)
}

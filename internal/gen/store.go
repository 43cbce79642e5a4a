// Package gen implements the staged map generation engine: a typed,
// tag-qualified component store, the per-attempt generation context, the
// step contract with cooperative stage suspension, and the generator that
// sequences steps with safe rebuild-and-retry semantics.
package gen

import (
	"fmt"
	"reflect"
)

type entry struct {
	value any
	typ   reflect.Type
	tag   string
}

type typeTag struct {
	typ reflect.Type
	tag string
}

// Store is a heterogeneous container for generation components. Each
// component is stored under its concrete type and an optional tag; the exact
// (type, tag) pair is unique. Lookups are polymorphic: a query for T matches
// any stored value assignable to T, resolved in insertion order.
//
// The zero value is not usable; use NewStore.
type Store struct {
	entries []entry
	exact   map[typeTag]struct{}
}

// NewStore returns an empty component store.
func NewStore() *Store {
	return &Store{exact: make(map[typeTag]struct{})}
}

// Add stores component under its concrete runtime type and tag. The empty
// tag means "untagged". Adding a component whose exact (type, tag) pair is
// already present fails with *DuplicateComponentError; the store never
// silently overwrites.
func (s *Store) Add(component any, tag string) error {
	if component == nil {
		return fmt.Errorf("gen: cannot add nil component (tag %q)", tag)
	}
	typ := reflect.TypeOf(component)
	key := typeTag{typ: typ, tag: tag}
	if _, ok := s.exact[key]; ok {
		return &DuplicateComponentError{TypeName: typ.String(), Tag: tag}
	}
	s.exact[key] = struct{}{}
	s.entries = append(s.entries, entry{value: component, typ: typ, tag: tag})
	return nil
}

// Remove deletes a previously added component instance. Removing a component
// that is not present is a silent no-op: translation steps routinely remove a
// list after migrating its data and must not care whether an earlier step
// already did so.
func (s *Store) Remove(component any) {
	for i, e := range s.entries {
		if sameComponent(e.value, component) {
			delete(s.exact, typeTag{typ: e.typ, tag: e.tag})
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Len reports the number of stored components.
func (s *Store) Len() int {
	return len(s.entries)
}

// sameComponent reports whether a and b are the same stored instance.
// Non-comparable kinds (slices, maps, funcs) are matched by header pointer.
func sameComponent(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// First returns the first stored component assignable to T carrying exactly
// tag, in insertion order. The empty tag matches only untagged components;
// use FirstAny to ignore tags entirely.
func First[T any](s *Store, tag string) (T, bool) {
	for _, e := range s.entries {
		if e.tag != tag {
			continue
		}
		if v, ok := e.value.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FirstAny returns the first stored component assignable to T regardless of
// tag, in insertion order.
func FirstAny[T any](s *Store) (T, bool) {
	for _, e := range s.entries {
		if v, ok := e.value.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FirstOrNew returns the first component assignable to T under tag, or
// invokes factory, stores the result under tag, and returns it. This is the
// standard idiom for steps that either reuse a prior step's output or lazily
// seed a fresh working structure on first use; the factory runs at most once
// per (type, tag).
func FirstOrNew[T any](s *Store, tag string, factory func() T) T {
	if v, ok := First[T](s, tag); ok {
		return v
	}
	v := factory()
	if err := s.Add(v, tag); err != nil {
		// Unreachable when First missed: a value is always assignable to its
		// own concrete type, so an exact duplicate would have been found.
		panic(err)
	}
	return v
}

// All returns every stored component assignable to T carrying exactly tag,
// in insertion order. Each call recomputes the result against the current
// store contents.
func All[T any](s *Store, tag string) []T {
	var out []T
	for _, e := range s.entries {
		if e.tag != tag {
			continue
		}
		if v, ok := e.value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// AllAny returns every stored component assignable to T regardless of tag,
// in insertion order.
func AllAny[T any](s *Store) []T {
	var out []T
	for _, e := range s.entries {
		if v, ok := e.value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Package memo provides the stores backing a packrat parse context.
//
// A store maps a (position, atom handle) pair to whatever the context
// remembers about evaluating that atom at that position. Stores are owned by
// exactly one parse run and are never shared between runs, so none of them
// synchronise access.
package memo

import "fmt"

// Key identifies one evaluation: an atom handle tried at an input position.
type Key struct {
	Pos  int
	Atom uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%d@%d", k.Atom, k.Pos)
}

// Store is the capability a parse context needs from its memo table.
type Store[V any] interface {
	Load(key Key) (V, bool)
	Store(key Key, value V)
	Delete(key Key)
	Len() int
}

var _ Store[int] = mapStore[int]{}

// mapStore flattens the two-level (position, atom) table into one map keyed by
// the composite Key.
type mapStore[V any] struct {
	m map[Key]V
}

// NewMapStore returns the default store: a single map keyed by Key.
func NewMapStore[V any]() Store[V] {
	return mapStore[V]{m: make(map[Key]V)}
}

func (s mapStore[V]) Load(key Key) (V, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s mapStore[V]) Store(key Key, value V) {
	s.m[key] = value
}

func (s mapStore[V]) Delete(key Key) {
	delete(s.m, key)
}

func (s mapStore[V]) Len() int {
	return len(s.m)
}

package atoms

import (
	"errors"
	"iter"
)

var ErrEmptyLRStack = errors.New("pop from empty left-recursion stack")

// Marker records that Rule is being evaluated starting at Pos.
type Marker struct {
	Rule Atom
	Pos  int

	recursive bool
}

// MarkRecursive flags the invocation as re-entered at its own position.
func (m *Marker) MarkRecursive() {
	m.recursive = true
}

func (m *Marker) Recursive() bool {
	return m.recursive
}

// LRStack holds the rule invocations currently in progress, innermost last.
// Rule atoms push on entry and pop on exit in strictly nested order.
type LRStack struct {
	markers []*Marker
}

func (s *LRStack) Push(m *Marker) {
	s.markers = append(s.markers, m)
}

// Pop removes and returns the innermost marker. Popping an empty stack
// means pushes and pops are unbalanced, so it panics.
func (s *LRStack) Pop() *Marker {
	n := len(s.markers)
	if n == 0 {
		panic(ErrEmptyLRStack)
	}
	m := s.markers[n-1]
	s.markers[n-1] = nil
	s.markers = s.markers[:n-1]
	return m
}

// TopDown yields the active markers from the most recently pushed to the
// oldest, so the nearest enclosing invocation is seen first.
func (s *LRStack) TopDown() iter.Seq[*Marker] {
	return func(yield func(*Marker) bool) {
		for i := len(s.markers) - 1; i >= 0; i-- {
			if !yield(s.markers[i]) {
				return
			}
		}
	}
}

func (s *LRStack) Len() int {
	return len(s.markers)
}

// Package atoms provides the building blocks of a packrat PEG engine.
//
// A grammar is a graph of atoms. Each atom knows how to try itself against a
// Source, and every nested attempt goes through a Context, which memoizes
// outcomes per (position, atom) pair and keeps the bookkeeping that lets rule
// atoms resolve left recursion.
//
// Atoms are immutable once built and can be shared across any number of
// parse runs. A Context belongs to exactly one run.
//
// Example:
//
//	digit := atoms.Range('0', '9')
//	number := atoms.Repeat(digit, 1, -1)
//	expr := atoms.NewEntity("expr")
//	expr.Define(atoms.Alt(atoms.Seq(expr, atoms.Str("+"), number), number))
//
//	ctx := atoms.NewContext(nil)
//	res := ctx.Apply(expr, atoms.NewSource("1+2+3"))
package atoms

import (
	"sync/atomic"
)

// ID is the identity handle of an atom. Two atoms built from the same
// description still get different IDs, and so never share cache entries.
type ID uint64

var lastID atomic.Uint64

// NewID mints a fresh atom handle. Atoms implemented outside this package
// call it once at construction and return the value from ID.
func NewID() ID {
	return ID(lastID.Add(1))
}

// Atom is a single grammar node.
type Atom interface {
	// ID returns the handle used to key cache entries for this atom.
	ID() ID
	// Try evaluates the atom at the source's current position. Nested atoms
	// must be evaluated through ctx so that they are memoized too.
	Try(src *Source, ctx *Context) Result
	String() string
}

type base struct {
	id ID
}

func newBase() base {
	return base{id: NewID()}
}

func (b base) ID() ID { return b.id }

// inner renders a child atom, parenthesizing composites.
func inner(a Atom) string {
	switch a.(type) {
	case *Sequence, *Alternative:
		return "(" + a.String() + ")"
	default:
		return a.String()
	}
}

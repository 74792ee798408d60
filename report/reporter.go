package report

import (
	"slices"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/internal/orderedbuffer"
)

var (
	_ atoms.Reporter = (*Tree)(nil)
	_ atoms.Reporter = (*Deepest)(nil)
)

// Tree reports every failure as a Cause nesting the causes of its children.
type Tree struct{}

func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) Err(atom atoms.Atom, src *atoms.Source, message string, children []any) any {
	return t.ErrAt(atom, src, message, src.Pos(), children)
}

func (t *Tree) ErrAt(_ atoms.Atom, src *atoms.Source, message string, pos int, children []any) any {
	return newCause(src, message, pos, children)
}

// Deepest reports like Tree and additionally remembers the failures that
// happened furthest into the input. Those usually point at the real mistake
// when the top-level cause is a generic "Expected one of".
//
// Rule atoms only report the placeholder failure a left-recursive call
// answers with before it has a seed, so their failures are not remembered.
// Failures from abandoned seed-growing rounds are, like any other failure
// the parse backtracked out of.
type Deepest struct {
	deepest *orderedbuffer.OrderedBoundedBuffer[*Cause]
}

// NewDeepest keeps the keep deepest failures.
func NewDeepest(keep int) *Deepest {
	return &Deepest{
		deepest: orderedbuffer.NewOrderedBoundedBuffer(keep, func(a, b *Cause) int {
			return a.Pos - b.Pos
		}),
	}
}

func (d *Deepest) Err(atom atoms.Atom, src *atoms.Source, message string, children []any) any {
	return d.ErrAt(atom, src, message, src.Pos(), children)
}

func (d *Deepest) ErrAt(atom atoms.Atom, src *atoms.Source, message string, pos int, children []any) any {
	cause := newCause(src, message, pos, children)
	if _, rule := atom.(*atoms.Entity); !rule {
		d.deepest.Insert(cause)
	}
	return cause
}

// Deepest returns the remembered failures, deepest first.
func (d *Deepest) Deepest() []*Cause {
	items := d.deepest.Items()
	slices.Reverse(items)
	return items
}

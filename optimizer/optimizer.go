// Package optimizer rewrites a grammar before it is used for parsing.
//
// The only rewrite today is sequence folding: a sequence made only of
// literals is replaced by one literal of their concatenation, which costs a
// single dispatch and a single comparison at parse time.
//
// The optimizer never mutates its input. Atoms that need no change keep
// their identity; everything above a changed atom is rebuilt. Shared atoms
// are rewritten once and stay shared, and recursive rules are rebuilt as new
// rules referring to each other.
package optimizer

import (
	"strings"

	"github.com/on-the-ground/packrat_ive_go/atoms"
)

var (
	_ atoms.Visitor[atoms.Atom] = (*Optimizer)(nil)
	_ atoms.Visitor[bool]       = (*StringSeqVisitor)(nil)
)

// Optimize rewrites root and everything reachable from it.
func Optimize(root atoms.Atom) atoms.Atom {
	return New().Optimize(root)
}

// Optimizer remembers what each atom was rewritten to, so one instance
// should be used per grammar.
type Optimizer struct {
	done map[atoms.Atom]atoms.Atom
}

func New() *Optimizer {
	return &Optimizer{done: make(map[atoms.Atom]atoms.Atom)}
}

func (o *Optimizer) Optimize(atom atoms.Atom) atoms.Atom {
	if out, ok := o.done[atom]; ok {
		return out
	}
	out := atoms.Accept[atoms.Atom](atom, o)
	o.done[atom] = out
	return out
}

func (o *Optimizer) all(in []atoms.Atom) (out []atoms.Atom, changed bool) {
	out = make([]atoms.Atom, len(in))
	for i, atom := range in {
		out[i] = o.Optimize(atom)
		changed = changed || out[i] != atom
	}
	return out, changed
}

// VisitSequence folds the children into one literal when every rewritten
// child is a literal, and otherwise right-folds them with FollowedBy.
func (o *Optimizer) VisitSequence(seq *atoms.Sequence) atoms.Atom {
	transformed, _ := o.all(seq.Atoms())
	if len(transformed) == 1 {
		return transformed[0]
	}

	v := &StringSeqVisitor{}
	pure := true
	for _, atom := range transformed {
		if !atoms.Accept[bool](atom, v) {
			pure = false
			break
		}
	}
	if pure {
		return v.Str()
	}
	return atoms.FoldFollowedBy(transformed...)
}

func (o *Optimizer) VisitAlternative(alt *atoms.Alternative) atoms.Atom {
	children, changed := o.all(alt.Atoms())
	if !changed {
		return alt
	}
	return atoms.Alt(children...)
}

func (o *Optimizer) VisitRepetition(rep *atoms.Repetition) atoms.Atom {
	child := o.Optimize(rep.Atom())
	if child == rep.Atom() {
		return rep
	}
	lo, hi := rep.Bounds()
	return atoms.Repeat(child, lo, hi)
}

func (o *Optimizer) VisitLookahead(look *atoms.Lookahead) atoms.Atom {
	child := o.Optimize(look.Atom())
	switch {
	case child == look.Atom():
		return look
	case look.Positive():
		return atoms.Present(child)
	default:
		return atoms.Absent(child)
	}
}

// VisitEntity registers the replacement rule before rewriting the body, so
// recursive references resolve to it.
func (o *Optimizer) VisitEntity(e *atoms.Entity) atoms.Atom {
	body := e.Body()
	if body == nil {
		return e
	}
	rebuilt := atoms.NewEntity(e.Name())
	o.done[e] = rebuilt

	newBody := o.Optimize(body)
	if newBody == body {
		// nothing below changed, so nothing refers to rebuilt either
		o.done[e] = e
		return e
	}
	rebuilt.Define(newBody)
	return rebuilt
}

func (o *Optimizer) VisitLiteral(l *atoms.Literal) atoms.Atom     { return l }
func (o *Optimizer) VisitCharClass(c *atoms.CharClass) atoms.Atom { return c }
func (o *Optimizer) VisitAtom(a atoms.Atom) atoms.Atom            { return a }

// ReturnFalseVisitor votes false for every atom kind. Embed it and override
// the kinds that should vote otherwise.
type ReturnFalseVisitor struct{}

func (ReturnFalseVisitor) VisitLiteral(*atoms.Literal) bool         { return false }
func (ReturnFalseVisitor) VisitCharClass(*atoms.CharClass) bool     { return false }
func (ReturnFalseVisitor) VisitSequence(*atoms.Sequence) bool       { return false }
func (ReturnFalseVisitor) VisitAlternative(*atoms.Alternative) bool { return false }
func (ReturnFalseVisitor) VisitRepetition(*atoms.Repetition) bool   { return false }
func (ReturnFalseVisitor) VisitLookahead(*atoms.Lookahead) bool     { return false }
func (ReturnFalseVisitor) VisitEntity(*atoms.Entity) bool           { return false }
func (ReturnFalseVisitor) VisitAtom(atoms.Atom) bool                { return false }

// StringSeqVisitor accepts literals only, collecting their text in order.
type StringSeqVisitor struct {
	ReturnFalseVisitor
	text strings.Builder
}

func (v *StringSeqVisitor) VisitLiteral(l *atoms.Literal) bool {
	v.text.WriteString(l.Text())
	return true
}

// Str returns a literal matching everything accepted so far.
func (v *StringSeqVisitor) Str() *atoms.Literal {
	return atoms.Str(v.text.String())
}

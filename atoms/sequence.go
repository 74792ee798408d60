package atoms

import (
	"fmt"
	"slices"
	"strings"
)

// Sequence matches its atoms one after another. Its value is the slice of
// the children's values.
type Sequence struct {
	base
	atoms []Atom
}

func Seq(atoms ...Atom) *Sequence {
	return &Sequence{base: newBase(), atoms: slices.Clone(atoms)}
}

// FollowedBy is the binary sequence combinator: a, then b.
func FollowedBy(a, b Atom) *Sequence {
	return &Sequence{base: newBase(), atoms: []Atom{a, b}}
}

// FoldFollowedBy right-folds ts with FollowedBy, t1 FollowedBy (t2 FollowedBy
// (... tn)). The links made by the fold are merged into one sequence, so the
// value has the same shape as Seq(ts...). Operands are never merged, even
// when they are sequences themselves.
func FoldFollowedBy(ts ...Atom) Atom {
	if len(ts) == 0 {
		return Seq()
	}
	acc := ts[len(ts)-1]
	var link *Sequence
	for i := len(ts) - 2; i >= 0; i-- {
		if link == nil {
			link = FollowedBy(ts[i], acc)
		} else {
			link = &Sequence{base: newBase(), atoms: append([]Atom{ts[i]}, link.atoms...)}
		}
		acc = link
	}
	return acc
}

func (s *Sequence) Atoms() []Atom {
	return slices.Clone(s.atoms)
}

func (s *Sequence) Try(src *Source, ctx *Context) Result {
	values := make([]any, 0, len(s.atoms))
	for _, atom := range s.atoms {
		res := ctx.Apply(atom, src)
		if !res.OK {
			return ctx.Err(s, src, fmt.Sprintf("Failed to match sequence (%s)", s), res.Report)
		}
		values = append(values, res.Value)
	}
	return Success(values)
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.atoms))
	for i, atom := range s.atoms {
		parts[i] = inner(atom)
	}
	return strings.Join(parts, " ")
}

func (s *Sequence) accept(d dispatcher) { d.sequence(s) }

// Alternative is ordered choice: the first alternative that matches wins.
type Alternative struct {
	base
	atoms []Atom
}

func Alt(atoms ...Atom) *Alternative {
	return &Alternative{base: newBase(), atoms: slices.Clone(atoms)}
}

func (a *Alternative) Atoms() []Atom {
	return slices.Clone(a.atoms)
}

func (a *Alternative) Try(src *Source, ctx *Context) Result {
	reports := make([]any, 0, len(a.atoms))
	for _, atom := range a.atoms {
		res := ctx.Apply(atom, src)
		if res.OK {
			return res
		}
		reports = append(reports, res.Report)
	}
	return ctx.Err(a, src, fmt.Sprintf("Expected one of [%s]", a.list()), reports...)
}

func (a *Alternative) list() string {
	parts := make([]string, len(a.atoms))
	for i, atom := range a.atoms {
		parts[i] = inner(atom)
	}
	return strings.Join(parts, ", ")
}

func (a *Alternative) String() string {
	parts := make([]string, len(a.atoms))
	for i, atom := range a.atoms {
		parts[i] = inner(atom)
	}
	return strings.Join(parts, " / ")
}

func (a *Alternative) accept(d dispatcher) { d.alternative(a) }

package atoms

import "fmt"

// Repetition matches its atom between Min and Max times, greedily. A
// negative Max means no upper bound. An iteration that consumes nothing ends
// the loop, so a repeated empty match cannot spin forever.
type Repetition struct {
	base
	atom     Atom
	min, max int
}

func Repeat(atom Atom, min, max int) *Repetition {
	if min < 0 || (max >= 0 && max < min) {
		panic(fmt.Sprintf("invalid repetition bounds {%d, %d}", min, max))
	}
	return &Repetition{base: newBase(), atom: atom, min: min, max: max}
}

// Maybe matches atom zero or one time.
func Maybe(atom Atom) *Repetition {
	return Repeat(atom, 0, 1)
}

func (r *Repetition) Atom() Atom { return r.atom }

func (r *Repetition) Bounds() (min, max int) { return r.min, r.max }

func (r *Repetition) Try(src *Source, ctx *Context) Result {
	values := make([]any, 0)
	var last Result
	for r.max < 0 || len(values) < r.max {
		start := src.Pos()
		last = ctx.Apply(r.atom, src)
		if !last.OK {
			break
		}
		values = append(values, last.Value)
		if src.Pos() == start {
			return Success(values)
		}
	}
	if len(values) < r.min {
		return ctx.Err(r, src, fmt.Sprintf("Expected at least %d of %s", r.min, inner(r.atom)), last.Report)
	}
	return Success(values)
}

func (r *Repetition) String() string {
	switch {
	case r.min == 0 && r.max == 1:
		return inner(r.atom) + "?"
	case r.min == 0 && r.max < 0:
		return inner(r.atom) + "*"
	case r.min == 1 && r.max < 0:
		return inner(r.atom) + "+"
	case r.max < 0:
		return fmt.Sprintf("%s{%d, }", inner(r.atom), r.min)
	default:
		return fmt.Sprintf("%s{%d, %d}", inner(r.atom), r.min, r.max)
	}
}

func (r *Repetition) accept(d dispatcher) { d.repetition(r) }

// Lookahead checks whether its atom matches without consuming input.
type Lookahead struct {
	base
	atom     Atom
	positive bool
}

// Present succeeds when atom would match here.
func Present(atom Atom) *Lookahead {
	return &Lookahead{base: newBase(), atom: atom, positive: true}
}

// Absent succeeds when atom would not match here.
func Absent(atom Atom) *Lookahead {
	return &Lookahead{base: newBase(), atom: atom, positive: false}
}

func (l *Lookahead) Atom() Atom { return l.atom }

func (l *Lookahead) Positive() bool { return l.positive }

func (l *Lookahead) Try(src *Source, ctx *Context) Result {
	pos := src.Pos()
	res := ctx.Apply(l.atom, src)
	src.SetPos(pos)

	if l.positive {
		if res.OK {
			return Success(nil)
		}
		return ctx.Err(l, src, "Input should start with "+inner(l.atom), res.Report)
	}
	if res.OK {
		return ctx.Err(l, src, "Input should not start with "+inner(l.atom))
	}
	return Success(nil)
}

func (l *Lookahead) String() string {
	if l.positive {
		return "&" + inner(l.atom)
	}
	return "!" + inner(l.atom)
}

func (l *Lookahead) accept(d dispatcher) { d.lookahead(l) }

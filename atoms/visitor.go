package atoms

// Visitor is a pass over a grammar that decides something per atom kind.
// Atoms implemented outside this package are handed to VisitAtom.
type Visitor[R any] interface {
	VisitLiteral(*Literal) R
	VisitCharClass(*CharClass) R
	VisitSequence(*Sequence) R
	VisitAlternative(*Alternative) R
	VisitRepetition(*Repetition) R
	VisitLookahead(*Lookahead) R
	VisitEntity(*Entity) R
	VisitAtom(Atom) R
}

// Accept dispatches atom to the visitor method for its kind.
func Accept[R any](atom Atom, v Visitor[R]) R {
	acc, ok := atom.(acceptor)
	if !ok {
		return v.VisitAtom(atom)
	}
	d := &dispatch[R]{visitor: v}
	acc.accept(d)
	return d.out
}

// acceptor is implemented by the built-in atoms only.
type acceptor interface {
	accept(d dispatcher)
}

type dispatcher interface {
	literal(*Literal)
	charClass(*CharClass)
	sequence(*Sequence)
	alternative(*Alternative)
	repetition(*Repetition)
	lookahead(*Lookahead)
	entity(*Entity)
}

type dispatch[R any] struct {
	visitor Visitor[R]
	out     R
}

func (d *dispatch[R]) literal(a *Literal)         { d.out = d.visitor.VisitLiteral(a) }
func (d *dispatch[R]) charClass(a *CharClass)     { d.out = d.visitor.VisitCharClass(a) }
func (d *dispatch[R]) sequence(a *Sequence)       { d.out = d.visitor.VisitSequence(a) }
func (d *dispatch[R]) alternative(a *Alternative) { d.out = d.visitor.VisitAlternative(a) }
func (d *dispatch[R]) repetition(a *Repetition)   { d.out = d.visitor.VisitRepetition(a) }
func (d *dispatch[R]) lookahead(a *Lookahead)     { d.out = d.visitor.VisitLookahead(a) }
func (d *dispatch[R]) entity(a *Entity)           { d.out = d.visitor.VisitEntity(a) }

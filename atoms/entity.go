package atoms

import (
	"fmt"

	"github.com/on-the-ground/packrat_ive_go/memo"
	"go.uber.org/zap"
)

// Entity is a named rule. It is created empty and defined later, which is
// what allows rules to refer to themselves.
//
// Left recursion is resolved by growing a seed: when the rule re-enters
// itself at the position it started from, the inner call answers with the
// best result found so far (at first, a failure). The body is then evaluated
// again and again, each time with the previous result as the seed, until it
// stops consuming more input.
type Entity struct {
	base
	name string
	body Atom
}

func NewEntity(name string) *Entity {
	return &Entity{base: newBase(), name: name}
}

// Define sets the rule body. A rule can only be defined once.
func (e *Entity) Define(body Atom) {
	if body == nil {
		panic(fmt.Sprintf("entity %q defined with a nil body", e.name))
	}
	if e.body != nil {
		panic(fmt.Sprintf("entity %q is already defined", e.name))
	}
	e.body = body
}

func (e *Entity) Name() string { return e.name }

// Body returns the rule body, or nil if the entity is not defined yet.
func (e *Entity) Body() Atom { return e.body }

func (e *Entity) Try(src *Source, ctx *Context) Result {
	if e.body == nil {
		panic(fmt.Sprintf("entity %q is not defined", e.name))
	}
	pos := src.Pos()
	key := memo.Key{Pos: pos, Atom: uint64(e.id)}

	for m := range ctx.LRStack().TopDown() {
		if m.Rule != Atom(e) || m.Pos != pos {
			continue
		}
		m.MarkRecursive()
		if seed, ok := ctx.heads[key]; ok {
			src.SetPos(pos + seed.Advance)
			return seed.Result
		}
		return ctx.Err(e, src, fmt.Sprintf("Left recursion in %s", e.name))
	}

	marker := &Marker{Rule: e, Pos: pos}
	ctx.pushMarker(marker)
	defer ctx.popMarker()

	mark := ctx.mark()
	res := ctx.Apply(e.body, src)
	if !marker.Recursive() || !res.OK {
		return res
	}
	return e.grow(src, ctx, key, mark, Entry{Result: res, Advance: src.Pos() - pos})
}

func (e *Entity) grow(src *Source, ctx *Context, key memo.Key, mark int, seed Entry) Result {
	pos := key.Pos
	rounds := 1
	for {
		ctx.rollback(mark)
		ctx.heads[key] = seed
		src.SetPos(pos)

		res := ctx.Apply(e.body, src)
		advance := src.Pos() - pos
		if !res.OK || advance <= seed.Advance {
			break
		}
		seed = Entry{Result: res, Advance: advance}
		rounds++
	}
	ctx.rollback(mark)
	delete(ctx.heads, key)
	src.SetPos(pos + seed.Advance)

	ctx.logger.Debug("grew left-recursive seed",
		zap.String("run", ctx.id),
		zap.String("rule", e.name),
		zap.Int("pos", pos),
		zap.Int("advance", seed.Advance),
		zap.Int("rounds", rounds),
	)
	return seed.Result
}

func (e *Entity) String() string {
	return e.name
}

func (e *Entity) accept(d dispatcher) { d.entity(e) }

// Package grammar turns EBNF text, in the notation of golang.org/x/exp/ebnf,
// into atoms.
//
// Every production becomes an atoms.Entity, so productions may refer to each
// other in any order and may be recursive, left-recursively included.
// Matching is literal: whitespace is only skipped where the grammar says so.
package grammar

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"go.uber.org/multierr"
	"golang.org/x/exp/ebnf"
)

var (
	ErrUnknownProduction = errors.New("unknown production")
	ErrInvalidRange      = errors.New("invalid range")
)

func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	return ebnf.Parse(filename, r)
}

// Verify runs the ebnf package's consistency checks: every name is defined,
// every production is reachable from start, and lexical productions only use
// other lexical productions.
func Verify(g ebnf.Grammar, start string) error {
	if err := ebnf.Verify(g, start); err != nil {
		return fmt.Errorf("verify %s: %w", start, err)
	}
	return nil
}

// Build converts g into atoms and returns the rule for start. All problems
// found are reported together.
func Build(g ebnf.Grammar, start string) (atoms.Atom, error) {
	b := &builder{rules: make(map[string]*atoms.Entity, len(g))}
	for name := range g {
		b.rules[name] = atoms.NewEntity(name)
	}
	root, ok := b.rules[start]
	if !ok {
		return nil, fmt.Errorf("%w: start production %q", ErrUnknownProduction, start)
	}

	for _, name := range slices.Sorted(maps.Keys(g)) {
		b.rules[name].Define(b.build(g[name].Expr))
	}
	if b.err != nil {
		return nil, b.err
	}
	return root, nil
}

// Load parses and builds in one step.
func Load(filename string, r io.Reader, start string) (atoms.Atom, error) {
	g, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return Build(g, start)
}

type builder struct {
	rules map[string]*atoms.Entity
	err   error
}

func (b *builder) fail(err error) atoms.Atom {
	b.err = multierr.Append(b.err, err)
	return atoms.Str("")
}

func (b *builder) build(expr ebnf.Expression) atoms.Atom {
	switch x := expr.(type) {
	case nil:
		return atoms.Str("")
	case *ebnf.Token:
		return atoms.Str(x.String)
	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(x.Begin.String)
		hi, _ := utf8.DecodeRuneInString(x.End.String)
		if lo > hi {
			return b.fail(fmt.Errorf("%w: %q … %q at %s", ErrInvalidRange, x.Begin.String, x.End.String, x.Pos()))
		}
		return atoms.Range(lo, hi)
	case ebnf.Sequence:
		return atoms.Seq(b.buildAll(x)...)
	case ebnf.Alternative:
		return atoms.Alt(b.buildAll(x)...)
	case *ebnf.Group:
		return b.build(x.Body)
	case *ebnf.Option:
		return atoms.Maybe(b.build(x.Body))
	case *ebnf.Repetition:
		return atoms.Repeat(b.build(x.Body), 0, -1)
	case *ebnf.Name:
		rule, ok := b.rules[x.String]
		if !ok {
			return b.fail(fmt.Errorf("%w: %s at %s", ErrUnknownProduction, x.String, x.Pos()))
		}
		return rule
	default:
		return b.fail(fmt.Errorf("unsupported expression %T at %s", x, x.Pos()))
	}
}

func (b *builder) buildAll(exprs []ebnf.Expression) []atoms.Atom {
	out := make([]atoms.Atom, len(exprs))
	for i, expr := range exprs {
		out[i] = b.build(expr)
	}
	return out
}

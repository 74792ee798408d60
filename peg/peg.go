// Package peg is the entry point for running a grammar over an input.
//
// A Parser holds a grammar and the configuration for its runs. Every call to
// Parse builds a fresh context, so one Parser can be used for any number of
// inputs, one at a time per goroutine.
package peg

import (
	"errors"
	"fmt"
	"time"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/memo"
	"github.com/on-the-ground/packrat_ive_go/optimizer"
	"github.com/on-the-ground/packrat_ive_go/report"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

var ErrParseFailed = errors.New("parse failed")

// ParseFailed is the error returned when the input does not match.
type ParseFailed struct {
	Message string
	// Cause is nil when the parser runs without a reporter.
	Cause *report.Cause
}

func (e *ParseFailed) Error() string {
	if e.Cause != nil {
		return e.Cause.String()
	}
	return e.Message
}

func (e *ParseFailed) Is(target error) bool {
	return target == ErrParseFailed
}

type Stats struct {
	RunID   string
	Span    timespan.TimeSpan
	Hits    int
	Misses  int
	Entries int
}

type Parser struct {
	root        atoms.Atom
	optimize    bool
	partial     bool
	verify      bool
	newReporter func() atoms.Reporter
	newStore    func() memo.Store[atoms.Entry]
	logger      *zap.Logger
}

type Option func(*Parser)

// WithOptimizer rewrites the grammar once, when the parser is built.
func WithOptimizer() Option {
	return func(p *Parser) {
		p.optimize = true
	}
}

// WithPartial accepts a match that leaves input unconsumed.
func WithPartial() Option {
	return func(p *Parser) {
		p.partial = true
	}
}

// WithReporter sets how each run reports failures. The factory may return
// nil to run without a reporter.
func WithReporter(newReporter func() atoms.Reporter) Option {
	return func(p *Parser) {
		p.newReporter = newReporter
	}
}

func WithStore(newStore func() memo.Store[atoms.Entry]) Option {
	return func(p *Parser) {
		p.newStore = newStore
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithDeterminismCheck makes every run re-evaluate atoms on cache hits.
// See atoms.WithDeterminismCheck.
func WithDeterminismCheck() Option {
	return func(p *Parser) {
		p.verify = true
	}
}

func New(root atoms.Atom, opts ...Option) *Parser {
	p := &Parser{
		root:        root,
		newReporter: func() atoms.Reporter { return report.NewTree() },
		newStore:    memo.NewMapStore[atoms.Entry],
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.optimize {
		p.root = optimizer.Optimize(root)
	}
	return p
}

// Root returns the grammar the parser runs, after optimization if enabled.
func (p *Parser) Root() atoms.Atom {
	return p.root
}

func (p *Parser) Parse(input string) (any, error) {
	value, _, err := p.ParseWithStats(input)
	return value, err
}

func (p *Parser) ParseWithStats(input string) (any, Stats, error) {
	started := time.Now()

	reporter := p.newReporter()
	opts := []atoms.Option{
		atoms.WithStore(p.newStore()),
		atoms.WithLogger(p.logger),
	}
	if p.verify {
		opts = append(opts, atoms.WithDeterminismCheck())
	}
	ctx := atoms.NewContext(reporter, opts...)
	src := atoms.NewSource(input)

	res := ctx.Apply(p.root, src)
	if res.OK && !p.partial && !src.AtEnd() {
		var children []any
		if d, ok := reporter.(*report.Deepest); ok {
			if deepest := d.Deepest(); len(deepest) > 0 && deepest[0].Pos >= src.Pos() {
				children = append(children, deepest[0])
			}
		}
		res = ctx.Err(p.root, src, fmt.Sprintf("Don't know what to do with %q", src.Peek(10)), children...)
	}

	cs := ctx.Stats()
	stats := Stats{
		RunID:   ctx.RunID(),
		Span:    timespan.BetweenTimes(started, time.Now()),
		Hits:    cs.Hits,
		Misses:  cs.Misses,
		Entries: cs.Entries,
	}
	p.logger.Debug("parse finished",
		zap.String("run", stats.RunID),
		zap.Bool("ok", res.OK),
		zap.Int("consumed", src.Pos()),
		zap.Duration("took", stats.Span.Duration()),
		zap.Int("hits", stats.Hits),
		zap.Int("misses", stats.Misses),
		zap.Int("entries", stats.Entries),
	)

	if !res.OK {
		return nil, stats, failure(res.Report)
	}
	return res.Value, stats, nil
}

func failure(rep any) *ParseFailed {
	cause, ok := report.CauseOf(rep)
	if !ok {
		return &ParseFailed{Message: ErrParseFailed.Error()}
	}
	return &ParseFailed{Message: cause.Message, Cause: cause}
}

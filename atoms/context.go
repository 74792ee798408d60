package atoms

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/on-the-ground/packrat_ive_go/memo"
	"go.uber.org/zap"
)

var ErrNondeterministic = errors.New("atom is not deterministic")

// Reporter turns match failures into report values. The context never looks
// inside a report; it only carries it in the failed Result.
type Reporter interface {
	// Err reports a failure of atom at the source's current position.
	Err(atom Atom, src *Source, message string, children []any) any
	// ErrAt reports a failure of atom at pos.
	ErrAt(atom Atom, src *Source, message string, pos int, children []any) any
}

// Entry is what the cache remembers about one evaluation: its result and
// how many bytes it consumed.
type Entry struct {
	Result  Result
	Advance int
}

type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Context is the transient state of one parse run: the packrat cache, the
// left-recursion stack and the error reporter.
//
// A Context is not safe for concurrent use and must not outlive its run.
type Context struct {
	id       string
	store    memo.Store[Entry]
	reporter Reporter
	lrStack  LRStack
	logger   *zap.Logger
	verify   bool

	// seeds of left-recursive rules currently being grown
	heads map[memo.Key]Entry
	// keys stored while a rule invocation is in progress, so speculative
	// entries can be rolled back when a left-recursive seed grows
	journal []memo.Key

	hits   int
	misses int
}

type Option func(*Context)

// WithStore replaces the default map-backed cache.
func WithStore(store memo.Store[Entry]) Option {
	return func(c *Context) {
		c.store = store
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithDeterminismCheck re-evaluates the atom on every cache hit and panics
// with ErrNondeterministic if the outcome differs from the cached one.
func WithDeterminismCheck() Option {
	return func(c *Context) {
		c.verify = true
	}
}

// NewContext creates the state for one parse run. A nil reporter is the null
// reporter: failures then carry no report.
func NewContext(reporter Reporter, opts ...Option) *Context {
	c := &Context{
		id:       uuid.New().String(),
		store:    memo.NewMapStore[Entry](),
		reporter: reporter,
		logger:   zap.NewNop(),
		heads:    make(map[memo.Key]Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) RunID() string {
	return c.id
}

func (c *Context) LRStack() *LRStack {
	return &c.lrStack
}

func (c *Context) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.store.Len()}
}

// TryWithCache evaluates atom at the source's position unless that has been
// done before in this run. On a hit the atom is not run again: the cursor is
// moved by the recorded advance and the recorded result is returned.
// Failures are cached like successes.
func (c *Context) TryWithCache(atom Atom, src *Source) Result {
	beg := src.Pos()
	key := memo.Key{Pos: beg, Atom: uint64(atom.ID())}

	entry, ok := c.store.Load(key)
	if !ok {
		c.misses++
		result := atom.Try(src, c)
		c.set(key, Entry{Result: result, Advance: src.Pos() - beg})
		return result
	}

	c.hits++
	if c.verify {
		c.verifyEntry(atom, src, entry)
	}
	src.SetPos(beg + entry.Advance)
	return entry.Result
}

// Apply is how atoms evaluate their children: through the cache, with the
// cursor rewound to where it was if the child fails.
func (c *Context) Apply(atom Atom, src *Source) Result {
	pos := src.Pos()
	result := c.TryWithCache(atom, src)
	if !result.OK {
		src.SetPos(pos)
	}
	return result
}

// Err reports a failure at the current position through the reporter.
func (c *Context) Err(atom Atom, src *Source, message string, children ...any) Result {
	if c.reporter == nil {
		return Result{OK: false}
	}
	return Result{OK: false, Report: c.reporter.Err(atom, src, message, children)}
}

// ErrAt reports a failure at pos through the reporter.
func (c *Context) ErrAt(atom Atom, src *Source, message string, pos int, children ...any) Result {
	if c.reporter == nil {
		return Result{OK: false}
	}
	return Result{OK: false, Report: c.reporter.ErrAt(atom, src, message, pos, children)}
}

func (c *Context) set(key memo.Key, entry Entry) {
	c.store.Store(key, entry)
	if c.lrStack.Len() > 0 {
		c.journal = append(c.journal, key)
	}
}

func (c *Context) verifyEntry(atom Atom, src *Source, entry Entry) {
	beg := src.Pos()
	again := atom.Try(src, c)
	advance := src.Pos() - beg
	if again.OK != entry.Result.OK || advance != entry.Advance {
		panic(fmt.Errorf("%w: %s at %d gave ok=%t/+%d, cached ok=%t/+%d",
			ErrNondeterministic, atom, beg, again.OK, advance, entry.Result.OK, entry.Advance))
	}
	src.SetPos(beg)
}

func (c *Context) mark() int {
	return len(c.journal)
}

func (c *Context) rollback(mark int) {
	for _, key := range c.journal[mark:] {
		c.store.Delete(key)
	}
	c.journal = c.journal[:mark]
}

func (c *Context) pushMarker(m *Marker) {
	c.lrStack.Push(m)
}

func (c *Context) popMarker() *Marker {
	m := c.lrStack.Pop()
	if c.lrStack.Len() == 0 {
		c.journal = c.journal[:0]
	}
	return m
}

package atoms_test

import (
	"testing"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/memo"
	"github.com/on-the-ground/packrat_ive_go/report"

	"github.com/stretchr/testify/require"
)

// countingAtom matches a fixed string and counts how often it is tried.
type countingAtom struct {
	id    atoms.ID
	text  string
	calls int
}

func newCounting(text string) *countingAtom {
	return &countingAtom{id: atoms.NewID(), text: text}
}

func (c *countingAtom) ID() atoms.ID { return c.id }

func (c *countingAtom) Try(src *atoms.Source, ctx *atoms.Context) atoms.Result {
	c.calls++
	if src.Matches(c.text) {
		return atoms.Success(src.Consume(len(c.text)))
	}
	return ctx.Err(c, src, "no "+c.text)
}

func (c *countingAtom) String() string { return "counting(" + c.text + ")" }

func contextStores(t *testing.T) map[string]func() memo.Store[atoms.Entry] {
	t.Helper()
	return map[string]func() memo.Store[atoms.Entry]{
		"map":  func() memo.Store[atoms.Entry] { return memo.NewMapStore[atoms.Entry]() },
		"trie": func() memo.Store[atoms.Entry] { return memo.NewTrieStore[atoms.Entry]() },
		"memdb": func() memo.Store[atoms.Entry] {
			s, err := memo.NewMemDBStore[atoms.Entry]()
			require.NoError(t, err)
			return s
		},
	}
}

func run(atom atoms.Atom, input string) (atoms.Result, *atoms.Source) {
	src := atoms.NewSource(input)
	ctx := atoms.NewContext(report.NewTree())
	return ctx.Apply(atom, src), src
}

func causeOf(t *testing.T, res atoms.Result) *report.Cause {
	t.Helper()
	require.False(t, res.OK)
	cause, ok := report.CauseOf(res.Report)
	require.True(t, ok, "failure carries no cause")
	return cause
}

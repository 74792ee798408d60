package peg_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/memo"
	"github.com/on-the-ground/packrat_ive_go/peg"
	"github.com/on-the-ground/packrat_ive_go/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// sum <- sum "+" digit / digit
func sum() atoms.Atom {
	digit := atoms.Range('0', '9')
	s := atoms.NewEntity("sum")
	s.Define(atoms.Alt(atoms.Seq(s, atoms.Str("+"), digit), digit))
	return s
}

func TestParse(t *testing.T) {
	value, err := peg.New(sum()).Parse("1+2")

	require.NoError(t, err)
	assert.Equal(t, []any{"1", "+", "2"}, value)
}

func TestParse_Failure(t *testing.T) {
	_, err := peg.New(sum()).Parse("+")

	require.Error(t, err)
	assert.ErrorIs(t, err, peg.ErrParseFailed)

	var failed *peg.ParseFailed
	require.True(t, errors.As(err, &failed))
	require.NotNil(t, failed.Cause)
	assert.Equal(t, `Expected one of [(sum "+" [0-9]), [0-9]]`, failed.Message)
	assert.Equal(t, failed.Message+" at line 1 char 1.", err.Error())
	assert.Len(t, failed.Cause.Children, 2)
}

func TestParse_UnconsumedInput(t *testing.T) {
	_, err := peg.New(sum()).Parse("1+2\n  x")

	var failed *peg.ParseFailed
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, `Don't know what to do with "\n  x"`, failed.Message)
	assert.Equal(t, 1, failed.Cause.Line)
	assert.Equal(t, 4, failed.Cause.Column)
}

func TestParse_Partial(t *testing.T) {
	value, err := peg.New(sum(), peg.WithPartial()).Parse("1+2 rest")

	require.NoError(t, err)
	assert.Equal(t, []any{"1", "+", "2"}, value)
}

func TestParse_DeepestReporter(t *testing.T) {
	// the trailing "+x" is the real problem, and the deepest failure says so
	p := peg.New(sum(), peg.WithReporter(func() atoms.Reporter { return report.NewDeepest(5) }))

	_, err := p.Parse("1+x")

	var failed *peg.ParseFailed
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, `Don't know what to do with "+x"`, failed.Message)
	require.Len(t, failed.Cause.Children, 1)
	assert.Equal(t, 2, failed.Cause.Children[0].Pos)
}

func TestParse_WithoutReporter(t *testing.T) {
	p := peg.New(sum(), peg.WithReporter(func() atoms.Reporter { return nil }))

	_, err := p.Parse("x")

	var failed *peg.ParseFailed
	require.True(t, errors.As(err, &failed))
	assert.Nil(t, failed.Cause)
	assert.ErrorIs(t, err, peg.ErrParseFailed)
	assert.Equal(t, "parse failed", err.Error())
}

func TestParse_Stores(t *testing.T) {
	stores := map[string]func() memo.Store[atoms.Entry]{
		"map":  memo.NewMapStore[atoms.Entry],
		"trie": func() memo.Store[atoms.Entry] { return memo.NewTrieStore[atoms.Entry]() },
		"memdb": func() memo.Store[atoms.Entry] {
			s, err := memo.NewMemDBStore[atoms.Entry]()
			require.NoError(t, err)
			return s
		},
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			value, err := peg.New(sum(), peg.WithStore(newStore)).Parse("1+2+3")
			require.NoError(t, err)
			assert.Equal(t, []any{[]any{"1", "+", "2"}, "+", "3"}, value)
		})
	}
}

func TestParse_Optimizer(t *testing.T) {
	p := peg.New(atoms.Seq(atoms.Str("foo"), atoms.Str("bar")), peg.WithOptimizer())

	lit, ok := p.Root().(*atoms.Literal)
	require.True(t, ok, "got %T", p.Root())
	assert.Equal(t, "foobar", lit.Text())

	value, err := p.Parse("foobar")
	require.NoError(t, err)
	assert.Equal(t, "foobar", value)

	_, err = p.Parse("foobaz")
	assert.ErrorIs(t, err, peg.ErrParseFailed)
}

func TestParse_OptimizerPreservesResults(t *testing.T) {
	x := atoms.Str("x")
	root := atoms.Seq(x, atoms.Repeat(x, 0, -1))

	plain, err := peg.New(root).Parse("xxx")
	require.NoError(t, err)
	optimized, err := peg.New(root, peg.WithOptimizer()).Parse("xxx")
	require.NoError(t, err)

	assert.Equal(t, plain, optimized)
}

func TestParseWithStats(t *testing.T) {
	// word is tried twice at position 0, the second time from the cache
	word := atoms.NewEntity("word")
	word.Define(atoms.Repeat(atoms.Range('a', 'z'), 1, -1))
	root := atoms.Alt(atoms.Seq(word, atoms.Str("!")), atoms.Seq(word, atoms.Str("?")))
	p := peg.New(root)

	_, first, err := p.ParseWithStats("hey?")
	require.NoError(t, err)
	_, second, err := p.ParseWithStats("hey?")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Hits)
	assert.Positive(t, first.Misses)
	assert.Positive(t, first.Entries)
	assert.GreaterOrEqual(t, first.Span.Duration().Nanoseconds(), int64(0))
	assert.NotEqual(t, first.RunID, second.RunID, "every run gets a fresh context")
	assert.Equal(t, first.Hits, second.Hits)
}

func TestParse_LogsRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := peg.New(sum(), peg.WithLogger(zap.New(core)))

	_, stats, err := p.ParseWithStats("1+2")
	require.NoError(t, err)

	entries := logs.FilterMessage("parse finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, stats.RunID, fields["run"])
	assert.Equal(t, true, fields["ok"])
	assert.Equal(t, int64(3), fields["consumed"])

	// the left-recursive rule logs its growth under the same run
	grown := logs.FilterMessage("grew left-recursive seed").All()
	require.Len(t, grown, 1)
	assert.Equal(t, stats.RunID, grown[0].ContextMap()["run"])
}

func TestParse_DeterminismCheck(t *testing.T) {
	value, err := peg.New(sum(), peg.WithDeterminismCheck()).Parse("1+2")

	require.NoError(t, err)
	assert.Equal(t, []any{"1", "+", "2"}, value)
}

package grammar_test

import (
	"strings"
	"testing"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/grammar"
	"github.com/on-the-ground/packrat_ive_go/peg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const arithmetic = `
Expr   = Expr ( "+" | "-" ) Term | Term .
Term   = Term ( "*" | "/" ) Factor | Factor .
Factor = number | "(" Expr ")" .
number = digit { digit } .
digit  = "0" … "9" .
`

func load(t *testing.T, src, start string) atoms.Atom {
	t.Helper()
	root, err := grammar.Load("test.ebnf", strings.NewReader(src), start)
	require.NoError(t, err)
	return root
}

func TestBuild_LeftRecursiveGrammar(t *testing.T) {
	p := peg.New(load(t, arithmetic, "Expr"))

	for _, input := range []string{"1", "12+3", "1+2*3-4", "(1+2)*34/5"} {
		_, err := p.Parse(input)
		assert.NoError(t, err, input)
	}

	_, err := p.Parse("1+")
	assert.ErrorIs(t, err, peg.ErrParseFailed)
}

func TestBuild_Shapes(t *testing.T) {
	src := `
Greeting = "hi" [ "!" ] ( "a" | "b" ) { "." } .
Empty    = .
`
	root := load(t, src, "Greeting")
	entity, ok := root.(*atoms.Entity)
	require.True(t, ok)
	assert.Equal(t, "Greeting", entity.Name())
	assert.Equal(t, `"hi" "!"? ("a" / "b") "."*`, entity.Body().String())

	value, err := peg.New(root).Parse("hi!b..")
	require.NoError(t, err)
	assert.Equal(t, []any{"hi", []any{"!"}, "b", []any{".", "."}}, value)

	value, err = peg.New(load(t, src, "Empty")).Parse("")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestBuild_UnknownProductions(t *testing.T) {
	g, err := grammar.Parse("bad.ebnf", strings.NewReader(`A = B | "x" | C .`))
	require.NoError(t, err)

	_, err = grammar.Build(g, "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrUnknownProduction)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "B")
	assert.Contains(t, errs[1].Error(), "C")

	_, err = grammar.Build(g, "Missing")
	assert.ErrorIs(t, err, grammar.ErrUnknownProduction)
}

func TestBuild_InvalidRange(t *testing.T) {
	_, err := grammar.Load("bad.ebnf", strings.NewReader(`r = "z" … "a" .`), "r")
	assert.ErrorIs(t, err, grammar.ErrInvalidRange)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := grammar.Parse("bad.ebnf", strings.NewReader(`A = "x" `))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	g, err := grammar.Parse("a.ebnf", strings.NewReader(arithmetic))
	require.NoError(t, err)
	assert.NoError(t, grammar.Verify(g, "Expr"))

	g, err = grammar.Parse("b.ebnf", strings.NewReader(`A = "a" . Unused = "b" .`))
	require.NoError(t, err)
	err = grammar.Verify(g, "A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestCache_GetOrCompile(t *testing.T) {
	cache, err := grammar.NewCache(16)
	require.NoError(t, err)
	defer cache.Close()

	first, err := cache.GetOrCompile("a.ebnf", arithmetic, "Expr")
	require.NoError(t, err)
	again, err := cache.GetOrCompile("a.ebnf", arithmetic, "Expr")
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := cache.GetOrCompile("a.ebnf", arithmetic, "Term")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, "Term", other.String())

	_, err = cache.GetOrCompile("a.ebnf", arithmetic, "Nope")
	assert.ErrorIs(t, err, grammar.ErrUnknownProduction)
}

func TestCache_Optimizer(t *testing.T) {
	cache, err := grammar.NewCache(16, grammar.WithCacheOptimizer())
	require.NoError(t, err)
	defer cache.Close()

	root, err := cache.GetOrCompile("kw.ebnf", `Keyword = "f" "o" "o" .`, "Keyword")
	require.NoError(t, err)

	entity, ok := root.(*atoms.Entity)
	require.True(t, ok)
	lit, ok := entity.Body().(*atoms.Literal)
	require.True(t, ok, "got %T", entity.Body())
	assert.Equal(t, "foo", lit.Text())
}

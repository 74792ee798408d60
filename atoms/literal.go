package atoms

import (
	"fmt"
	"regexp"
	"strconv"
)

// Literal matches a fixed string.
type Literal struct {
	base
	text string
}

func Str(text string) *Literal {
	return &Literal{base: newBase(), text: text}
}

func (l *Literal) Text() string {
	return l.text
}

func (l *Literal) Try(src *Source, ctx *Context) Result {
	if src.Matches(l.text) {
		return Success(src.Consume(len(l.text)))
	}
	if src.Remaining() < len(l.text) {
		return ctx.Err(l, src, "Premature end of input")
	}
	return ctx.Err(l, src, fmt.Sprintf("Expected %q, but got %q", l.text, src.Peek(len(l.text))))
}

func (l *Literal) String() string {
	return strconv.Quote(l.text)
}

func (l *Literal) accept(d dispatcher) { d.literal(l) }

// CharClass matches exactly one rune belonging to a regexp character class.
type CharClass struct {
	base
	class string
	re    *regexp.Regexp
}

// Re builds a CharClass from a class expression such as "[a-z]" or "\\d".
// It panics if the expression does not compile.
func Re(class string) *CharClass {
	return &CharClass{
		base:  newBase(),
		class: class,
		re:    regexp.MustCompile(`\A(?:` + class + `)\z`),
	}
}

// Range matches one rune between lo and hi inclusive.
func Range(lo, hi rune) *CharClass {
	cc := Re(fmt.Sprintf(`[\x{%x}-\x{%x}]`, lo, hi))
	cc.class = fmt.Sprintf("[%c-%c]", lo, hi)
	return cc
}

func (c *CharClass) Try(src *Source, ctx *Context) Result {
	r, size := src.PeekRune()
	if size == 0 {
		return ctx.Err(c, src, "Premature end of input")
	}
	if !c.re.MatchString(string(r)) {
		return ctx.Err(c, src, "Failed to match "+c.class)
	}
	return Success(src.Consume(size))
}

func (c *CharClass) String() string {
	return c.class
}

func (c *CharClass) accept(d dispatcher) { d.charClass(c) }

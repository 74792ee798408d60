package atoms

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Source is the input of one parse run together with its cursor.
type Source struct {
	input string
	pos   int

	// byte offsets of each line start, computed on first use
	lineStarts []int
}

func NewSource(input string) *Source {
	return &Source{input: input}
}

func (s *Source) Pos() int {
	return s.pos
}

// SetPos moves the cursor. Positions outside the input are a caller bug.
func (s *Source) SetPos(pos int) {
	if pos < 0 || pos > len(s.input) {
		panic(fmt.Sprintf("source position %d out of range [0, %d]", pos, len(s.input)))
	}
	s.pos = pos
}

func (s *Source) Len() int {
	return len(s.input)
}

// Remaining is the number of bytes left after the cursor.
func (s *Source) Remaining() int {
	return len(s.input) - s.pos
}

func (s *Source) AtEnd() bool {
	return s.pos >= len(s.input)
}

// Matches reports whether the input continues with text at the cursor.
func (s *Source) Matches(text string) bool {
	return strings.HasPrefix(s.input[s.pos:], text)
}

// Consume returns the next n bytes and advances past them.
func (s *Source) Consume(n int) string {
	end := min(s.pos+n, len(s.input))
	text := s.input[s.pos:end]
	s.pos = end
	return text
}

// Peek returns up to n bytes after the cursor without moving it.
func (s *Source) Peek(n int) string {
	end := min(s.pos+n, len(s.input))
	return s.input[s.pos:end]
}

// PeekRune decodes the rune at the cursor. size is 0 at the end of input.
func (s *Source) PeekRune() (r rune, size int) {
	if s.AtEnd() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.input[s.pos:])
}

// LineAndColumn converts a byte offset to a 1-based line and column. The
// column counts runes, not bytes.
func (s *Source) LineAndColumn(pos int) (line, column int) {
	if s.lineStarts == nil {
		s.lineStarts = []int{0}
		for i := 0; i < len(s.input); i++ {
			if s.input[i] == '\n' {
				s.lineStarts = append(s.lineStarts, i+1)
			}
		}
	}
	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	return idx + 1, utf8.RuneCountInString(s.input[s.lineStarts[idx]:pos]) + 1
}

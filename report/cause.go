// Package report contains the error reporters a parse context can be
// configured with. Both reporters build Cause trees; they differ in what they
// remember on the side.
package report

import (
	"fmt"
	"strings"

	"github.com/on-the-ground/packrat_ive_go/atoms"
)

// Cause describes why an atom failed to match at a position. Children hold
// the failures of the sub-attempts that led to it.
type Cause struct {
	Message  string
	Pos      int
	Line     int
	Column   int
	Children []*Cause
}

func newCause(src *atoms.Source, message string, pos int, children []any) *Cause {
	line, column := src.LineAndColumn(pos)
	c := &Cause{
		Message: message,
		Pos:     pos,
		Line:    line,
		Column:  column,
	}
	for _, child := range children {
		if cc, ok := child.(*Cause); ok && cc != nil {
			c.Children = append(c.Children, cc)
		}
	}
	return c
}

// CauseOf extracts the Cause carried by a failed result's report.
func CauseOf(report any) (*Cause, bool) {
	c, ok := report.(*Cause)
	return c, ok && c != nil
}

func (c *Cause) String() string {
	return fmt.Sprintf("%s at line %d char %d.", c.Message, c.Line, c.Column)
}

// Tree renders the cause and its children as an ascii tree.
func (c *Cause) Tree() string {
	var sb strings.Builder
	c.writeTree(&sb, []bool{true})
	return sb.String()
}

// curved[i] records whether the ancestor at depth i was the last child.
func (c *Cause) writeTree(sb *strings.Builder, curved []bool) {
	if len(curved) > 1 {
		for _, last := range curved[1 : len(curved)-1] {
			if last {
				sb.WriteString("   ")
			} else {
				sb.WriteString("|  ")
			}
		}
		if curved[len(curved)-1] {
			sb.WriteString("`- ")
		} else {
			sb.WriteString("|- ")
		}
	}
	sb.WriteString(c.String())
	sb.WriteByte('\n')
	for i, child := range c.Children {
		child.writeTree(sb, append(curved[:len(curved):len(curved)], i == len(c.Children)-1))
	}
}

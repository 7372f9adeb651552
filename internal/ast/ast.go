package ast

import (
	"fmt"
	"io"
	"strings"
)

// Statement is one node of a parsed program: a *Loop or one of the leaf
// values PointerMove, CellMath, or IO.
//
// A Loop owns its Body; no statement is reachable from two parents.
type Statement interface {
	// Pos returns the source offset of the token that produced the statement.
	Pos() int

	// Symbol returns the source character that the statement stands for; for
	// a Loop that is its opening bracket.
	Symbol() rune

	statement()
}

// Direction selects between the two variants of PointerMove and CellMath.
type Direction uint8

// The two directions; pointer moves use Left/Right while cell math uses
// Increment/Decrement.
const (
	Left Direction = iota
	Right

	Decrement = Left
	Increment = Right
)

// Mode selects between reading and writing for IO statements.
type Mode uint8

// IO modes.
const (
	In Mode = iota
	Out
)

// Loop repeats its body while the current cell is non-zero.
type Loop struct {
	Offset int
	Close  int // offset of the matching close bracket
	Body   []Statement
}

// PointerMove moves the data pointer by one cell.
type PointerMove struct {
	Offset int
	Dir    Direction
}

// CellMath adds or subtracts one from the current cell.
type CellMath struct {
	Offset int
	Dir    Direction
}

// IO reads into, or writes out of, the current cell.
type IO struct {
	Offset int
	Mode   Mode
}

func (*Loop) statement()       {}
func (PointerMove) statement() {}
func (CellMath) statement()    {}
func (IO) statement()          {}

func (lp *Loop) Pos() int       { return lp.Offset }
func (pm PointerMove) Pos() int { return pm.Offset }
func (cm CellMath) Pos() int    { return cm.Offset }
func (st IO) Pos() int          { return st.Offset }

func (*Loop) Symbol() rune { return '[' }

func (pm PointerMove) Symbol() rune {
	if pm.Dir == Left {
		return '<'
	}
	return '>'
}

func (cm CellMath) Symbol() rune {
	if cm.Dir == Decrement {
		return '-'
	}
	return '+'
}

func (st IO) Symbol() rune {
	if st.Mode == In {
		return ','
	}
	return '.'
}

func (lp *Loop) String() string {
	return fmt.Sprintf("loop[%d]", len(lp.Body))
}

func (pm PointerMove) String() string {
	if pm.Dir == Left {
		return "left"
	}
	return "right"
}

func (cm CellMath) String() string {
	if cm.Dir == Decrement {
		return "dec"
	}
	return "inc"
}

func (st IO) String() string {
	if st.Mode == In {
		return "in"
	}
	return "out"
}

// Source renders statements back into canonical program text; any illegal
// characters in the original source are absent.
func Source(stmts []Statement) string {
	var sb strings.Builder
	writeSource(&sb, stmts)
	return sb.String()
}

func writeSource(sb *strings.Builder, stmts []Statement) {
	for _, stmt := range stmts {
		sb.WriteRune(stmt.Symbol())
		if lp, ok := stmt.(*Loop); ok {
			writeSource(sb, lp.Body)
			sb.WriteByte(']')
		}
	}
}

// Format writes an indented tree dump of statements, one per line.
func Format(w io.Writer, stmts []Statement) error {
	return format(w, stmts, "")
}

func format(w io.Writer, stmts []Statement, indent string) error {
	for _, stmt := range stmts {
		if _, err := fmt.Fprintf(w, "%v@%d %v\n", indent, stmt.Pos(), stmt); err != nil {
			return err
		}
		if lp, ok := stmt.(*Loop); ok {
			if err := format(w, lp.Body, indent+"  "); err != nil {
				return err
			}
		}
	}
	return nil
}

// Count returns the total number of statements in the tree, loops included,
// and the deepest loop nesting.
func Count(stmts []Statement) (n, depth int) {
	for _, stmt := range stmts {
		n++
		if lp, ok := stmt.(*Loop); ok {
			m, d := Count(lp.Body)
			n += m
			if d+1 > depth {
				depth = d + 1
			}
		}
	}
	return n, depth
}

package token

import (
	"fmt"

	"github.com/jcorbin/gobf/internal/runeio"
)

// Kind classifies a Token; it is a closed enumeration.
type Kind uint8

const (
	Illegal Kind = iota // any character outside the alphabet
	EOF                 // end of input, always the last token scanned

	PointerLeft  // <
	PointerRight // >
	Increment    // +
	Decrement    // -
	Read         // ,
	Write        // .
	LoopOpen     // [
	LoopClose    // ]

	numKinds
)

var kindNames = [numKinds]string{
	Illegal:      "illegal",
	EOF:          "eof",
	PointerLeft:  "pointer-left",
	PointerRight: "pointer-right",
	Increment:    "increment",
	Decrement:    "decrement",
	Read:         "read",
	Write:        "write",
	LoopOpen:     "loop-open",
	LoopClose:    "loop-close",
}

// Symbols maps every alphabet character to its Kind.
var Symbols = map[rune]Kind{
	'<': PointerLeft,
	'>': PointerRight,
	'+': Increment,
	'-': Decrement,
	',': Read,
	'.': Write,
	'[': LoopOpen,
	']': LoopClose,
}

// Lookup returns the Kind of a single source character, Illegal if it is not
// one of the eight alphabet symbols.
func Lookup(r rune) Kind {
	if kind, ok := Symbols[r]; ok {
		return kind
	}
	return Illegal
}

func (kind Kind) String() string {
	if kind < numKinds {
		return kindNames[kind]
	}
	return fmt.Sprintf("Kind(%d)", uint8(kind))
}

// Valid returns true only for the defined kinds.
func (kind Kind) Valid() bool { return kind < numKinds }

// Token is one scanned source character. Tokens are plain values and never
// mutated once scanned.
type Token struct {
	Kind    Kind
	Literal rune
	Offset  int // zero-based character index, not byte index
}

// Format renders the token like "increment '+' @3"; the %v verb without
// flags omits the offset.
func (tok Token) Format(f fmt.State, c rune) {
	if tok.Kind == EOF {
		fmt.Fprintf(f, "%v", tok.Kind)
	} else {
		fmt.Fprintf(f, "%v %q", tok.Kind, runeio.Name(tok.Literal))
	}
	if c != 'v' || f.Flag('+') {
		fmt.Fprintf(f, " @%d", tok.Offset)
	}
}

func (tok Token) String() string { return fmt.Sprintf("%+v", tok) }

// Package scanner turns program source into tokens.
//
// Every source character becomes exactly one token: there is no whitespace
// skipping and no multi-character token, so characters outside the alphabet
// come out as token.Illegal for the parser to drop.
package scanner

import (
	"errors"
	"unicode/utf8"

	"github.com/jcorbin/gobf/internal/token"
)

// ErrEmptySource is returned when asked to scan a zero length program.
var ErrEmptySource = errors.New("empty source")

// Scanner produces tokens lazily from a source string.
type Scanner struct {
	src    string
	pos    int // byte position of the next character
	offset int // character index of the next character
}

// New returns a scanner over src, or ErrEmptySource if src is empty.
func New(src string) (*Scanner, error) {
	if len(src) == 0 {
		return nil, ErrEmptySource
	}
	return &Scanner{src: src}, nil
}

// Next returns the next token; once the source is exhausted it keeps
// returning an EOF token at the final offset.
func (sc *Scanner) Next() token.Token {
	if sc.pos >= len(sc.src) {
		return token.Token{Kind: token.EOF, Offset: sc.offset}
	}
	r, n := utf8.DecodeRuneInString(sc.src[sc.pos:])
	tok := token.Token{
		Kind:    token.Lookup(r),
		Literal: r,
		Offset:  sc.offset,
	}
	sc.pos += n
	sc.offset++
	return tok
}

// Done returns true after the last character has been scanned.
func (sc *Scanner) Done() bool { return sc.pos >= len(sc.src) }

// Scan returns all tokens in src, terminated by exactly one EOF token.
func Scan(src string) ([]token.Token, error) {
	sc, err := New(src)
	if err != nil {
		return nil, err
	}
	toks := make([]token.Token, 0, utf8.RuneCountInString(src)+1)
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// Package parser builds a statement tree from scanned tokens.
//
// Parsing is recursive descent keyed on token kind: a loop-open token parses a
// nested body up to its matching loop-close, so recursion depth equals bracket
// nesting depth. Illegal tokens are dropped and recorded.
package parser

import (
	"fmt"

	"github.com/jcorbin/gobf/internal/ast"
	"github.com/jcorbin/gobf/internal/token"
)

// ErrorKind classifies structural parse errors; it is itself an error so
// that errors.Is(err, UnmatchedLoopClose) works on any returned *Error.
type ErrorKind uint8

const (
	UnmatchedLoopOpen ErrorKind = iota + 1
	UnmatchedLoopClose
)

func (kind ErrorKind) Error() string {
	switch kind {
	case UnmatchedLoopOpen:
		return "unmatched loop open"
	case UnmatchedLoopClose:
		return "unmatched loop close"
	}
	return fmt.Sprintf("parse error kind %d", uint8(kind))
}

// Error is a structural parse error located at the offending bracket.
type Error struct {
	Kind   ErrorKind
	Offset int
}

func (err *Error) Error() string { return fmt.Sprintf("%v at offset %d", err.Kind, err.Offset) }
func (err *Error) Unwrap() error { return err.Kind }

// Parser holds the state of one parse; its Illegal record survives until the
// next call to Parse.
type Parser struct {
	toks []token.Token
	pos  int

	// Illegal collects every token dropped from the last parse.
	Illegal []token.Token
}

// Parse parses a full token stream; see Parser.Parse.
func Parse(toks []token.Token) ([]ast.Statement, error) {
	var p Parser
	return p.Parse(toks)
}

// Parse consumes toks up to and including the first EOF token (or the end of
// the slice) and returns the top level statements. No partial tree is returned
// along with an error.
func (p *Parser) Parse(toks []token.Token) ([]ast.Statement, error) {
	p.toks, p.pos = toks, 0
	p.Illegal = p.Illegal[:0]

	stmts, end, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if end.Kind == token.LoopClose {
		return nil, &Error{UnmatchedLoopClose, end.Offset}
	}
	return stmts, nil
}

func (p *Parser) next() token.Token {
	if p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		p.pos++
		return tok
	}
	offset := 0
	if n := len(p.toks); n > 0 {
		offset = p.toks[n-1].Offset + 1
	}
	return token.Token{Kind: token.EOF, Offset: offset}
}

// parseBody parses statements until a loop-close or EOF token, returning that
// terminating token.
func (p *Parser) parseBody() (stmts []ast.Statement, end token.Token, err error) {
	for {
		tok := p.next()
		switch tok.Kind {
		case token.EOF, token.LoopClose:
			return stmts, tok, nil

		case token.LoopOpen:
			body, closer, err := p.parseBody()
			if err != nil {
				return nil, closer, err
			}
			if closer.Kind != token.LoopClose {
				return nil, closer, &Error{UnmatchedLoopOpen, tok.Offset}
			}
			stmts = append(stmts, &ast.Loop{
				Offset: tok.Offset,
				Close:  closer.Offset,
				Body:   body,
			})

		case token.PointerLeft:
			stmts = append(stmts, ast.PointerMove{Offset: tok.Offset, Dir: ast.Left})
		case token.PointerRight:
			stmts = append(stmts, ast.PointerMove{Offset: tok.Offset, Dir: ast.Right})
		case token.Increment:
			stmts = append(stmts, ast.CellMath{Offset: tok.Offset, Dir: ast.Increment})
		case token.Decrement:
			stmts = append(stmts, ast.CellMath{Offset: tok.Offset, Dir: ast.Decrement})
		case token.Read:
			stmts = append(stmts, ast.IO{Offset: tok.Offset, Mode: ast.In})
		case token.Write:
			stmts = append(stmts, ast.IO{Offset: tok.Offset, Mode: ast.Out})

		default:
			p.Illegal = append(p.Illegal, tok)
		}
	}
}

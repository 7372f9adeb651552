package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobf/internal/scanner"
	"github.com/jcorbin/gobf/internal/token"
)

func Test_Scan(t *testing.T) {
	for _, tc := range []struct {
		name   string
		src    string
		expect []token.Token
	}{
		{
			name: "all tokens",
			src:  "+<>-,.[]",
			expect: []token.Token{
				{Kind: token.Increment, Literal: '+', Offset: 0},
				{Kind: token.PointerLeft, Literal: '<', Offset: 1},
				{Kind: token.PointerRight, Literal: '>', Offset: 2},
				{Kind: token.Decrement, Literal: '-', Offset: 3},
				{Kind: token.Read, Literal: ',', Offset: 4},
				{Kind: token.Write, Literal: '.', Offset: 5},
				{Kind: token.LoopOpen, Literal: '[', Offset: 6},
				{Kind: token.LoopClose, Literal: ']', Offset: 7},
				{Kind: token.EOF, Literal: 0, Offset: 8},
			},
		},
		{
			name: "illegal",
			src:  "ab",
			expect: []token.Token{
				{Kind: token.Illegal, Literal: 'a', Offset: 0},
				{Kind: token.Illegal, Literal: 'b', Offset: 1},
				{Kind: token.EOF, Literal: 0, Offset: 2},
			},
		},
		{
			name: "whitespace is not skipped",
			src:  "+ +\n",
			expect: []token.Token{
				{Kind: token.Increment, Literal: '+', Offset: 0},
				{Kind: token.Illegal, Literal: ' ', Offset: 1},
				{Kind: token.Increment, Literal: '+', Offset: 2},
				{Kind: token.Illegal, Literal: '\n', Offset: 3},
				{Kind: token.EOF, Literal: 0, Offset: 4},
			},
		},
		{
			name: "offsets count characters",
			src:  "λ+é-",
			expect: []token.Token{
				{Kind: token.Illegal, Literal: 'λ', Offset: 0},
				{Kind: token.Increment, Literal: '+', Offset: 1},
				{Kind: token.Illegal, Literal: 'é', Offset: 2},
				{Kind: token.Decrement, Literal: '-', Offset: 3},
				{Kind: token.EOF, Literal: 0, Offset: 4},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := scanner.Scan(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, toks)
		})
	}
}

func Test_Scan_empty(t *testing.T) {
	toks, err := scanner.Scan("")
	assert.Equal(t, scanner.ErrEmptySource, err)
	assert.Nil(t, toks)

	sc, err := scanner.New("")
	assert.Equal(t, scanner.ErrEmptySource, err)
	assert.Nil(t, sc)
}

func Test_Scan_pure(t *testing.T) {
	const src = "++[>+<-]>. hello, world!"
	a, err := scanner.Scan(src)
	require.NoError(t, err)
	b, err := scanner.Scan(src)
	require.NoError(t, err)
	assert.Equal(t, a, b, "expected scanning to be repeatable")
}

func Test_Scanner_next(t *testing.T) {
	sc, err := scanner.New("[]")
	require.NoError(t, err)

	assert.False(t, sc.Done())
	assert.Equal(t, token.Token{Kind: token.LoopOpen, Literal: '[', Offset: 0}, sc.Next())
	assert.Equal(t, token.Token{Kind: token.LoopClose, Literal: ']', Offset: 1}, sc.Next())
	assert.True(t, sc.Done())
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.Token{Kind: token.EOF, Literal: 0, Offset: 2}, sc.Next(), "expected sticky EOF")
	}
}

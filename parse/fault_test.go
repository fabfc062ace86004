package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/parsley/lex"
)

func TestRunRecoversInfiniteLoop(t *testing.T) {
	_, err := ParseString(ZeroOrMore(Succeed(1)), charLexer, "")

	var loop *InfiniteLoopError
	require.ErrorAs(t, err, &loop)
	assert.Equal(t, lex.Position{Line: 1, Column: 1}, loop.Position)
	assert.EqualError(t, err, "Parser encountered a potential infinite loop at position (1, 1).")
}

func TestRunReportsLexingFailures(t *testing.T) {
	digits := OneOrMore(Token(digit))
	lexer := lex.New(digit)

	_, err := ParseString(digits, lexer, "12x")
	var unrecognized *lex.UnrecognizedError
	require.ErrorAs(t, err, &unrecognized)
	assert.Equal(t, lex.Position{Line: 1, Column: 3}, unrecognized.Position)

	_, err = ParseString(digits, lexer, "x")
	assert.ErrorAs(t, err, &unrecognized)
}

func TestRunReturnsParseFailuresInReply(t *testing.T) {
	r, err := ParseString(AB, charLexer, "A!")
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Equal(t, "(1, 2): B expected", r.Message())
}

func TestRunRepanicsOtherPanics(t *testing.T) {
	boom := errors.New("boom")
	never := func(TokenStream) Reply[int] { panic(boom) }

	assert.PanicsWithValue(t, boom, func() {
		_, _ = ParseString(Parser[int](never), charLexer, "")
	})
}

func TestFaultUnwraps(t *testing.T) {
	f := &Fault{Err: &UnboundRuleError{Name: "x"}}
	var unbound *UnboundRuleError
	assert.True(t, errors.As(f, &unbound))
	assert.Equal(t, "rule x is used before it was defined", f.Error())
}

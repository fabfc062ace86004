package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/parsley/lex"
)

var (
	charLexer = lex.NewCharLexer()

	digit  = lex.MustPattern("Digit", `[0-9]`)
	letter = lex.MustPattern("Letter", `[a-zA-Z]`)
	symbol = lex.MustPattern("Symbol", `.`)

	sampleLexer = lex.New(digit, letter, symbol)
)

var (
	A     = Literal("A")
	B     = Literal("B")
	COMMA = Literal(",")

	AB = Then(A, func(a lex.Token) Parser[string] {
		return Map(B, func(b lex.Token) string { return a.Literal + b.Literal })
	})
)

func chars(t *testing.T, input string) TokenStream {
	t.Helper()
	in, err := NewTokenStream(charLexer.Scan(input))
	require.NoError(t, err)
	return in
}

func unparsed(s TokenStream) string {
	var b strings.Builder
	for _, tok := range s.Rest() {
		b.WriteString(tok.Literal)
	}
	return b.String()
}

func assertParses[T any](t *testing.T, r Reply[T], value T, rest string) {
	t.Helper()
	require.True(t, r.Success, "unexpected failure: %s", r.Message())
	assert.Equal(t, value, r.Value)
	assert.Equal(t, rest, unparsed(r.Remaining))
}

func assertFails[T any](t *testing.T, r Reply[T], message, rest string) {
	t.Helper()
	require.False(t, r.Success, "unexpected success with %v", r.Value)
	assert.Equal(t, message, r.Message())
	assert.Equal(t, rest, unparsed(r.Remaining))
}

func literal(tok lex.Token) string { return tok.Literal }

func TestToken(t *testing.T) {
	in, err := NewTokenStream(sampleLexer.Scan("1a"))
	require.NoError(t, err)

	r := Token(digit)(in)
	require.True(t, r.Success)
	assert.Equal(t, "1", r.Value.Literal)
	assert.Equal(t, digit, r.Value.Kind)
	assert.Equal(t, "a", unparsed(r.Remaining))

	assertFails(t, Token(digit)(r.Remaining), "(1, 2): Digit expected", "a")
	assertParses(t, Map(Token(letter), literal)(r.Remaining), "a", "")
}

func TestLiteral(t *testing.T) {
	assertParses(t, Map(A, literal)(chars(t, "AB")), "A", "B")
	assertFails(t, A(chars(t, "BA")), "(1, 1): A expected", "BA")
}

func TestEndOfInput(t *testing.T) {
	r := EndOfInput()(chars(t, ""))
	require.True(t, r.Success)
	assert.True(t, r.Value.IsEndOfInput())
	assert.Equal(t, "", r.Message())

	assertFails(t, EndOfInput()(chars(t, "!")), "(1, 1): end of input expected", "!")
}

func TestFailAndSucceed(t *testing.T) {
	assertFails(t, Fail[int]()(chars(t, "AB")), "(1, 1): Parse error.", "AB")

	r := Succeed(42)(chars(t, "AB"))
	assertParses(t, r, 42, "AB")
	assert.Empty(t, r.Errors)
}

func TestThenMapSkip(t *testing.T) {
	assertParses(t, AB(chars(t, "AB!")), "AB", "!")
	assertFails(t, AB(chars(t, "A!")), "(1, 2): B expected", "!")
	assertFails(t, AB(chars(t, "!")), "(1, 1): A expected", "!")

	assertParses(t, Map(Skip(A, B), literal)(chars(t, "AB")), "B", "")
	assertFails(t, Skip(A, B)(chars(t, "AA")), "(1, 2): B expected", "A")
}

func TestComplete(t *testing.T) {
	assertParses(t, Map(Complete(A), literal)(chars(t, "A")), "A", "")
	assertFails(t, Complete(A)(chars(t, "AB")), "(1, 2): end of input expected", "B")
}

func TestChoice(t *testing.T) {
	AorB := Map(Choice(A, B), literal)

	assertParses(t, AorB(chars(t, "A!")), "A", "!")
	assertParses(t, AorB(chars(t, "B!")), "B", "!")
	assertFails(t, AorB(chars(t, "")), "(1, 1): A or B expected", "")
	assertFails(t, Choice(A, B, COMMA)(chars(t, "!")), "(1, 1): A, B or , expected", "!")
}

func TestChoiceCommitsToConsumingAlternative(t *testing.T) {
	A := Map(A, literal)
	assertFails(t, Choice(AB, A)(chars(t, "A!")), "(1, 2): B expected", "!")
	assertParses(t, Choice(A, AB)(chars(t, "AB")), "A", "B")
}

func TestChoiceNeverRunsAlternativeAfterConsumingFailure(t *testing.T) {
	var neverExecuted Parser[string] = func(TokenStream) Reply[string] {
		panic("Parser 'NeverExecuted' should not be executed.")
	}
	assertFails(t, Choice(AB, neverExecuted)(chars(t, "A!")), "(1, 2): B expected", "!")
	assertParses(t, Choice(AB, neverExecuted)(chars(t, "AB")), "AB", "")
}

func TestChoiceWithBacktracking(t *testing.T) {
	A := Map(A, literal)
	B := Map(B, literal)

	assertParses(t, Choice(Attempt(AB), A)(chars(t, "A!")), "A", "!")
	assertFails(t, Choice(Attempt(AB), B)(chars(t, "A!")), "(1, 1): B expected [(1, 2): B expected]", "A!")
}

// A non-consuming success does not end the choice: later alternatives still
// run, their expectations are kept as advisory errors, and a later consumer
// wins. Stopping at the first success would report "A expected" below and
// leave "B" unparsed in the second case.
func TestChoiceKeepsAdvisoryErrors(t *testing.T) {
	A := Map(A, literal)
	B := Map(B, literal)

	r := Choice(A, Succeed("none"), B)(chars(t, ""))
	assertParses(t, r, "none", "")
	assert.Equal(t, "(1, 1): A or B expected", r.Message())

	assertParses(t, Choice(Succeed("none"), B)(chars(t, "B")), "B", "")
}

func TestChoiceOfNothingFails(t *testing.T) {
	assertFails(t, Choice[int]()(chars(t, "A")), "(1, 1): Parse error.", "A")
}

func TestOptional(t *testing.T) {
	assertParses(t, Optional(AB)(chars(t, "AB.")), "AB", ".")

	r := Optional(AB)(chars(t, "."))
	assertParses(t, r, "", ".")
	assert.Equal(t, "(1, 1): A expected", r.Message())

	assertFails(t, Optional(AB)(chars(t, "AC.")), "(1, 2): B expected", "C.")
}

func TestDefault(t *testing.T) {
	assertParses(t, Default(AB, "none")(chars(t, "AB")), "AB", "")
	assertParses(t, Default(AB, "none")(chars(t, "B")), "none", "B")
}

func TestAttempt(t *testing.T) {
	assertParses(t, Attempt(AB)(chars(t, "AB!")), "AB", "!")
	assertFails(t, Attempt(AB)(chars(t, "!")), "(1, 1): A expected", "!")
	assertFails(t, Attempt(AB)(chars(t, "A!")), "(1, 1): [(1, 2): B expected]", "A!")
}

func TestLabel(t *testing.T) {
	assertFails(t, Label(A, "letter A")(chars(t, "!")), "(1, 1): letter A expected", "!")
	assertFails(t, Label(AB, "AB pair")(chars(t, "A!")), "(1, 2): B expected", "!")

	r := Label(Succeed(1), "nothing")(chars(t, ""))
	assertParses(t, r, 1, "")
	assert.Equal(t, "(1, 1): nothing expected", r.Message())
}

func TestZeroOrMore(t *testing.T) {
	r := ZeroOrMore(AB)(chars(t, ""))
	require.True(t, r.Success)
	assert.Empty(t, r.Value)
	assert.Equal(t, "(1, 1): A expected", r.Message())

	assertParses(t, ZeroOrMore(AB)(chars(t, "AB")), []string{"AB"}, "")
	assertParses(t, ZeroOrMore(AB)(chars(t, "ABAB!")), []string{"AB", "AB"}, "!")
	assertFails(t, ZeroOrMore(AB)(chars(t, "ABABA!")), "(1, 6): B expected", "!")
}

func TestZeroOrMoreDetectsInfiniteLoop(t *testing.T) {
	assert.PanicsWithError(t, "Parser encountered a potential infinite loop at position (1, 1).", func() {
		ZeroOrMore(Succeed(1))(chars(t, ""))
	})
}

func TestOneOrMore(t *testing.T) {
	assertFails(t, OneOrMore(AB)(chars(t, "")), "(1, 1): A expected", "")
	assertParses(t, OneOrMore(AB)(chars(t, "AB!")), []string{"AB"}, "!")
	assertParses(t, OneOrMore(AB)(chars(t, "ABAB")), []string{"AB", "AB"}, "")
	assertFails(t, OneOrMore(AB)(chars(t, "ABA!")), "(1, 4): B expected", "!")
}

func TestZeroOrMoreSep(t *testing.T) {
	r := ZeroOrMoreSep(AB, COMMA)(chars(t, ""))
	require.True(t, r.Success)
	assert.Empty(t, r.Value)

	assertParses(t, ZeroOrMoreSep(AB, COMMA)(chars(t, "AB")), []string{"AB"}, "")
	assertParses(t, ZeroOrMoreSep(AB, COMMA)(chars(t, "AB,AB!")), []string{"AB", "AB"}, "!")
	assertFails(t, ZeroOrMoreSep(AB, COMMA)(chars(t, "AB,")), "(1, 4): A expected", "")
	assertFails(t, ZeroOrMoreSep(AB, COMMA)(chars(t, "AB,A")), "(1, 5): B expected", "")
}

func TestOneOrMoreSep(t *testing.T) {
	assertFails(t, OneOrMoreSep(AB, COMMA)(chars(t, "")), "(1, 1): A expected", "")
	assertParses(t, OneOrMoreSep(AB, COMMA)(chars(t, "AB,AB,AB")), []string{"AB", "AB", "AB"}, "")
	assertFails(t, OneOrMoreSep(AB, COMMA)(chars(t, "AB,!")), "(1, 4): A expected", "!")
}

func TestBetween(t *testing.T) {
	AbA := Map(Between(A, B, A), literal)

	assertParses(t, AbA(chars(t, "ABA!")), "B", "!")
	assertFails(t, AbA(chars(t, "")), "(1, 1): A expected", "")
	assertFails(t, AbA(chars(t, "A")), "(1, 2): B expected", "")
	assertFails(t, AbA(chars(t, "AB")), "(1, 3): A expected", "")
}

func TestSampleLexerGrammar(t *testing.T) {
	// identifier = letter { letter | digit }
	ident := Then(Token(letter), func(first lex.Token) Parser[string] {
		return Map(ZeroOrMore(Choice(Token(letter), Token(digit))), func(rest []lex.Token) string {
			s := first.Literal
			for _, tok := range rest {
				s += tok.Literal
			}
			return s
		})
	})
	list := Complete(OneOrMoreSep(ident, Literal(",")))

	r, err := ParseString(list, sampleLexer, "a1,bc2,d")
	require.NoError(t, err)
	assertParses(t, r, []string{"a1", "bc2", "d"}, "")

	r, err = ParseString(list, sampleLexer, "a1,2")
	require.NoError(t, err)
	assertFails(t, r, "(1, 4): Letter expected", "2")
}

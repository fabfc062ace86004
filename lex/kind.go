package lex

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// ErrKeywordNotLetters is returned when a keyword contains anything other
// than letters.
var ErrKeywordNotLetters = errors.New("keywords may only contain letters")

// TokenKind is a named lexical rule. parse.Token matches kinds with ==,
// so implementations should be pointer types.
type TokenKind interface {
	// Name identifies the kind in tokens and in error messages.
	Name() string
	// Skippable kinds are consumed by the lexer but never emitted.
	Skippable() bool
	// TryMatch attempts to match at the text's current offset. On success
	// the token carries this kind, the text's position and the matched
	// literal.
	TryMatch(text Text) (Token, bool)
}

// KindOption configures a token kind.
type KindOption func(*kind)

// Skip marks a kind as skippable.
func Skip() KindOption {
	return func(k *kind) {
		k.skippable = true
	}
}

// Named overrides the name of a keyword or operator, which is otherwise
// the word or symbol itself.
func Named(name string) KindOption {
	return func(k *kind) {
		k.name = name
	}
}

type kind struct {
	name      string
	skippable bool
}

func (k *kind) Name() string    { return k.name }
func (k *kind) Skippable() bool { return k.skippable }
func (k *kind) String() string  { return k.name }

// Pattern is a kind matched by a regular expression.
type Pattern struct {
	kind
	re *regexp.Regexp
}

// NewPattern compiles expr into a kind called name.
//
// The expression only sees the input from the current offset on: ^ and \A
// match at the offset, and \b there does not look at the preceding
// character.
func NewPattern(name, expr string, opts ...KindOption) (*Pattern, error) {
	re, err := anchor(expr)
	if err != nil {
		return nil, fmt.Errorf("token kind %s: %w", name, err)
	}
	p := &Pattern{kind: kind{name: name}, re: re}
	for _, opt := range opts {
		opt(&p.kind)
	}
	return p, nil
}

// MustPattern is like NewPattern but panics if expr does not compile.
// It simplifies declaring kinds as package variables.
func MustPattern(name, expr string, opts ...KindOption) *Pattern {
	p, err := NewPattern(name, expr, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) TryMatch(text Text) (Token, bool) {
	return produce(p, text, text.Match(p.re))
}

// Keyword matches a word of letters that is not immediately followed by
// another word character (a letter, a digit or '_'), so "foo" does not
// match the start of "foobar".
type Keyword struct {
	Pattern
}

// NewKeyword returns a keyword kind named after word.
func NewKeyword(word string, opts ...KindOption) (*Keyword, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: %q", ErrKeywordNotLetters, word)
	}
	for _, ch := range word {
		if !unicode.IsLetter(ch) {
			return nil, fmt.Errorf("%w: %q", ErrKeywordNotLetters, word)
		}
	}
	p, err := NewPattern(word, regexp.QuoteMeta(word), opts...)
	if err != nil {
		return nil, err
	}
	return &Keyword{Pattern: *p}, nil
}

// MustKeyword is like NewKeyword but panics on an invalid word.
func MustKeyword(word string, opts ...KindOption) *Keyword {
	k, err := NewKeyword(word, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

// TryMatch reports the keyword itself, not the embedded pattern, as the
// token's kind.
func (k *Keyword) TryMatch(text Text) (Token, bool) {
	m := text.Match(k.re)
	if m.Success {
		// regexp's \b only knows ASCII word characters
		next, _ := utf8.DecodeRuneInString(text.Advance(len(m.Value)).Rest())
		if isWordRune(next) {
			m = MatchResult{}
		}
	}
	return produce(k, text, m)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Operator matches a fixed symbol literally.
type Operator struct {
	kind
	symbol string
}

// NewOperator returns an operator kind named after its symbol.
func NewOperator(symbol string, opts ...KindOption) *Operator {
	o := &Operator{kind: kind{name: symbol}, symbol: symbol}
	for _, opt := range opts {
		opt(&o.kind)
	}
	return o
}

func (o *Operator) TryMatch(text Text) (Token, bool) {
	if peek := text.Peek(len(o.symbol)); peek == o.symbol {
		return produce(o, text, MatchResult{Success: true, Value: peek})
	}
	return produce(o, text, MatchResult{})
}

type endOfInput struct {
	name string
}

func (e *endOfInput) Name() string                { return e.name }
func (e *endOfInput) Skippable() bool             { return false }
func (e *endOfInput) TryMatch(Text) (Token, bool) { return Token{}, false }
func (e *endOfInput) String() string              { return e.name }

// EndOfInput is the kind of the synthetic token that terminates every
// token sequence. It never matches text.
var EndOfInput TokenKind = &endOfInput{name: "end of input"}

// produce turns a match into a token. Empty matches are treated as failures:
// a kind that matches nothing could never move the lexer forward.
func produce(k TokenKind, text Text, m MatchResult) (Token, bool) {
	if !m.Success || m.Value == "" {
		return Token{}, false
	}
	return Token{Kind: k, Position: text.Position(), Literal: m.Value}, true
}

package lex

import (
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

// UnrecognizedError reports input that no TokenKind matches.
type UnrecognizedError struct {
	Position Position
	Char     rune
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("%s: unrecognized character %q", e.Position, e.Char)
}

// Lexer holds an ordered list of token kinds.
type Lexer struct {
	kinds []TokenKind
}

// New returns a lexer trying kinds in the given order.
func New(kinds ...TokenKind) *Lexer {
	return &Lexer{kinds: append([]TokenKind(nil), kinds...)}
}

// NewCharLexer returns a lexer producing one token of kind Character for
// every character of its input.
func NewCharLexer() *Lexer {
	return New(Character)
}

// Character matches any single character, newlines included.
var Character = MustPattern("Character", `(?s).`)

// Kinds returns the lexer's token kinds in declaration order.
func (l *Lexer) Kinds() []TokenKind {
	return append([]TokenKind(nil), l.kinds...)
}

// Scan returns a scanner over input.
func (l *Lexer) Scan(input string) *Scanner {
	return &Scanner{kinds: l.kinds, text: NewText(input)}
}

// Tokenize returns the token sequence of input. Each iteration relexes
// from the start. A lexing failure is yielded as the final pair.
func (l *Lexer) Tokenize(input string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := l.Scan(input)
		for {
			tok, err := s.NextToken()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// All lexes input completely. It returns the tokens read before a failure
// together with the error.
func (l *Lexer) All(input string) ([]Token, error) {
	var tokens []Token
	for tok, err := range l.Tokenize(input) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Scanner produces tokens one at a time.
type Scanner struct {
	kinds []TokenKind
	text  Text
	done  bool
}

// NextToken returns the next token that is not skippable. At the end of the
// input it returns a token of kind EndOfInput once; later calls return
// io.EOF.
func (s *Scanner) NextToken() (Token, error) {
	if s.done {
		return Token{}, io.EOF
	}
	for !s.text.EndOfInput() {
		tok, ok := s.match()
		if !ok {
			ch, _ := utf8.DecodeRuneInString(s.text.Rest())
			s.done = true
			return Token{}, &UnrecognizedError{Position: s.text.Position(), Char: ch}
		}
		s.text = s.text.Advance(len(tok.Literal))
		if !tok.Kind.Skippable() {
			return tok, nil
		}
	}
	s.done = true
	return Token{Kind: EndOfInput, Position: s.text.Position()}, nil
}

func (s *Scanner) match() (Token, bool) {
	for _, k := range s.kinds {
		if tok, ok := k.TryMatch(s.text); ok {
			return tok, true
		}
	}
	return Token{}, false
}

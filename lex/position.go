// Package lex turns raw text into a lazy sequence of tokens.
//
// A Lexer is an ordered list of TokenKind rules. At every offset the rules
// are tried in declaration order and the first one that matches produces
// the next token. Kinds marked skippable (whitespace, comments) advance the
// input without appearing in the output. The sequence always ends with a
// single token of kind EndOfInput.
package lex

import "fmt"

// Position is a 1-based line and column in the input text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Line, p.Column)
}

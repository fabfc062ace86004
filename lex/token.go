package lex

import "fmt"

// Token is a lexeme recognized by a TokenKind.
type Token struct {
	Kind     TokenKind
	Position Position
	Literal  string
}

// IsEndOfInput reports whether t is the synthetic token terminating a
// token sequence.
func (t Token) IsEndOfInput() bool {
	return t.Kind == EndOfInput
}

func (t Token) String() string {
	name := "<nil>"
	if t.Kind != nil {
		name = t.Kind.Name()
	}
	return fmt.Sprintf("%s %s %q", t.Position, name, t.Literal)
}

package parse

import (
	"io"

	"github.com/dhamidi/parsley/lex"
)

// TokenSource produces tokens one at a time, ending with a token of kind
// lex.EndOfInput. *lex.Scanner implements it.
type TokenSource interface {
	NextToken() (lex.Token, error)
}

// TokenStream is an immutable cursor over a token sequence. The sequence is
// pulled from its source on demand and shared by every stream derived from
// the same start, so keeping an earlier stream is enough to backtrack to it.
type TokenStream struct {
	n *streamNode
}

type streamNode struct {
	tok   lex.Token
	index int
	src   TokenSource
	next  *streamNode
}

// NewTokenStream reads the first token from src.
func NewTokenStream(src TokenSource) (TokenStream, error) {
	tok, err := src.NextToken()
	if err != nil {
		return TokenStream{}, err
	}
	return TokenStream{n: &streamNode{tok: tok, src: src}}, nil
}

// FromTokens returns a stream over tokens. A token of kind lex.EndOfInput
// is appended if the slice does not already end with one.
func FromTokens(tokens ...lex.Token) TokenStream {
	if len(tokens) == 0 || !tokens[len(tokens)-1].IsEndOfInput() {
		var end lex.Token
		end.Kind = lex.EndOfInput
		if len(tokens) > 0 {
			end.Position = tokens[len(tokens)-1].Position
		} else {
			end.Position = lex.Position{Line: 1, Column: 1}
		}
		tokens = append(tokens[:len(tokens):len(tokens)], end)
	}
	s, _ := NewTokenStream(&sliceSource{tokens: tokens})
	return s
}

type sliceSource struct {
	tokens []lex.Token
}

func (s *sliceSource) NextToken() (lex.Token, error) {
	if len(s.tokens) == 0 {
		return lex.Token{}, io.EOF
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

// Current returns the token under the cursor.
func (s TokenStream) Current() lex.Token {
	if s.n == nil {
		return lex.Token{Kind: lex.EndOfInput, Position: lex.Position{Line: 1, Column: 1}}
	}
	return s.n.tok
}

// Position is the position of the current token.
func (s TokenStream) Position() lex.Position {
	return s.Current().Position
}

// Index counts the tokens before the current one.
func (s TokenStream) Index() int {
	if s.n == nil {
		return 0
	}
	return s.n.index
}

// Advance returns the stream following the current token. At the end of
// input it returns s itself. A failure of the underlying source is an
// engine fault and aborts the parse (see Run).
func (s TokenStream) Advance() TokenStream {
	if s.n == nil || s.n.tok.IsEndOfInput() {
		return s
	}
	if s.n.next == nil {
		tok, err := s.n.src.NextToken()
		if err != nil {
			fault(err)
		}
		s.n.next = &streamNode{tok: tok, index: s.n.index + 1, src: s.n.src}
		// the source is only needed at the frontier
		s.n.src = nil
	}
	return TokenStream{n: s.n.next}
}

// Equal reports whether s and other are at the same place in the same
// sequence. A reply consumed input exactly when its remaining stream is
// not Equal to the stream it was given.
func (s TokenStream) Equal(other TokenStream) bool {
	if s.n == other.n {
		return true
	}
	a, b := s.Current(), other.Current()
	return s.Index() == other.Index() &&
		a.Position == b.Position &&
		a.Literal == b.Literal &&
		kindName(a.Kind) == kindName(b.Kind)
}

// kindName avoids comparing kinds with ==, which panics for kinds whose
// dynamic type is not comparable.
func kindName(k lex.TokenKind) string {
	if k == nil {
		return ""
	}
	return k.Name()
}

// Rest reads the remaining tokens, excluding the end of input.
func (s TokenStream) Rest() []lex.Token {
	var rest []lex.Token
	for !s.Current().IsEndOfInput() {
		rest = append(rest, s.Current())
		s = s.Advance()
	}
	return rest
}

func consumed(in, out TokenStream) bool {
	return !out.Equal(in)
}

// Package parse composes recursive-descent parsers over a lex token stream.
//
// A Parser is a pure function from a TokenStream to a Reply. Whether a
// parser consumed input is never tracked separately: it is read off the
// reply by comparing its remaining stream with the stream the parser was
// given. That distinction drives every combinator. Choice only tries the
// next alternative when the previous one failed without consuming; Attempt
// turns a consuming failure back into a non-consuming one; Label only
// replaces the messages of outcomes that consumed nothing.
package parse

import "github.com/dhamidi/parsley/lex"

// Parser parses a value of type T from the front of a token stream.
type Parser[T any] func(TokenStream) Reply[T]

// Parse runs p on in.
func (p Parser[T]) Parse(in TokenStream) Reply[T] {
	return p(in)
}

// Token matches a token of the given kind.
func Token(kind lex.TokenKind) Parser[lex.Token] {
	return func(in TokenStream) Reply[lex.Token] {
		if tok := in.Current(); tok.Kind == kind {
			return Parsed(tok, in.Advance(), nil)
		}
		return Failed[lex.Token](in, Expect(kind.Name()))
	}
}

// Literal matches a token whose text is literal, whatever its kind.
func Literal(literal string) Parser[lex.Token] {
	return func(in TokenStream) Reply[lex.Token] {
		if tok := in.Current(); !tok.IsEndOfInput() && tok.Literal == literal {
			return Parsed(tok, in.Advance(), nil)
		}
		return Failed[lex.Token](in, Expect(literal))
	}
}

// EndOfInput succeeds, without consuming, on the end-of-input token.
func EndOfInput() Parser[lex.Token] {
	return func(in TokenStream) Reply[lex.Token] {
		if tok := in.Current(); tok.IsEndOfInput() {
			return Parsed(tok, in, nil)
		}
		return Failed[lex.Token](in, Expect(lex.EndOfInput.Name()))
	}
}

// Fail always fails without consuming and without a message.
func Fail[T any]() Parser[T] {
	return func(in TokenStream) Reply[T] {
		return Failed[T](in, nil)
	}
}

// Succeed always succeeds with value, without consuming.
func Succeed[T any](value T) Parser[T] {
	return func(in TokenStream) Reply[T] {
		return Parsed(value, in, nil)
	}
}

// Then runs p and, if it succeeds, the parser f builds from its value on
// the remaining stream. A failure of p is returned as is.
func Then[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(in TokenStream) Reply[U] {
		r := p(in)
		if !r.Success {
			return Failed[U](r.Remaining, r.Errors)
		}
		return f(r.Value)(r.Remaining)
	}
}

// Map transforms the value of a successful reply.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(in TokenStream) Reply[U] {
		r := p(in)
		if !r.Success {
			return Failed[U](r.Remaining, r.Errors)
		}
		return Parsed(f(r.Value), r.Remaining, r.Errors)
	}
}

// Skip runs p and then next, keeping the value of next.
func Skip[T, U any](p Parser[T], next Parser[U]) Parser[U] {
	return Then(p, func(T) Parser[U] { return next })
}

// Complete runs p and requires the end of input to follow.
func Complete[T any](p Parser[T]) Parser[T] {
	return Then(p, func(value T) Parser[T] {
		return Map(EndOfInput(), func(lex.Token) T { return value })
	})
}

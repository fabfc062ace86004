package parse

import (
	"fmt"

	"github.com/dhamidi/parsley/lex"
)

// Reply is the outcome of running a parser: either a parsed value or a
// failure, the stream left over, and the error messages gathered on the
// way. On a successful reply the messages are advisory; they describe
// what else could have matched where the parser stopped.
type Reply[T any] struct {
	Value     T
	Success   bool
	Remaining TokenStream
	Errors    ErrorMessages
}

// Parsed returns a successful reply.
func Parsed[T any](value T, remaining TokenStream, errs ErrorMessages) Reply[T] {
	return Reply[T]{Value: value, Success: true, Remaining: remaining, Errors: errs}
}

// Failed returns a failed reply.
func Failed[T any](remaining TokenStream, errs ErrorMessages) Reply[T] {
	return Reply[T]{Remaining: remaining, Errors: errs}
}

// Position is where the remaining stream starts.
func (r Reply[T]) Position() lex.Position {
	return r.Remaining.Position()
}

// Message renders the reply's errors prefixed with its position, as in
// "(1, 4): A expected". A successful reply without errors has no message.
func (r Reply[T]) Message() string {
	if len(r.Errors) == 0 {
		if r.Success {
			return ""
		}
		return fmt.Sprintf("%s: Parse error.", r.Position())
	}
	return fmt.Sprintf("%s: %s", r.Position(), r.Errors)
}

// Err returns nil for a successful reply and a *SyntaxError otherwise.
func (r Reply[T]) Err() error {
	if r.Success {
		return nil
	}
	return &SyntaxError{Position: r.Position(), Errors: r.Errors, Unparsed: r.Remaining.Current()}
}

// SyntaxError is an ordinary parse failure turned into an error.
type SyntaxError struct {
	Position lex.Position
	Errors   ErrorMessages
	// Unparsed is the token the parser failed on.
	Unparsed lex.Token
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s: Parse error.", e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Errors)
}

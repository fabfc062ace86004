package parse

import (
	"fmt"

	"github.com/dhamidi/parsley/lex"
)

// Fault carries an engine fault: a lexing failure, an unbound rule or a
// potential infinite loop. Faults are not parse outcomes. They are raised
// with panic and abort the parse; Run and ParseString recover them and
// return Err.
type Fault struct {
	Err error
}

func (f *Fault) Error() string {
	return f.Err.Error()
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// InfiniteLoopError is raised when a repeated parser succeeds without
// consuming input.
type InfiniteLoopError struct {
	Position lex.Position
}

func (e *InfiniteLoopError) Error() string {
	return fmt.Sprintf("Parser encountered a potential infinite loop at position %s.", e.Position)
}

// UnboundRuleError is raised when a rule is used before it was defined.
type UnboundRuleError struct {
	Name string
}

func (e *UnboundRuleError) Error() string {
	return fmt.Sprintf("rule %s is used before it was defined", e.Name)
}

func fault(err error) {
	panic(&Fault{Err: err})
}

// Run parses the tokens produced by src with p. Ordinary parse failures are
// reported by the reply; the error is non-nil only for engine faults and
// lexing failures.
func Run[T any](p Parser[T], src TokenSource) (reply Reply[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				panic(r)
			}
			err = f.Err
		}
	}()

	in, err := NewTokenStream(src)
	if err != nil {
		return reply, err
	}
	return p(in), nil
}

// ParseString lexes input with lexer and parses it with p.
func ParseString[T any](p Parser[T], lexer *lex.Lexer, input string) (Reply[T], error) {
	return Run(p, lexer.Scan(input))
}

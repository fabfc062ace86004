package parse

// Choice tries each parser in order on the same stream.
//
// The first parser to consume input decides the outcome, success or
// failure, and no later alternative runs. Alternatives that fail without
// consuming contribute their messages to the result. The first alternative
// that succeeds without consuming becomes the result unless a later one
// consumes; later alternatives still run so that their messages are
// attached to it as advisory errors. Choice of no parsers is Fail.
func Choice[T any](parsers ...Parser[T]) Parser[T] {
	if len(parsers) == 0 {
		return Fail[T]()
	}
	return func(in TokenStream) Reply[T] {
		var errs ErrorMessages
		var found bool
		var candidate Reply[T]
		for _, p := range parsers {
			r := p(in)
			if consumed(in, r.Remaining) {
				return r
			}
			errs = errs.Merge(r.Errors)
			if r.Success && !found {
				found = true
				candidate = r
			}
		}
		if found {
			return Parsed(candidate.Value, candidate.Remaining, errs)
		}
		return Failed[T](in, errs)
	}
}

// Optional is Default with the zero value of T.
func Optional[T any](p Parser[T]) Parser[T] {
	var zero T
	return Default(p, zero)
}

// Default runs p. When p fails without consuming, Default succeeds with
// value instead, keeping p's messages as advisory errors. Otherwise it
// behaves exactly like p.
func Default[T any](p Parser[T], value T) Parser[T] {
	return Choice(p, Succeed(value))
}

// Attempt runs p and rewinds when p fails after consuming input. The
// rewound failure is reported on the original stream with a single
// Backtrack message holding where and why p failed.
func Attempt[T any](p Parser[T]) Parser[T] {
	return func(in TokenStream) Reply[T] {
		r := p(in)
		if r.Success || !consumed(in, r.Remaining) {
			return r
		}
		return Failed[T](in, ErrorMessages{Backtrack{Position: r.Position(), Errors: r.Errors}})
	}
}

// Label runs p and, when p consumed nothing, replaces its messages with a
// single expectation of name. Outcomes that consumed input are untouched.
func Label[T any](p Parser[T], name string) Parser[T] {
	return func(in TokenStream) Reply[T] {
		r := p(in)
		if consumed(in, r.Remaining) {
			return r
		}
		r.Errors = Expect(name)
		return r
	}
}

// ZeroOrMore applies p until it fails without consuming and returns the
// values in order. A failure of p after consuming is the result. A success
// of p that consumes nothing would repeat forever; it raises an
// *InfiniteLoopError fault instead.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(in TokenStream) Reply[[]T] {
		var values []T
		at := in
		for {
			r := p(at)
			if !r.Success {
				if consumed(at, r.Remaining) {
					return Failed[[]T](r.Remaining, r.Errors)
				}
				return Parsed(values, r.Remaining, r.Errors)
			}
			if !consumed(at, r.Remaining) {
				fault(&InfiniteLoopError{Position: r.Position()})
			}
			values = append(values, r.Value)
			at = r.Remaining
		}
	}
}

// OneOrMore is like ZeroOrMore but requires p to succeed at least once.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return Then(p, func(first T) Parser[[]T] {
		return Map(ZeroOrMore(p), func(rest []T) []T {
			return prepend(first, rest)
		})
	})
}

// ZeroOrMoreSep applies p repeatedly with sep between the applications.
// A separator that fails without consuming ends the list. Once a separator
// has been read, p must follow.
func ZeroOrMoreSep[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Choice(OneOrMoreSep(p, sep), Succeed[[]T](nil))
}

// OneOrMoreSep is like ZeroOrMoreSep but requires at least one p.
func OneOrMoreSep[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return Then(p, func(first T) Parser[[]T] {
		return Map(ZeroOrMore(Skip(sep, p)), func(rest []T) []T {
			return prepend(first, rest)
		})
	})
}

// Between parses left, body and right in sequence and keeps the body.
func Between[L, T, R any](left Parser[L], body Parser[T], right Parser[R]) Parser[T] {
	return Skip(left, Then(body, func(value T) Parser[T] {
		return Skip(right, Succeed(value))
	}))
}

func prepend[T any](first T, rest []T) []T {
	values := make([]T, 0, len(rest)+1)
	values = append(values, first)
	return append(values, rest...)
}

package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/parsley/lex"
)

// ErrorMessage describes why a parse failed or what else could have
// matched. It is either Expected or Backtrack.
type ErrorMessage interface {
	fmt.Stringer
	errorMessage()
}

// Expected names something that would have allowed the parse to continue.
type Expected struct {
	Label string
}

func (Expected) errorMessage() {}

func (e Expected) String() string {
	return e.Label + " expected"
}

// Backtrack records a failure that Attempt rewound. Position is where the
// attempted parser actually failed.
type Backtrack struct {
	Position lex.Position
	Errors   ErrorMessages
}

func (Backtrack) errorMessage() {}

func (b Backtrack) String() string {
	return fmt.Sprintf("%s: %s", b.Position, b.Errors)
}

// ErrorMessages is a set of error messages. The nil set is empty. Sets are
// never modified in place; Merge returns a new set.
type ErrorMessages []ErrorMessage

// Expect returns the set holding a single expectation.
func Expect(label string) ErrorMessages {
	return ErrorMessages{Expected{Label: label}}
}

// Merge returns the union of m and other. An expectation already present
// is not repeated.
func (m ErrorMessages) Merge(other ErrorMessages) ErrorMessages {
	if len(other) == 0 {
		return m
	}
	if len(m) == 0 {
		return other
	}
	merged := make(ErrorMessages, len(m), len(m)+len(other))
	copy(merged, m)
	for _, msg := range other {
		if e, ok := msg.(Expected); ok && merged.expects(e.Label) {
			continue
		}
		merged = append(merged, msg)
	}
	return merged
}

func (m ErrorMessages) expects(label string) bool {
	for _, msg := range m {
		if e, ok := msg.(Expected); ok && e.Label == label {
			return true
		}
	}
	return false
}

// Expectations returns the distinct expected labels in the order they were
// first recorded.
func (m ErrorMessages) Expectations() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, msg := range m {
		if e, ok := msg.(Expected); ok && !seen[e.Label] {
			seen[e.Label] = true
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// String renders the expectations as "a", "a or b" or "a, b or c" followed
// by " expected", then every backtrack in brackets.
func (m ErrorMessages) String() string {
	var parts []string
	if labels := m.Expectations(); len(labels) > 0 {
		last := len(labels) - 1
		suggestion := labels[last]
		if last > 0 {
			suggestion = strings.Join(labels[:last], ", ") + " or " + suggestion
		}
		parts = append(parts, suggestion+" expected")
	}
	for _, msg := range m {
		if b, ok := msg.(Backtrack); ok {
			parts = append(parts, "["+b.String()+"]")
		}
	}
	return strings.Join(parts, " ")
}

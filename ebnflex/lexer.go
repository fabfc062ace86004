// Package ebnflex provides token kinds defined by the lexical productions
// of an EBNF grammar.
//
// In the grammars this package reads, a production whose name starts with
// an upper-case letter is lexical: it describes one token and is matched
// against raw characters. Lower-case productions are syntactic and are left
// to ebnf/cst.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsley/lex"
)

// DefaultSkip names the productions Kinds marks skippable when no names
// are given.
var DefaultSkip = []string{"WhiteSpace", "Comment"}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f)
}

// ParseGrammar reads an EBNF grammar; name is used in error positions.
func ParseGrammar(name string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// IsLexical reports whether name denotes a lexical production.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// Productions returns the productions of grammar in declaration order.
func Productions(grammar ebnf.Grammar) []*ebnf.Production {
	prods := make([]*ebnf.Production, 0, len(grammar))
	for _, prod := range grammar {
		prods = append(prods, prod)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})
	return prods
}

// Kinds returns a token kind for every lexical production of grammar, in
// declaration order, ready to be handed to lex.New. Productions named in
// skip are skippable; with no names DefaultSkip applies.
func Kinds(grammar ebnf.Grammar, skip ...string) []lex.TokenKind {
	if len(skip) == 0 {
		skip = DefaultSkip
	}
	skippable := make(map[string]bool, len(skip))
	for _, name := range skip {
		skippable[name] = true
	}

	var kinds []lex.TokenKind
	for _, prod := range Productions(grammar) {
		name := prod.Name.String
		if !IsLexical(name) || prod.Expr == nil {
			continue
		}
		kinds = append(kinds, &Production{
			name:      name,
			grammar:   grammar,
			skippable: skippable[name],
		})
	}
	return kinds
}

// Production is a token kind matching one lexical production.
type Production struct {
	name      string
	grammar   ebnf.Grammar
	skippable bool
}

// NewProduction returns the token kind for the production called name.
func NewProduction(grammar ebnf.Grammar, name string, skippable bool) (*Production, error) {
	prod, ok := grammar[name]
	if !ok || prod.Expr == nil {
		return nil, fmt.Errorf("production %s is not defined", name)
	}
	if !IsLexical(name) {
		return nil, fmt.Errorf("production %s is not lexical", name)
	}
	return &Production{name: name, grammar: grammar, skippable: skippable}, nil
}

func (p *Production) Name() string    { return p.name }
func (p *Production) Skippable() bool { return p.skippable }
func (p *Production) String() string  { return p.name }

// TryMatch matches the production at the start of text. Alternatives
// take the longest match.
func (p *Production) TryMatch(text lex.Text) (lex.Token, bool) {
	m := newMatcher(p.grammar, text.Rest())
	n, ok := m.matchName(p.name, 0)
	if !ok || n == 0 {
		return lex.Token{}, false
	}
	return lex.Token{Kind: p, Position: text.Position(), Literal: text.Peek(n)}, true
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

type matchResult struct {
	n  int
	ok bool
}

// matcher runs one match over input. Results are memoized per production
// and offset; a production already being matched at an offset fails, which
// cuts left recursion.
type matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]matchResult
	visiting map[memoKey]bool
}

func newMatcher(grammar ebnf.Grammar, input string) *matcher {
	return &matcher{
		grammar:  grammar,
		input:    input,
		memo:     make(map[memoKey]matchResult),
		visiting: make(map[memoKey]bool),
	}
}

// match returns the length matched by expr at offset.
func (m *matcher) match(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case nil:
		return 0, true

	case *ebnf.Token:
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := m.match(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, found := 0, false
		for _, alt := range e {
			if n, ok := m.match(alt, offset); ok && (!found || n > best) {
				best, found = n, true
			}
		}
		return best, found

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := m.match(e.Body, offset+total)
			if !ok || n == 0 {
				return total, true
			}
			total += n
		}

	case *ebnf.Option:
		if n, ok := m.match(e.Body, offset); ok {
			return n, true
		}
		return 0, true

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)

	default:
		return 0, false
	}
}

func (m *matcher) matchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}
	if r, ok := m.memo[key]; ok {
		return r.n, r.ok
	}
	if m.visiting[key] {
		return 0, false
	}

	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = matchResult{}
		return 0, false
	}

	m.visiting[key] = true
	n, ok := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = matchResult{n: n, ok: ok}
	return n, ok
}

func (m *matcher) matchToken(s string, offset int) (int, bool) {
	if offset+len(s) > len(m.input) || m.input[offset:offset+len(s)] != s {
		return 0, false
	}
	return len(s), true
}

// matchRange matches one character between begin and end, as in "a" … "z".
func (m *matcher) matchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(m.input) {
		return 0, false
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRuneInString(m.input[offset:])
	if r < lo || r > hi {
		return 0, false
	}
	return size, true
}

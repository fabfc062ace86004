package cst

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsley/ebnflex"
	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

// Option configures Compile.
type Option func(*compiler)

// WithBacktracking wraps every alternative in parse.Attempt, so an
// alternative that fails after consuming input no longer prevents the
// next one from being tried.
func WithBacktracking() Option {
	return func(c *compiler) {
		c.backtrack = true
	}
}

// WithLabels labels every production with namer(name), so failures inside
// a production that consumed nothing read "<label> expected" rather than
// listing the tokens it could start with. parse.HumanizeName is a good
// namer.
func WithLabels(namer func(string) string) Option {
	return func(c *compiler) {
		c.namer = namer
	}
}

// WithLogger sets the logger. The default is the "parsley.cst" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(c *compiler) {
		c.log = log
	}
}

type compiler struct {
	grammar   ebnf.Grammar
	kinds     map[string]lex.TokenKind
	helpers   map[string]bool
	rules     *parse.Registry
	backtrack bool
	namer     func(string) string
	log       commonlog.Logger
	errs      []error
}

// Compile turns the syntactic productions of grammar into parsers.
//
// Lower-case productions become rules; upper-case names in them refer to
// the token kind of that name in kinds. Lower-case productions used by
// lexical productions are character-level helpers such as letter or digit
// and are not compiled. A quoted token matches any token with that
// literal; quoted tokens that none of kinds can produce get an implicit
// keyword or operator kind, tried after kinds.
func Compile(grammar ebnf.Grammar, kinds []lex.TokenKind, opts ...Option) (*Grammar, error) {
	c := &compiler{
		grammar: grammar,
		kinds:   make(map[string]lex.TokenKind, len(kinds)),
		rules:   parse.NewRegistry(),
		log:     commonlog.GetLogger("parsley.cst"),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, k := range kinds {
		c.kinds[k.Name()] = k
	}
	c.helpers = lexicalHelpers(grammar)

	g := &Grammar{rules: make(map[string]*parse.Rule[*Node]), log: c.log}
	for _, prod := range ebnflex.Productions(grammar) {
		name := prod.Name.String
		if ebnflex.IsLexical(name) || c.helpers[name] {
			continue
		}
		g.rules[name] = parse.Declare[*Node](c.rules, name)
		g.names = append(g.names, name)
	}
	for _, name := range g.names {
		c.compileProduction(name, g.rules[name])
	}
	if err := c.rules.Check(); err != nil {
		c.errs = append(c.errs, err)
	}
	if err := errors.Join(c.errs...); err != nil {
		return nil, fmt.Errorf("compile grammar: %w", err)
	}

	implicit := implicitKinds(literals(grammar, g.names), kinds)
	g.lexer = lex.New(append(append([]lex.TokenKind(nil), kinds...), implicit...)...)

	c.log.Debugf("compiled %d productions, %d token kinds (%d implicit)", len(g.names), len(kinds)+len(implicit), len(implicit))
	return g, nil
}

func (c *compiler) compileProduction(name string, rule *parse.Rule[*Node]) {
	body := c.compile(name, c.grammar[name].Expr)
	var p parse.Parser[*Node] = func(in parse.TokenStream) parse.Reply[*Node] {
		r := body(in)
		if !r.Success {
			return parse.Failed[*Node](r.Remaining, r.Errors)
		}
		n := NewNonTerminal(name, in.Position())
		for _, child := range r.Value {
			n.AddChild(child)
		}
		return parse.Parsed(n, r.Remaining, r.Errors)
	}
	if c.namer != nil {
		p = parse.Label(p, c.namer(name))
	}
	rule.Define(p)
}

// compile maps an expression of production prod to a parser yielding the
// nodes it matched.
func (c *compiler) compile(prod string, expr ebnf.Expression) parse.Parser[[]*Node] {
	switch e := expr.(type) {
	case nil:
		return parse.Succeed[[]*Node](nil)

	case *ebnf.Token:
		return leaf(parse.Literal(e.String))

	case *ebnf.Name:
		return c.compileName(prod, e.String)

	case ebnf.Sequence:
		parts := make([]parse.Parser[[]*Node], len(e))
		for i, item := range e {
			parts[i] = c.compile(prod, item)
		}
		return sequence(parts)

	case ebnf.Alternative:
		alts := make([]parse.Parser[[]*Node], len(e))
		for i, alt := range e {
			alts[i] = c.compile(prod, alt)
			if c.backtrack {
				alts[i] = parse.Attempt(alts[i])
			}
		}
		return parse.Choice(alts...)

	case *ebnf.Option:
		return parse.Optional(c.compile(prod, e.Body))

	case *ebnf.Repetition:
		return parse.Map(parse.ZeroOrMore(c.compile(prod, e.Body)), flatten)

	case *ebnf.Group:
		return c.compile(prod, e.Body)

	case *ebnf.Range:
		c.errs = append(c.errs, fmt.Errorf("%s: character range %q … %q in syntactic production %s", e.Pos(), e.Begin.String, e.End.String, prod))

	default:
		c.errs = append(c.errs, fmt.Errorf("%s: unsupported expression %T in production %s", expr.Pos(), expr, prod))
	}
	return parse.Fail[[]*Node]()
}

func (c *compiler) compileName(prod, name string) parse.Parser[[]*Node] {
	if ebnflex.IsLexical(name) {
		kind, ok := c.kinds[name]
		if !ok {
			c.errs = append(c.errs, fmt.Errorf("production %s refers to token kind %s, which is not defined", prod, name))
			return parse.Fail[[]*Node]()
		}
		return leaf(parse.Token(kind))
	}
	if c.helpers[name] {
		c.errs = append(c.errs, fmt.Errorf("production %s refers to %s, which is used by lexical productions", prod, name))
		return parse.Fail[[]*Node]()
	}
	rule := parse.Declare[*Node](c.rules, name)
	return parse.Map(rule.Parser(), func(n *Node) []*Node { return []*Node{n} })
}

func leaf(p parse.Parser[lex.Token]) parse.Parser[[]*Node] {
	return parse.Map(p, func(tok lex.Token) []*Node {
		return []*Node{NewTerminal(tok)}
	})
}

func sequence(parts []parse.Parser[[]*Node]) parse.Parser[[]*Node] {
	if len(parts) == 0 {
		return parse.Succeed[[]*Node](nil)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	rest := sequence(parts[1:])
	return parse.Then(parts[0], func(first []*Node) parse.Parser[[]*Node] {
		return parse.Map(rest, func(more []*Node) []*Node {
			return append(first[:len(first):len(first)], more...)
		})
	})
}

func flatten(groups [][]*Node) []*Node {
	var nodes []*Node
	for _, g := range groups {
		nodes = append(nodes, g...)
	}
	return nodes
}

// lexicalHelpers returns the lower-case productions reachable from
// lexical productions.
func lexicalHelpers(grammar ebnf.Grammar) map[string]bool {
	helpers := make(map[string]bool)
	var visit func(ebnf.Expression)
	visit = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Name:
			if ebnflex.IsLexical(e.String) || helpers[e.String] {
				return
			}
			prod, ok := grammar[e.String]
			if !ok {
				return
			}
			helpers[e.String] = true
			visit(prod.Expr)
		case ebnf.Sequence:
			for _, item := range e {
				visit(item)
			}
		case ebnf.Alternative:
			for _, alt := range e {
				visit(alt)
			}
		case *ebnf.Option:
			visit(e.Body)
		case *ebnf.Repetition:
			visit(e.Body)
		case *ebnf.Group:
			visit(e.Body)
		}
	}
	for name, prod := range grammar {
		if ebnflex.IsLexical(name) {
			visit(prod.Expr)
		}
	}
	return helpers
}

// literals returns the quoted tokens used by the named productions.
func literals(grammar ebnf.Grammar, names []string) []string {
	seen := make(map[string]bool)
	var visit func(ebnf.Expression)
	visit = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Token:
			seen[e.String] = true
		case ebnf.Sequence:
			for _, item := range e {
				visit(item)
			}
		case ebnf.Alternative:
			for _, alt := range e {
				visit(alt)
			}
		case *ebnf.Option:
			visit(e.Body)
		case *ebnf.Repetition:
			visit(e.Body)
		case *ebnf.Group:
			visit(e.Body)
		}
	}
	for _, name := range names {
		visit(grammar[name].Expr)
	}
	lits := make([]string, 0, len(seen))
	for lit := range seen {
		lits = append(lits, lit)
	}
	return lits
}

// implicitKinds returns a kind for every literal that no kind in kinds
// matches in full. Operators are ordered longest first so "->" is tried
// before "-".
func implicitKinds(lits []string, kinds []lex.TokenKind) []lex.TokenKind {
	var keywords, operators []string
	for _, lit := range lits {
		if lit == "" || covered(lit, kinds) {
			continue
		}
		if _, err := lex.NewKeyword(lit); err == nil {
			keywords = append(keywords, lit)
		} else {
			operators = append(operators, lit)
		}
	}
	sort.Strings(keywords)
	sort.Slice(operators, func(i, j int) bool {
		if len(operators[i]) != len(operators[j]) {
			return len(operators[i]) > len(operators[j])
		}
		return strings.Compare(operators[i], operators[j]) < 0
	})

	var implicit []lex.TokenKind
	for _, kw := range keywords {
		implicit = append(implicit, lex.MustKeyword(kw))
	}
	for _, op := range operators {
		implicit = append(implicit, lex.NewOperator(op))
	}
	return implicit
}

func covered(lit string, kinds []lex.TokenKind) bool {
	text := lex.NewText(lit)
	for _, k := range kinds {
		if tok, ok := k.TryMatch(text); ok && tok.Literal == lit {
			return true
		}
	}
	return false
}

package cst

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

// Grammar is a compiled grammar.
type Grammar struct {
	lexer *lex.Lexer
	rules map[string]*parse.Rule[*Node]
	names []string
	log   commonlog.Logger
}

// Lexer returns the lexer for the grammar's tokens, including the
// implicit kinds of quoted tokens.
func (g *Grammar) Lexer() *lex.Lexer {
	return g.lexer
}

// Productions returns the names of the compiled productions in
// declaration order.
func (g *Grammar) Productions() []string {
	return slices.Clone(g.names)
}

// Parser returns the parser for production start. It does not require
// the end of input.
func (g *Grammar) Parser(start string) (parse.Parser[*Node], error) {
	rule, ok := g.rules[start]
	if !ok {
		return nil, fmt.Errorf("production %s is not defined", start)
	}
	return rule.Parser(), nil
}

// Reply parses all of input as start and returns the raw reply. The error
// is non-nil only for faults: unknown productions, unrecognized input and
// engine faults.
func (g *Grammar) Reply(start, input string) (parse.Reply[*Node], error) {
	p, err := g.Parser(start)
	if err != nil {
		return parse.Reply[*Node]{}, err
	}
	g.log.Debugf("parsing %d bytes as %s", len(input), start)
	return parse.ParseString(parse.Complete(p), g.lexer, input)
}

// Parse parses all of input as start. Syntax errors are returned as
// *parse.SyntaxError.
func (g *Grammar) Parse(start, input string) (*Node, error) {
	reply, err := g.Reply(start, input)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		g.log.Debugf("parse failed: %s", err)
		return nil, err
	}
	return reply.Value, nil
}

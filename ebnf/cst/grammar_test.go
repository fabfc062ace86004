package cst

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/parsley/ebnflex"
	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

const listGrammar = `
list = "[" [ value { "," value } ] "]" .
value = Number | Identifier | list .

WhiteSpace = " " | "\n" .
Number = digit { digit } .
Identifier = letter { letter } .

letter = "a" … "z" .
digit = "0" … "9" .
`

func compile(t *testing.T, src string, opts ...Option) *Grammar {
	t.Helper()
	g, err := ebnflex.ParseGrammar("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	compiled, err := Compile(g, ebnflex.Kinds(g), opts...)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return compiled
}

// sexpr renders a tree compactly: terminals as their literal and
// non-terminals as (kind children...).
func sexpr(n *Node) string {
	if n.IsTerminal() {
		return n.Token.Literal
	}
	parts := []string{n.Kind}
	for _, child := range n.Children {
		parts = append(parts, sexpr(child))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func TestGrammar_Parse(t *testing.T) {
	g := compile(t, listGrammar)

	tests := []struct {
		input string
		want  string
	}{
		{"[]", "(list [ ])"},
		{"[1]", "(list [ (value 1) ])"},
		{"[1, ab, [2]]", "(list [ (value 1) , (value ab) , (value (list [ (value 2) ])) ])"},
		{"[\n  1,\n  2\n]", "(list [ (value 1) , (value 2) ])"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := g.Parse("list", tt.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, sexpr(tree)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGrammar_ParseErrors(t *testing.T) {
	g := compile(t, listGrammar)

	tests := []struct {
		input string
		want  string
	}{
		{"", "(1, 1): [ expected"},
		{"[1 2]", "(1, 4): ] expected"},
		{"[1,]", "(1, 4): Number, Identifier or [ expected"},
		{"[1] 2", "(1, 5): end of input expected"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := g.Parse("list", tt.input)
			var syntax *parse.SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGrammar_UnrecognizedInput(t *testing.T) {
	g := compile(t, listGrammar)

	_, err := g.Parse("list", "[1, ?]")
	var unrecognized *lex.UnrecognizedError
	if !errors.As(err, &unrecognized) {
		t.Fatalf("expected an unrecognized character error, got %v", err)
	}
	if want := (lex.Position{Line: 1, Column: 5}); unrecognized.Position != want {
		t.Errorf("position = %s, want %s", unrecognized.Position, want)
	}
}

func TestGrammar_UnknownStart(t *testing.T) {
	g := compile(t, listGrammar)
	if _, err := g.Parse("nothing", "[]"); err == nil || err.Error() != "production nothing is not defined" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGrammar_Productions(t *testing.T) {
	g := compile(t, listGrammar)
	if diff := cmp.Diff([]string{"list", "value"}, g.Productions()); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}
}

func TestGrammar_Spans(t *testing.T) {
	g := compile(t, listGrammar)

	tree, err := g.Parse("list", "[12,\n ab]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Span{Start: lex.Position{Line: 1, Column: 1}, End: lex.Position{Line: 2, Column: 5}}
	if diff := cmp.Diff(want, tree.Span); diff != "" {
		t.Errorf("list span mismatch (-want +got):\n%s", diff)
	}

	number := tree.Find("Number")
	if number == nil {
		t.Fatal("no Number node")
	}
	want = Span{Start: lex.Position{Line: 1, Column: 2}, End: lex.Position{Line: 1, Column: 4}}
	if diff := cmp.Diff(want, number.Span); diff != "" {
		t.Errorf("number span mismatch (-want +got):\n%s", diff)
	}

	if got := tree.Text(); got != "[12,ab]" {
		t.Errorf("text = %q", got)
	}
}

const statementGrammar = `
statement = call | assignment .
call = Identifier "(" ")" .
assignment = Identifier "=" Number .

WhiteSpace = " " .
Identifier = "a" … "z" { "a" … "z" } .
Number = "0" … "9" { "0" … "9" } .
`

func TestCompile_WithBacktracking(t *testing.T) {
	_, err := compile(t, statementGrammar).Parse("statement", "x = 1")
	if err == nil || err.Error() != "(1, 3): ( expected" {
		t.Fatalf("without backtracking: unexpected error %v", err)
	}

	tree, err := compile(t, statementGrammar, WithBacktracking()).Parse("statement", "x = 1")
	if err != nil {
		t.Fatalf("with backtracking: %v", err)
	}
	if diff := cmp.Diff("(statement (assignment x = 1))", sexpr(tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_WithLabels(t *testing.T) {
	g := compile(t, `
		program = assignStatement { assignStatement } .
		assignStatement = Identifier "=" Number .
		WhiteSpace = " " .
		Identifier = "a" … "z" .
		Number = "0" … "9" .
	`, WithLabels(parse.HumanizeName))

	tests := []struct {
		input string
		want  string
	}{
		{"= 1", "(1, 1): program expected"},
		{"a = ", "(1, 5): Number expected"},
		{"a = 1 =", "(1, 7): end of input expected"},
	}
	for _, tt := range tests {
		if _, err := g.Parse("program", tt.input); err == nil || err.Error() != tt.want {
			t.Errorf("%q: error = %v, want %q", tt.input, err, tt.want)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		want    []string
	}{
		{
			"range in syntax",
			`start = "a" … "z" .`,
			[]string{"character range", "syntactic production start"},
		},
		{
			"unknown token kind",
			`start = Missing .`,
			[]string{"production start refers to token kind Missing, which is not defined"},
		},
		{
			"unknown production",
			`start = missing .`,
			[]string{"rule missing is used before it was defined"},
		},
		{
			"lexical helper",
			`start = digit . Number = digit . digit = "0" … "9" .`,
			[]string{"production start refers to digit, which is used by lexical productions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ebnflex.ParseGrammar("test", strings.NewReader(tt.grammar))
			if err != nil {
				t.Fatalf("parse grammar: %v", err)
			}
			_, err = Compile(g, ebnflex.Kinds(g))
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.want {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestCompile_InfiniteLoop(t *testing.T) {
	g := compile(t, `loop = { [ "a" ] } .`)

	_, err := g.Parse("loop", "")
	var loop *parse.InfiniteLoopError
	if !errors.As(err, &loop) {
		t.Fatalf("expected an infinite loop fault, got %v", err)
	}
}

func TestCompile_ImplicitKinds(t *testing.T) {
	g := compile(t, `
		expr = Identifier { ( "->" | "-" | "and" ) Identifier } .
		WhiteSpace = " " .
		Identifier = "a" … "z" { "a" … "z" } .
	`)

	var names []string
	for _, k := range g.Lexer().Kinds() {
		names = append(names, k.Name())
	}
	// "and" is produced by Identifier
	if diff := cmp.Diff([]string{"WhiteSpace", "Identifier", "->", "-"}, names); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	tree, err := g.Parse("expr", "a -> b - c and d")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff("(expr a -> b - c and d)", sexpr(tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

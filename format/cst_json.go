package format

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/dhamidi/parsley/ebnf/cst"
	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

type CSTJSONEncoder struct {
	w    io.Writer
	node *cst.Node
}

func NewCSTJSONEncoder(w io.Writer) *CSTJSONEncoder {
	return &CSTJSONEncoder{w: w}
}

func (e *CSTJSONEncoder) Encode(node *cst.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *CSTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(e.node), "", "  ")
}

// EncodeError writes err as a JSON error object. Syntax errors carry the
// position, the expectations and the token found instead.
func (e *CSTJSONEncoder) EncodeError(err error) error {
	text, mErr := json.MarshalIndent(errorToJSON(err), "", "  ")
	if mErr != nil {
		return mErr
	}
	_, wErr := e.w.Write(append(text, '\n'))
	return wErr
}

type cstJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *cstJSONSpan   `json:"span,omitempty"`
	Token    string         `json:"token,omitempty"`
	Children []*cstJSONNode `json:"children,omitempty"`
}

type cstJSONSpan struct {
	Start cstJSONPosition `json:"start"`
	End   cstJSONPosition `json:"end"`
}

type cstJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type cstJSONError struct {
	Message  string           `json:"message"`
	Position *cstJSONPosition `json:"position,omitempty"`
	Expected []string         `json:"expected,omitempty"`
	Got      string           `json:"got,omitempty"`
}

func nodeToJSON(n *cst.Node) *cstJSONNode {
	if n == nil {
		return nil
	}
	jn := &cstJSONNode{
		Kind: n.Kind,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &cstJSONSpan{
			Start: positionToJSON(n.Span.Start),
			End:   positionToJSON(n.Span.End),
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*cstJSONNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}

func positionToJSON(pos lex.Position) cstJSONPosition {
	return cstJSONPosition{Line: pos.Line, Column: pos.Column}
}

func errorToJSON(err error) *cstJSONError {
	je := &cstJSONError{Message: err.Error()}

	var syntax *parse.SyntaxError
	var unrecognized *lex.UnrecognizedError
	var loop *parse.InfiniteLoopError
	switch {
	case errors.As(err, &syntax):
		pos := positionToJSON(syntax.Position)
		je.Position = &pos
		je.Expected = syntax.Errors.Expectations()
		if syntax.Unparsed.IsEndOfInput() {
			je.Got = lex.EndOfInput.Name()
		} else {
			je.Got = syntax.Unparsed.Literal
		}
	case errors.As(err, &unrecognized):
		pos := positionToJSON(unrecognized.Position)
		je.Position = &pos
		je.Got = string(unrecognized.Char)
	case errors.As(err, &loop):
		pos := positionToJSON(loop.Position)
		je.Position = &pos
	}
	return je
}

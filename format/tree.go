package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/parsley/ebnf/cst"
)

// TreeEncoder writes one line per node, indented by depth:
//
//	list	1:1-1:4
//	  [	1:1-1:2	"["
type TreeEncoder struct {
	w    io.Writer
	node *cst.Node
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *cst.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.node != nil {
		e.writeNode(&sb, e.node, 0)
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n *cst.Node, depth int) {
	fmt.Fprintf(sb, "%s%s\t%s", strings.Repeat("  ", depth), n.Kind, spanStr(n.Span))
	if n.Token != nil {
		fmt.Fprintf(sb, "\t%q", n.Token.Literal)
	}
	sb.WriteByte('\n')
	for _, child := range n.Children {
		e.writeNode(sb, child, depth+1)
	}
}

func spanStr(s cst.Span) string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

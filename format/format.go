// Package format renders concrete syntax trees, tokens and syntax errors.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/parsley/ebnf/cst"
)

// Encoder writes a syntax tree.
type Encoder interface {
	encoding.TextMarshaler
	Encode(node *cst.Node) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"json", "tree"}

// NewEncoder returns the encoder for the named format.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewCSTJSONEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Formats)
	}
}

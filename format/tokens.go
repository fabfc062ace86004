package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/parsley/lex"
)

// TokenEncoder writes token sequences, either one token per line
//
//	1:1	Identifier	"x"
//
// or as a JSON array.
type TokenEncoder struct {
	w      io.Writer
	json   bool
	tokens []lex.Token
}

func NewTokenLineEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func NewTokenJSONEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w, json: true}
}

func (e *TokenEncoder) Encode(tokens []lex.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	if e.json {
		out := make([]jsonToken, len(e.tokens))
		for i, tok := range e.tokens {
			out[i] = jsonToken{
				Kind:     tok.Kind.Name(),
				Literal:  tok.Literal,
				Position: positionToJSON(tok.Position),
			}
		}
		text, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(text, '\n'), nil
	}

	var sb strings.Builder
	for _, tok := range e.tokens {
		fmt.Fprintf(&sb, "%d:%d\t%s\t%q\n", tok.Position.Line, tok.Position.Column, tok.Kind.Name(), tok.Literal)
	}
	return []byte(sb.String()), nil
}

type jsonToken struct {
	Kind     string          `json:"kind"`
	Literal  string          `json:"literal"`
	Position cstJSONPosition `json:"position"`
}

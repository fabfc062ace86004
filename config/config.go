// Package config loads parsley project files.
//
// A project file names the grammar to load, the production to start from
// and how to lex the input. It is YAML (parsley.yaml, parsley.yml) or TOML
// (parsley.toml); the format follows the file extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/parsley/lex"
)

// Format represents the configuration file format
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FileNames are the project file names Find looks for, in order.
var FileNames = []string{"parsley.yaml", "parsley.yml", "parsley.toml"}

// ErrNotFound is returned by Find when no project file exists.
var ErrNotFound = errors.New("no parsley project file found")

// Project is the content of a project file.
type Project struct {
	// Grammar is the EBNF grammar file, relative to the project file.
	Grammar string `yaml:"grammar" toml:"grammar"`
	// Start is the production input is parsed as.
	Start string `yaml:"start" toml:"start"`
	// Skip names the lexical productions that are skipped. Empty means
	// WhiteSpace and Comment.
	Skip []string `yaml:"skip,omitempty" toml:"skip,omitempty"`
	// Backtrack lets every alternative backtrack.
	Backtrack bool `yaml:"backtrack,omitempty" toml:"backtrack,omitempty"`
	// Humanize labels productions with their humanized names.
	Humanize bool `yaml:"humanize,omitempty" toml:"humanize,omitempty"`
	// Tokens, when present, replace the grammar's lexical productions.
	Tokens []Token `yaml:"tokens,omitempty" toml:"tokens,omitempty"`

	dir string
}

// Token declares one token kind. Exactly one of Pattern, Keyword and
// Operator is set.
type Token struct {
	Name     string `yaml:"name" toml:"name"`
	Pattern  string `yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Keyword  string `yaml:"keyword,omitempty" toml:"keyword,omitempty"`
	Operator string `yaml:"operator,omitempty" toml:"operator,omitempty"`
	Skip     bool   `yaml:"skip,omitempty" toml:"skip,omitempty"`
}

// Find returns the path of the first project file in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNotFound)
}

// Load reads and validates a project file.
func Load(path string) (*Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	p, err := Parse(content, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// DetectFormat picks the format from the file extension. Anything that is
// not .toml is read as YAML.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes and validates project file content.
func Parse(content []byte, format Format) (*Project, error) {
	var p Project
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(content), &p)
		if err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("toml: unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every problem with the project at once.
func (p *Project) Validate() error {
	var errs []error
	if p.Grammar == "" {
		errs = append(errs, errors.New("grammar is required"))
	}
	if p.Start == "" {
		errs = append(errs, errors.New("start is required"))
	}
	seen := make(map[string]bool, len(p.Tokens))
	for i, tok := range p.Tokens {
		if tok.Name == "" {
			errs = append(errs, fmt.Errorf("tokens[%d]: name is required", i))
		} else if seen[tok.Name] {
			errs = append(errs, fmt.Errorf("tokens[%d]: duplicate name %s", i, tok.Name))
		}
		seen[tok.Name] = true

		set := 0
		for _, s := range []string{tok.Pattern, tok.Keyword, tok.Operator} {
			if s != "" {
				set++
			}
		}
		if set != 1 {
			errs = append(errs, fmt.Errorf("tokens[%d]: exactly one of pattern, keyword and operator must be set", i))
		}
	}
	return errors.Join(errs...)
}

// GrammarPath is the grammar file resolved against the project file's
// directory.
func (p *Project) GrammarPath() string {
	if filepath.IsAbs(p.Grammar) || p.dir == "" {
		return p.Grammar
	}
	return filepath.Join(p.dir, p.Grammar)
}

// Kinds builds the token kinds of the tokens table in declaration order.
// It returns nil when the table is empty.
func (p *Project) Kinds() ([]lex.TokenKind, error) {
	var kinds []lex.TokenKind
	var errs []error
	for _, tok := range p.Tokens {
		var opts []lex.KindOption
		if tok.Skip {
			opts = append(opts, lex.Skip())
		}
		switch {
		case tok.Pattern != "":
			k, err := lex.NewPattern(tok.Name, tok.Pattern, opts...)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			kinds = append(kinds, k)
		case tok.Keyword != "":
			k, err := lex.NewKeyword(tok.Keyword, append(opts, lex.Named(tok.Name))...)
			if err != nil {
				errs = append(errs, fmt.Errorf("token kind %s: %w", tok.Name, err))
				continue
			}
			kinds = append(kinds, k)
		case tok.Operator != "":
			kinds = append(kinds, lex.NewOperator(tok.Operator, append(opts, lex.Named(tok.Name))...))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return kinds, nil
}

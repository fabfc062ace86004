package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsley/config"
	"github.com/dhamidi/parsley/ebnf/cst"
	"github.com/dhamidi/parsley/ebnflex"
	"github.com/dhamidi/parsley/lex"
	"github.com/dhamidi/parsley/parse"
)

// projectFlags are the flags shared by every command that needs a
// compiled grammar. Flags override the project file.
type projectFlags struct {
	config    string
	grammar   string
	start     string
	skip      []string
	backtrack bool
	humanize  bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "", "project file (default: parsley.yaml, parsley.yml or parsley.toml in the current directory)")
	flags.StringVarP(&f.grammar, "grammar", "g", "", "EBNF grammar file")
	flags.StringVarP(&f.start, "start", "s", "", "start production")
	flags.StringSliceVar(&f.skip, "skip", nil, "lexical productions to skip (default WhiteSpace,Comment)")
	flags.BoolVar(&f.backtrack, "backtrack", false, "let every alternative backtrack")
	flags.BoolVar(&f.humanize, "humanize", false, "report productions by their humanized names")
}

type session struct {
	project *config.Project
	grammar *cst.Grammar
}

func (f *projectFlags) load(cmd *cobra.Command) (*session, error) {
	log := commonlog.GetLogger("parsley")
	flags := cmd.Flags()

	project := &config.Project{}
	path := f.config
	if path == "" && !flags.Changed("grammar") {
		found, err := config.Find(".")
		if err != nil && !errors.Is(err, config.ErrNotFound) {
			return nil, err
		}
		path = found
	}
	grammarPath := ""
	if path != "" {
		p, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		log.Infof("using project file %s", path)
		project = p
		grammarPath = p.GrammarPath()
	}

	if flags.Changed("grammar") {
		project.Grammar = f.grammar
		grammarPath = f.grammar
	}
	if flags.Changed("start") {
		project.Start = f.start
	}
	if flags.Changed("skip") {
		project.Skip = f.skip
	}
	if flags.Changed("backtrack") {
		project.Backtrack = f.backtrack
	}
	if flags.Changed("humanize") {
		project.Humanize = f.humanize
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("no usable project (pass --grammar and --start or add a parsley.yaml): %w", err)
	}

	grammar, err := ebnflex.LoadGrammar(grammarPath)
	if err != nil {
		return nil, err
	}

	var kinds []lex.TokenKind
	if len(project.Tokens) > 0 {
		kinds, err = project.Kinds()
		if err != nil {
			return nil, err
		}
	} else {
		kinds = ebnflex.Kinds(grammar, project.Skip...)
	}

	opts := []cst.Option{cst.WithLogger(commonlog.GetLogger("parsley.cst"))}
	if project.Backtrack {
		opts = append(opts, cst.WithBacktracking())
	}
	if project.Humanize {
		opts = append(opts, cst.WithLabels(parse.HumanizeName))
	}
	compiled, err := cst.Compile(grammar, kinds, opts...)
	if err != nil {
		return nil, err
	}

	return &session{project: project, grammar: compiled}, nil
}

// readInput reads a file, or standard input for "-".
func readInput(cmd *cobra.Command, filename string) (string, error) {
	if filename == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

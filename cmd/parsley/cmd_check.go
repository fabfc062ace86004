package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsley/ebnf/cst"
	"github.com/dhamidi/parsley/ebnflex"
)

func newCheckCmd() *cobra.Command {
	var startProduction string
	var compile bool

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			out := cmd.OutOrStdout()

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(out, err)
				return errReported
			}

			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(out, err)
				return errReported
			}

			if compile {
				_, err := cst.Compile(grammar, ebnflex.Kinds(grammar), cst.WithLogger(commonlog.GetLogger("parsley.cst")))
				if err != nil {
					fmt.Fprintln(out, err)
					return errReported
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")
	cmd.Flags().BoolVar(&compile, "compile", false, "also compile the syntactic productions into parsers")

	return cmd
}

// printErrors prints one line per error of an ebnf error list.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}

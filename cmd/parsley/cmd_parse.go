package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsley/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var pf projectFlags

	cmd := &cobra.Command{
		Use:           "parse <file>",
		Short:         "Parse a file with the project grammar and dump the syntax tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			s, err := pf.load(cmd)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, filename)
			if err != nil {
				return err
			}

			tree, err := s.grammar.Parse(s.project.Start, input)
			if err != nil {
				if enc, ok := encoder.(*format.CSTJSONEncoder); ok {
					if encErr := enc.EncodeError(err); encErr != nil {
						return fmt.Errorf("encode error: %w", encErr)
					}
				}
				return fmt.Errorf("%s: %w", filename, err)
			}

			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", fmt.Sprintf("output format %v", format.Formats))

	return cmd
}

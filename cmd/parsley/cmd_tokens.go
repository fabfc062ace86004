package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsley/format"
)

func newTokensCmd() *cobra.Command {
	var outputFormat string
	var pf projectFlags

	cmd := &cobra.Command{
		Use:           "tokens <file>",
		Short:         "Print the tokens of a file as the project lexes them",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var encoder *format.TokenEncoder
			switch outputFormat {
			case "lines":
				encoder = format.NewTokenLineEncoder(cmd.OutOrStdout())
			case "json":
				encoder = format.NewTokenJSONEncoder(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			s, err := pf.load(cmd)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			tokens, lexErr := s.grammar.Lexer().All(input)
			if err := encoder.Encode(tokens); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if lexErr != nil {
				return fmt.Errorf("%s: %w", args[0], lexErr)
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "lines", "output format (lines, json)")

	return cmd
}

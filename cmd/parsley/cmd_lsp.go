package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsley/lsp"
)

func newLSPCmd() *cobra.Command {
	var pf projectFlags

	cmd := &cobra.Command{
		Use:           "lsp",
		Short:         "Start a language server that reports syntax errors",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pf.load(cmd)
			if err != nil {
				return err
			}
			return lsp.NewServer(s.grammar, s.project.Start, version).RunStdio()
		},
	}

	pf.register(cmd)

	return cmd
}

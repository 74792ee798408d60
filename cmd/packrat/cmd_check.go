package main

import (
	"fmt"
	"os"

	"github.com/on-the-ground/packrat_ive_go/grammar"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:          "check <grammar>",
		Short:        "Verify an EBNF grammar",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}
			defer f.Close()

			g, err := grammar.Parse(args[0], f)
			if err != nil {
				return err
			}
			if err := grammar.Verify(g, start); err != nil {
				return err
			}
			if _, err := grammar.Build(g, start); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions, start %s\n", args[0], len(g), start)
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "start production")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

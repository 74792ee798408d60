package main

import (
	"fmt"
	"io"
	"os"

	"github.com/on-the-ground/packrat_ive_go/internal/logging"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var (
		flags     parserFlags
		showStats bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file with a grammar and print the result",
		Long: `Parse a file with the start production of an EBNF grammar.

If no file is given, or the file is "-", the input is read from stdin.
The match is printed as nested lists of strings.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := flags.logger(cmd.ErrOrStderr())
			defer logging.Sync(logger)

			var (
				input []byte
				err   error
			)
			if len(args) == 0 || args[0] == "-" {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				input, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			cache, err := flags.cache(logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			root, err := loadGrammar(cache, flags.grammarFile, flags.start)
			if err != nil {
				return err
			}
			parser, err := flags.parser(root, logger)
			if err != nil {
				return err
			}

			value, stats, err := parser.ParseWithStats(string(input))
			if showStats {
				fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %s, %d hits, %d misses, %d entries\n",
					stats.RunID, stats.Span.Duration(), stats.Hits, stats.Misses, stats.Entries)
			}
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), describeFailure(err))
				return err
			}
			return writeValue(cmd.OutOrStdout(), flags.format, value)
		},
	}

	addParserFlags(cmd, &flags)
	cmd.Flags().BoolVar(&showStats, "stats", false, "print cache statistics to stderr")

	return cmd
}

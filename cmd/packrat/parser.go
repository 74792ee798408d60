package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/on-the-ground/packrat_ive_go/atoms"
	"github.com/on-the-ground/packrat_ive_go/grammar"
	"github.com/on-the-ground/packrat_ive_go/internal/logging"
	"github.com/on-the-ground/packrat_ive_go/memo"
	"github.com/on-the-ground/packrat_ive_go/peg"
	"github.com/on-the-ground/packrat_ive_go/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// parserFlags are shared by every command that runs a grammar.
type parserFlags struct {
	grammarFile string
	start       string
	optimize    bool
	partial     bool
	reporter    string
	store       string
	format      string
	verbose     bool
}

func addParserFlags(cmd *cobra.Command, f *parserFlags) {
	cmd.Flags().StringVarP(&f.grammarFile, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start production")
	cmd.Flags().BoolVar(&f.optimize, "optimize", false, "fold literal sequences before parsing")
	cmd.Flags().BoolVar(&f.partial, "partial", false, "accept a match that leaves input unconsumed")
	cmd.Flags().StringVar(&f.reporter, "reporter", "tree", "error reporter: tree, deepest or none")
	cmd.Flags().StringVar(&f.store, "store", "map", "memo store: map, trie or memdb")
	cmd.Flags().StringVar(&f.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log parser internals")
	_ = cmd.MarkFlagRequired("grammar")
	_ = cmd.MarkFlagRequired("start")
}

func (f *parserFlags) logger(w io.Writer) *zap.Logger {
	if f.verbose {
		return logging.New(w, logging.Debug)
	}
	return logging.New(w, logging.Warn)
}

func (f *parserFlags) cache(logger *zap.Logger) (*grammar.Cache, error) {
	opts := []grammar.CacheOption{grammar.WithCacheLogger(logger)}
	if f.optimize {
		opts = append(opts, grammar.WithCacheOptimizer())
	}
	return grammar.NewCache(64, opts...)
}

func (f *parserFlags) parser(root atoms.Atom, logger *zap.Logger) (*peg.Parser, error) {
	opts := []peg.Option{peg.WithLogger(logger)}
	if f.partial {
		opts = append(opts, peg.WithPartial())
	}

	switch f.reporter {
	case "tree":
		opts = append(opts, peg.WithReporter(func() atoms.Reporter { return report.NewTree() }))
	case "deepest":
		opts = append(opts, peg.WithReporter(func() atoms.Reporter { return report.NewDeepest(5) }))
	case "none":
		opts = append(opts, peg.WithReporter(func() atoms.Reporter { return nil }))
	default:
		return nil, fmt.Errorf("unknown reporter %q", f.reporter)
	}

	switch f.store {
	case "map":
		opts = append(opts, peg.WithStore(memo.NewMapStore[atoms.Entry]))
	case "trie":
		opts = append(opts, peg.WithStore(func() memo.Store[atoms.Entry] {
			return memo.NewTrieStore[atoms.Entry]()
		}))
	case "memdb":
		tmpl, err := memo.NewMemDBTemplate[atoms.Entry]()
		if err != nil {
			return nil, err
		}
		opts = append(opts, peg.WithStore(func() memo.Store[atoms.Entry] {
			return tmpl.NewStore()
		}))
	default:
		return nil, fmt.Errorf("unknown store %q", f.store)
	}

	return peg.New(root, opts...), nil
}

func loadGrammar(cache *grammar.Cache, path, start string) (atoms.Atom, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return cache.GetOrCompile(path, string(text), start)
}

func writeValue(w io.Writer, format string, value any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// describeFailure renders a parse error with its cause tree when there is one.
func describeFailure(err error) string {
	var failed *peg.ParseFailed
	if errors.As(err, &failed) && failed.Cause != nil {
		return failed.Cause.Tree()
	}
	return err.Error() + "\n"
}

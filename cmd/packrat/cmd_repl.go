package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/on-the-ground/packrat_ive_go/grammar"
	"github.com/on-the-ground/packrat_ive_go/internal/logging"
	"github.com/on-the-ground/packrat_ive_go/peg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	historyFile = ".packrat_history"
	prompt      = "peg> "
)

func newReplCmd() *cobra.Command {
	var flags parserFlags

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse lines interactively",
		Long: `Read lines from a prompt and parse each one with the grammar.

Commands:
  :start <Prod>  switch the start production
  :reload        re-read the grammar file
  :quit          leave`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := flags.logger(cmd.ErrOrStderr())
			defer logging.Sync(logger)

			cache, err := flags.cache(logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			s := &session{flags: &flags, cache: cache, logger: logger, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			if err := s.load(); err != nil {
				return err
			}
			return s.run()
		},
	}

	addParserFlags(cmd, &flags)

	return cmd
}

type session struct {
	flags  *parserFlags
	cache  *grammar.Cache
	logger *zap.Logger
	parser *peg.Parser
	out    io.Writer
	errOut io.Writer
}

func (s *session) load() error {
	root, err := loadGrammar(s.cache, s.flags.grammarFile, s.flags.start)
	if err != nil {
		return err
	}
	parser, err := s.flags.parser(root, s.logger)
	if err != nil {
		return err
	}
	s.parser = parser
	return nil
}

func (s *session) run() error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := s.command(strings.Fields(line)); quit {
				return nil
			}
			continue
		}
		s.parse(line)
	}
}

func (s *session) command(fields []string) (quit bool) {
	switch fields[0] {
	case ":quit":
		return true
	case ":start":
		if len(fields) != 2 {
			fmt.Fprintln(s.errOut, "usage: :start <Prod>")
			return false
		}
		previous := s.flags.start
		s.flags.start = fields[1]
		if err := s.load(); err != nil {
			s.flags.start = previous
			fmt.Fprintln(s.errOut, err)
		}
	case ":reload":
		if err := s.load(); err != nil {
			fmt.Fprintln(s.errOut, err)
		}
	default:
		fmt.Fprintln(s.errOut, "unknown command. Type :quit to exit.")
	}
	return false
}

func (s *session) parse(line string) {
	value, err := s.parser.Parse(line)
	if err != nil {
		fmt.Fprint(s.errOut, describeFailure(err))
		return
	}
	if err := writeValue(s.out, s.flags.format, value); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
}

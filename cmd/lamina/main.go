// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command lamina is the Lamina interpreter CLI.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"nickandperla.net/lamina/internal/config"
	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/scanner"
	"nickandperla.net/lamina/internal/store"
	"nickandperla.net/lamina/internal/token"
	"nickandperla.net/lamina/pkg/lamina"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process globals. It returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lamina", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr     = fs.String("e", "", "Evaluate a Lamina expression or statements")
		file        = fs.String("f", "", "Execute a Lamina file")
		configPath  = fs.String("config", "", "Config file (default $HOME/"+config.DefaultFile+" when present)")
		dbPath      = fs.String("db", "", "SQLite database path (empty string for memory only)")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn, error")
		seed        = fs.Int64("seed", 0, "Seed for rand, randint and randstr")
		maxDepth    = fs.Int("max-depth", 0, "Maximum call depth")
		timeout     = fs.Duration("timeout", 0, "Time limit for each evaluation (0 for none)")
		persistMode = fs.String("persist-mode", "", "Persistence mode: on_demand, always, or never")
		noStdlib    = fs.Bool("no-stdlib", false, "Disable the standard prelude")
		interactive = fs.Bool("i", false, "Start the REPL even when stdin is not a terminal")
		showVersion = fs.Bool("version", false, "Print the version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, lamina.Version())
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	// Flags given on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = *dbPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "seed":
			cfg.Seed = seed
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "timeout":
			cfg.Timeout = *timeout
		case "persist-mode":
			cfg.PersistMode = *persistMode
		case "no-stdlib":
			cfg.NoStdlib = *noStdlib
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(cfg.Level())

	st, err := openStore(cfg.DB)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Debug().Str("db", cfg.DB).Str("persist_mode", cfg.Mode().String()).Msg("store opened")

	opts := []lamina.Option{
		lamina.WithStore(st),
		lamina.WithPersistMode(cfg.Mode()),
		lamina.WithLogger(logger),
		lamina.WithMaxDepth(cfg.MaxDepth),
		lamina.WithTimeout(cfg.Timeout),
		lamina.WithOutput(stdout),
	}
	if cfg.Seed != nil {
		opts = append(opts, lamina.WithSeed(*cfg.Seed))
	}
	if cfg.NoStdlib {
		opts = append(opts, lamina.WithNoStdlib())
	} else {
		prelude, err := cfg.PreludeSource()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if prelude != "" {
			opts = append(opts, lamina.WithPrelude(prelude))
		}
	}

	// One reader for the whole run, shared by input() and the REPL.
	in := bufio.NewReader(stdin)
	opts = append(opts, lamina.WithInputReader(func(prompt string) (string, error) {
		if prompt != "" {
			fmt.Fprint(stdout, prompt)
		}
		return in.ReadString('\n')
	}))

	interp := lamina.New(opts...)
	defer interp.Close()

	if *file == "" && fs.NArg() > 0 {
		*file = fs.Arg(0)
	}

	switch {
	case *evalStr != "":
		out, err := evalOrExecute(interp, *evalStr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if out != "" {
			fmt.Fprintln(stdout, out)
		}

	case *file != "":
		if err := interp.ExecuteFile(*file); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}

	case *interactive || isTerminal(stdin):
		r := newREPL(interp, in, stdout, st, logger)
		r.loadHistory(cfg.HistorySize)
		return r.run(stdin)

	default:
		// Piped input runs as one program.
		if err := interp.ExecuteReader(in); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func openStore(path string) (store.Store, error) {
	if path == "" || path == ":memory:" {
		return store.NewMemory(), nil
	}
	return store.NewSQLite(path)
}

// evalOrExecute evaluates src as an expression, running it as statements
// when it does not parse as one. A null result prints nothing.
func evalOrExecute(interp *lamina.Interpreter, src string) (string, error) {
	if isStatement(src) {
		return "", interp.Execute(src)
	}
	out, err := interp.Eval(src)
	if errors.Is(err, diag.ParseError) {
		return "", interp.Execute(src)
	}
	if err != nil {
		return "", err
	}
	if out == "null" {
		return "", nil
	}
	return out, nil
}

// isStatement reports whether src opens with a statement keyword. A named
// function literal is a declaration here.
func isStatement(src string) bool {
	items, err := scanner.Tokenize(src)
	if err != nil || len(items) == 0 {
		return false
	}
	switch items[0].Token {
	case token.VAR, token.BIGINT, token.IF, token.WHILE, token.FOR,
		token.RETURN, token.BREAK, token.CONTINUE:
		return true
	case token.FUNC:
		return len(items) > 1 && items[1].Token == token.IDENT
	}
	return false
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// braceDepth reports how many (, [ and { in src are still open. String
// literals and comments are skipped.
func braceDepth(src string) int {
	depth := 0
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '"':
			for i++; i < len(rs) && rs[i] != '"'; i++ {
				if rs[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 < len(rs) && rs[i+1] == '/' {
				for i < len(rs) && rs[i] != '\n' {
					i++
				}
			} else if i+1 < len(rs) && rs[i+1] == '*' {
				end := strings.Index(string(rs[i+2:]), "*/")
				if end < 0 {
					return depth + 1
				}
				i += 2 + len([]rune(string(rs[i+2:])[:end])) + 1
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth
}

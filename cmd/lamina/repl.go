// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"nickandperla.net/lamina/internal/store"
	"nickandperla.net/lamina/pkg/lamina"
)

const helpText = `Commands:
  :help                 show this help
  :vars                 list variables
  :reset                clear all variables
  :save name...         persist variables
  :load name...         load persisted variables
  :history name [n]     show stored versions of a variable
  :rollback name v      restore version v of a variable
  :quit                 exit
Expressions print their value; statements run silently.
Input continues on the next line while brackets are open.`

type repl struct {
	interp  *lamina.Interpreter
	in      *bufio.Reader
	out     io.Writer
	hist    store.InputHistory
	session string
	lines   []string // input history, oldest first
	log     zerolog.Logger
	nl      string // "\r\n" in raw mode
}

func newREPL(interp *lamina.Interpreter, in *bufio.Reader, out io.Writer, st store.Store, log zerolog.Logger) *repl {
	r := &repl{
		interp:  interp,
		in:      in,
		out:     out,
		session: uuid.NewString(),
		log:     log,
		nl:      "\n",
	}
	r.hist, _ = st.(store.InputHistory)
	return r
}

// loadHistory fills the arrow-key history from earlier sessions.
func (r *repl) loadHistory(limit int) {
	if r.hist == nil {
		return
	}
	lines, err := r.hist.RecentInputs(limit)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to load input history")
		return
	}
	r.lines = lines
}

func (r *repl) remember(entry string) {
	r.lines = append(r.lines, entry)
	if r.hist == nil {
		return
	}
	if err := r.hist.AppendInput(r.session, entry); err != nil {
		r.log.Warn().Err(err).Msg("failed to save input history")
	}
}

func (r *repl) printf(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	fmt.Fprint(r.out, strings.ReplaceAll(s, "\n", r.nl))
}

// run starts the REPL and returns the exit status.
func (r *repl) run(stdin io.Reader) int {
	r.printf("%s (type :help for commands, Ctrl+D to exit)\n", lamina.Version())

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if r.runRaw(int(f.Fd())) {
			return 0
		}
	}
	r.runBasic()
	return 0
}

// runBasic handles non-TTY input.
func (r *repl) runBasic() {
	r.loop(func(prompt string) (string, bool) {
		r.printf("%s", prompt)
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			r.printf("\n")
			return "", true
		}
		return strings.TrimRight(line, "\r\n"), false
	})
}

// runRaw handles TTY input with line editing. It reports false when raw
// mode is unavailable.
func (r *repl) runRaw(fd int) bool {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to set raw mode")
		return false
	}
	defer term.Restore(fd, oldState)
	r.nl = "\r\n"
	defer func() { r.nl = "\n" }()

	ed := &lineEditor{in: os.Stdin, out: r.out}

	// input() has to read through the editor while the terminal is raw.
	r.interp.SetInputReader(func(prompt string) (string, error) {
		r.printf("%s", prompt)
		line, eof := ed.readLine(nil)
		if eof {
			return "", io.EOF
		}
		return line + "\n", nil
	})

	r.loop(func(prompt string) (string, bool) {
		r.printf("%s", prompt)
		return ed.readLine(r.lines)
	})
	return true
}

// loop reads entries until EOF or :quit. An entry spans lines while its
// brackets are open.
func (r *repl) loop(readLine func(prompt string) (string, bool)) {
	var entry strings.Builder
	for {
		prompt := ">>> "
		if entry.Len() > 0 {
			prompt = "... "
		}
		line, eof := readLine(prompt)
		if eof {
			return
		}
		if entry.Len() > 0 {
			entry.WriteString("\n")
		}
		entry.WriteString(line)

		src := entry.String()
		if braceDepth(src) > 0 {
			continue
		}
		entry.Reset()

		if strings.TrimSpace(src) == "" {
			continue
		}
		r.remember(src)
		if !r.handle(strings.TrimSpace(src)) {
			return
		}
	}
}

// handle runs one entry and reports whether the REPL should continue.
func (r *repl) handle(src string) bool {
	if strings.HasPrefix(src, ":") {
		return r.command(strings.Fields(src))
	}
	out, err := evalOrExecute(r.interp, src)
	if err != nil {
		r.printf("Error: %v\n", err)
		return true
	}
	if out != "" {
		r.printf("%s\n", out)
	}
	return true
}

func (r *repl) command(fields []string) bool {
	args := fields[1:]
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return false
	case ":help":
		r.printf("%s\n", helpText)
	case ":vars":
		for _, name := range r.interp.Names() {
			if strings.HasPrefix(name, "__") {
				continue
			}
			v, _ := r.interp.GetVariable(name)
			r.printf("%s = %s\n", name, v)
		}
	case ":reset":
		r.interp.Reset()
		r.printf("Environment reset\n")
	case ":save":
		if len(args) == 0 {
			r.printf("usage: :save name...\n")
			break
		}
		if r.interp.PersistMode() == lamina.PersistNever {
			r.printf("persistence is disabled (persist mode NEVER)\n")
			break
		}
		if err := r.interp.Persist(args...); err != nil {
			r.printf("Error: %v\n", err)
			break
		}
		r.printf("Saved %s\n", strings.Join(args, ", "))
	case ":load":
		if len(args) == 0 {
			r.printf("usage: :load name...\n")
			break
		}
		if err := r.interp.Load(args...); err != nil {
			r.printf("Error: %v\n", err)
			break
		}
		r.printf("Loaded %s\n", strings.Join(args, ", "))
	case ":history":
		if len(args) == 0 || len(args) > 2 {
			r.printf("usage: :history name [n]\n")
			break
		}
		limit := 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				r.printf("Error: invalid count %q\n", args[1])
				break
			}
			limit = n
		}
		entries, err := r.interp.History(args[0], limit)
		if err != nil {
			r.printf("Error: %v\n", err)
			break
		}
		if len(entries) == 0 {
			r.printf("no stored versions of %s\n", args[0])
		}
		for _, e := range entries {
			r.printf("%4d  %s  %s\n", e.Version, e.Ts, e.Value)
		}
	case ":rollback":
		if len(args) != 2 {
			r.printf("usage: :rollback name version\n")
			break
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			r.printf("Error: invalid version %q\n", args[1])
			break
		}
		if err := r.interp.Rollback(args[0], v); err != nil {
			r.printf("Error: %v\n", err)
			break
		}
		out, _ := r.interp.GetVariable(args[0])
		r.printf("%s = %s\n", args[0], out)
	default:
		r.printf("unknown command %s (type :help)\n", fields[0])
	}
	return true
}

// Command lox runs Lox programs.
//
// With a file argument it executes the script and exits 65 on compile-time
// errors, 70 on runtime errors, 0 on success. With no arguments it starts a
// line-editing REPL whose session state persists across lines; a line that
// is a single expression echoes its value.
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

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	lox "github.com/daios-ai/lox"
)

const (
	appName     = "lox"
	historyFile = ".lox_history"
	prompt      = "> "
)

var colorize = isatty.IsTerminal(os.Stdout.Fd())

func blue(s string) string {
	if !colorize {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	args := os.Args[1:]
	switch {
	case len(args) > 1:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
		os.Exit(64)
	case len(args) == 1:
		os.Exit(runFile(args[0]))
	default:
		os.Exit(runREPL())
	}
}

// -----------------------------------------------------------------------------
// file mode
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 74
	}

	reporter := lox.NewReporter(os.Stderr)
	reporter.Source = string(src)
	reporter.Color = isatty.IsTerminal(os.Stderr.Fd())
	ip := lox.NewInterpreter(reporter)

	lox.Run(ip, reporter, string(src))
	switch {
	case reporter.HadError:
		return 65
	case reporter.HadRuntimeError:
		return 70
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runREPL() int {
	fmt.Printf("Lox %s REPL\nCtrl+C cancels input, Ctrl+D exits.\n", lox.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	reporter := lox.NewReporter(os.Stderr)
	reporter.Color = isatty.IsTerminal(os.Stderr.Fd())
	ip := lox.NewInterpreter(reporter)

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		runLine(ip, reporter, line)
		ln.AppendHistory(line)
	}
}

// runLine executes one REPL line. Errors are reported and swallowed so the
// session keeps going; a lone expression statement echoes its value.
func runLine(ip *lox.Interpreter, reporter *lox.Reporter, src string) {
	reporter.Reset()
	reporter.Source = src

	tokens := lox.NewLexer(src, reporter).Scan()
	stmts := lox.Parse(tokens, reporter)
	if reporter.HadError {
		return
	}
	lox.NewResolver(ip, reporter).Resolve(stmts)
	if reporter.HadError {
		return
	}

	if len(stmts) == 1 {
		if es, ok := stmts[0].(*lox.ExprStmt); ok {
			v, err := ip.Evaluate(es.Expression)
			if err != nil {
				reporter.Runtime(err.(*lox.RuntimeError))
				return
			}
			fmt.Println(blue(lox.FormatValue(v)))
			return
		}
	}
	ip.Interpret(stmts)
}

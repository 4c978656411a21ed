// Command lox runs a script or starts an interactive session.
//
// Usage:
//
//	lox [script]
//
// With a script path the program runs it and exits 0 on success, 65 on
// a syntax or resolution error, 70 on a runtime error. With no
// arguments it starts a REPL that keeps globals alive across lines.
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

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	lox "github.com/Joker666/Lox"
)

const (
	appName     = "lox"
	historyFile = ".lox_history"
	prompt      = "> "
)

var errColor = color.New(color.FgRed)

func main() {
	// Color only when stderr is a terminal.
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	switch len(os.Args) {
	case 1:
		os.Exit(runPrompt())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
		os.Exit(64)
	}
}

// diagWriter routes diagnostics through the error color.
type diagWriter struct{ w io.Writer }

func (d diagWriter) Write(p []byte) (int, error) {
	errColor.Fprint(d.w, string(p))
	return len(p), nil
}

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}

	diag := lox.NewDiagnostics(diagWriter{w: os.Stderr})
	ip := lox.NewInterpreter(os.Stdout)
	ip.Run(string(src), diag)

	switch {
	case diag.HadError:
		return 65
	case diag.HadRuntimeError:
		return 70
	default:
		return 0
	}
}

func runPrompt() int {
	fmt.Println("Lox REPL. Ctrl+C cancels input, Ctrl+D exits.")

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
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
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

	diag := lox.NewDiagnostics(diagWriter{w: os.Stderr})
	ip := lox.NewInterpreter(os.Stdout)

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
			errColor.Fprintln(os.Stderr, err.Error())
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		ip.Run(line, diag)
		// A bad line shouldn't poison the session.
		diag.Reset()
		diag.HadRuntimeError = false

		ln.AppendHistory(line)
	}
}

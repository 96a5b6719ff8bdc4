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

	"github.com/peterh/liner"

	"github.com/mattiacci/parser-lib/css"
	"github.com/mattiacci/parser-lib/internal/termwidth"
)

const (
	historyFile = ".cssevents_history"
	promptMain  = "css> "
	promptCont  = "...> "
)

const banner = "cssevents REPL\nCtrl+C cancels input, Ctrl+D exits."

// cmdRepl runs an interactive loop: each submitted snippet is parsed
// with ParseRule as a standalone rule and its fired events are
// printed. A bare declaration with no selector and braces is reported
// as a parse error.
func cmdRepl(opts css.Options) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
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

	w := termwidth.Get(os.Stdout)

	for {
		code, ok := readByBraceBalance(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if strings.TrimSpace(code) == ":quit" {
			return 0
		}

		p := css.NewParser(code, opts)
		printEvents(p, w)
		if err := p.ParseRule(); err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByBraceBalance prompts for lines until braces balance (or the
// first line contains none at all, for a bare one-line declaration),
// concatenating them with newlines.
func readByBraceBalance(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	depth := 0
	sawBrace := false

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		for _, r := range line {
			switch r {
			case '{':
				depth++
				sawBrace = true
			case '}':
				depth--
			}
		}

		if !sawBrace || depth <= 0 {
			return b.String(), true
		}
	}
}

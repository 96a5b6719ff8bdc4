// Command cssevents parses a CSS stylesheet and prints the event
// stream the Grammar Engine fires for it, one line per event, for
// inspecting a parse without writing Go code against cssevent
// directly.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"crawshaw.io/iox"

	"github.com/mattiacci/parser-lib/css"
	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/csscharset"
	"github.com/mattiacci/parser-lib/cssevent"
	"github.com/mattiacci/parser-lib/cssindex"
	"github.com/mattiacci/parser-lib/internal/termwidth"
)

func main() {
	log.SetFlags(0)

	flagFile := flag.String("file", "", "stylesheet to parse (default: stdin)")
	flagCharset := flag.String("charset", "", "transport-level charset hint, e.g. from a Content-Type header")
	flagStrict := flag.Bool("strict", false, "abort on the first syntax error instead of recovering")
	flagStarHack := flag.Bool("starhack", true, "accept the IE6/7 '*' property hack")
	flagUnderscoreHack := flag.Bool("underscorehack", true, "accept the IE6 '_' property hack")
	flagIEFilters := flag.Bool("iefilters", true, "accept IE 'progid:...()' filter terms")
	flagIndex := flag.String("index", "", "also write the parse into a cssindex database at this path")
	flagRepl := flag.Bool("repl", false, "start an interactive read-eval-print loop instead of parsing a file")

	flag.Parse()

	opts := css.Options{
		StarHack:       *flagStarHack,
		UnderscoreHack: *flagUnderscoreHack,
		IEFilters:      *flagIEFilters,
		Strict:         *flagStrict,
		Logf:           log.Printf,
	}

	if *flagRepl {
		os.Exit(cmdRepl(opts))
	}
	os.Exit(cmdParse(opts, *flagFile, *flagCharset, *flagIndex))
}

func cmdParse(opts css.Options, file, transportCharset, indexPath string) int {
	filer := iox.NewFiler(0)
	buf := filer.BufferFile(0)
	defer buf.Close()

	var r io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			log.Printf("cssevents: %v", err)
			return 1
		}
		defer f.Close()
		r = f
	}
	if _, err := io.Copy(buf, r); err != nil {
		log.Printf("cssevents: reading input: %v", err)
		return 1
	}

	if _, err := buf.Seek(0, 0); err != nil {
		log.Printf("cssevents: %v", err)
		return 1
	}
	raw, err := ioutil.ReadAll(buf)
	if err != nil {
		log.Printf("cssevents: %v", err)
		return 1
	}

	text, charset, err := csscharset.Decode(raw, transportCharset)
	if err != nil {
		log.Printf("cssevents: charset: %v", err)
		return 1
	}
	log.Printf("charset: %s", charset)

	p := css.NewParser(text, opts)
	w := termwidth.Get(os.Stdout)
	printEvents(p, w)

	var indexErr error
	if indexPath != "" {
		pool, err := cssindex.Open(indexPath)
		if err != nil {
			log.Printf("cssevents: index: %v", err)
			return 1
		}
		defer pool.Close()
		conn := pool.Get(nil)
		defer pool.Put(conn)

		ix := cssindex.New(opts)
		if file == "" {
			file = "<stdin>"
		}
		_, indexErr = ix.Index(conn, file, text)
	}

	if err := p.Parse(); err != nil {
		log.Printf("cssevents: parse: %v", err)
		return 1
	}
	if indexErr != nil {
		log.Printf("cssevents: index: %v", indexErr)
		return 1
	}
	return 0
}

// printEvents registers a listener on every event kind except the
// stylesheet and page-margin start/end events, writing a one-line
// human-readable summary to stdout, cut short to w's width when w is a
// terminal that reports one.
func printEvents(p *css.Parser, w termwidth.Info) {
	print := func(line string) {
		if w.IsTTY && w.Width > 0 && len(line) > w.Width {
			line = line[:w.Width-1] + "…"
		}
		fmt.Println(line)
	}

	p.AddListener(cssevent.StartRule, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.RulePayload)
		print(fmt.Sprintf("rule %s {", renderSelectors(pl.Selectors)))
	})
	p.AddListener(cssevent.EndRule, func(ev cssevent.Event) { print("}") })
	p.AddListener(cssevent.Property, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.PropertyPayload)
		bang := ""
		if pl.Important {
			bang = " !important"
		}
		print(fmt.Sprintf("  %s: %s%s;", pl.Property.Name, renderValue(pl.Value), bang))
	})
	p.AddListener(cssevent.Charset, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.CharsetPayload)
		print(fmt.Sprintf("@charset %q;", pl.Charset))
	})
	p.AddListener(cssevent.Import, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.ImportPayload)
		print(fmt.Sprintf("@import %q;", pl.URI))
	})
	p.AddListener(cssevent.Namespace, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.NamespacePayload)
		print(fmt.Sprintf("@namespace %s %q;", pl.Prefix, pl.URI))
	})
	p.AddListener(cssevent.StartMedia, func(ev cssevent.Event) { print("@media {") })
	p.AddListener(cssevent.EndMedia, func(ev cssevent.Event) { print("}") })
	p.AddListener(cssevent.StartPage, func(ev cssevent.Event) { print("@page {") })
	p.AddListener(cssevent.EndPage, func(ev cssevent.Event) { print("}") })
	p.AddListener(cssevent.StartFontFace, func(ev cssevent.Event) { print("@font-face {") })
	p.AddListener(cssevent.EndFontFace, func(ev cssevent.Event) { print("}") })
	p.AddListener(cssevent.Error, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.ErrorPayload)
		print(fmt.Sprintf("error: %s (line %d, col %d)", pl.Message, pl.Line, pl.Col))
	})
}

func renderSelectors(selectors []cssast.Selector) string {
	parts := make([]string, len(selectors))
	for i, sel := range selectors {
		var b strings.Builder
		for j, seq := range sel.Sequences {
			if j > 0 {
				b.WriteString(sel.Combinators[j-1].String())
			}
			if seq.Type != nil {
				b.WriteString(seq.Type.Name)
			}
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

func renderValue(e cssast.Expr) string {
	var b strings.Builder
	for _, item := range e.Items {
		if item.Term != nil {
			if item.Term.Text != "" {
				b.WriteString(item.Term.Text)
			} else {
				fmt.Fprintf(&b, "%g%s", item.Term.Number, item.Term.Unit)
			}
		} else {
			b.WriteString(item.Operator.String())
		}
	}
	return b.String()
}

// Package csshtml locates the CSS embedded in an HTML document — the
// contents of every <style> element and every style="" attribute —
// and feeds each into a css.Parser, so a caller never has to walk the
// DOM itself to find CSS worth parsing.
package csshtml

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	a "golang.org/x/net/html/atom"

	"github.com/mattiacci/parser-lib/css"
	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/cssevent"
)

// Declaration is one property: value pair collected from a rule.
type Declaration struct {
	Property  cssast.PropertyName
	Value     cssast.Expr
	Important bool
}

// Rule is a flattened ruleset: its selectors (empty for an inline
// style="" attribute, which has none) and its declarations. Rules
// nested inside @media are flattened into the same list as top-level
// rules — Extractor does not preserve the media context a rule came
// from, since callers embedding this CSS into an already-rendered page
// don't need it.
type Rule struct {
	Selectors    []cssast.Selector
	Declarations []Declaration
}

// InlineRule pairs a Rule parsed from a style="" attribute with the
// tag name of the element it came from, for diagnostics.
type InlineRule struct {
	Tag  string
	Rule Rule
}

// Extracted is the result of walking one HTML document.
type Extracted struct {
	StyleSheets []Rule // one flattened rule list per <style> element found, concatenated
	Inline      []InlineRule
	Errors      []error // parse errors encountered along the way, collected rather than aborting the walk
}

// Extractor pulls embedded CSS out of HTML documents, parsing each
// piece under the same Options.
type Extractor struct {
	Options css.Options
}

// New returns an Extractor that parses embedded CSS under opts.
func New(opts css.Options) *Extractor {
	return &Extractor{Options: opts}
}

// Extract walks r as an HTML document, in document order, collecting
// every <style> element's rules and every style="" attribute's
// declarations.
func (e *Extractor) Extract(r io.Reader) (*Extracted, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	res := &Extracted{}
	e.walk(doc, res)
	return res, nil
}

func (e *Extractor) walk(n *html.Node, res *Extracted) {
	if n.Type == html.ElementNode {
		if n.DataAtom == a.Style {
			rules, err := e.parseStyleElement(textContent(n))
			if err != nil {
				res.Errors = append(res.Errors, err)
			} else {
				res.StyleSheets = append(res.StyleSheets, rules...)
			}
		}
		for _, attr := range n.Attr {
			if attr.Key != "style" {
				continue
			}
			rule, err := e.parseInlineStyle(attr.Val)
			if err != nil {
				res.Errors = append(res.Errors, err)
				continue
			}
			res.Inline = append(res.Inline, InlineRule{Tag: n.Data, Rule: rule})
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c, res)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// parseStyleElement parses a full stylesheet, flattening every ruleset
// event it fires (regardless of @media nesting) into a []Rule.
func (e *Extractor) parseStyleElement(text string) ([]Rule, error) {
	p := css.NewParser(text, e.Options)
	var rules []Rule
	var cur *Rule
	p.AddListener(cssevent.StartRule, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.RulePayload)
		cur = &Rule{Selectors: pl.Selectors}
	})
	p.AddListener(cssevent.Property, func(ev cssevent.Event) {
		if cur == nil {
			return
		}
		pl := ev.Payload.(cssevent.PropertyPayload)
		cur.Declarations = append(cur.Declarations, Declaration{
			Property: pl.Property, Value: pl.Value, Important: pl.Important,
		})
	})
	p.AddListener(cssevent.EndRule, func(ev cssevent.Event) {
		if cur == nil {
			return
		}
		rules = append(rules, *cur)
		cur = nil
	})
	if err := p.Parse(); err != nil {
		return rules, err
	}
	return rules, nil
}

// parseInlineStyle parses a style="" attribute's text, which is a bare
// declaration list with no selector or braces. It is parsed as a
// synthetic rule body so the same Grammar Engine production
// (declarations) that handles a <style> block's rule bodies handles
// this too.
func (e *Extractor) parseInlineStyle(text string) (Rule, error) {
	p := css.NewParser("csshtml_inline{"+text+"}", e.Options)
	rule := Rule{}
	p.AddListener(cssevent.Property, func(ev cssevent.Event) {
		pl := ev.Payload.(cssevent.PropertyPayload)
		rule.Declarations = append(rule.Declarations, Declaration{
			Property: pl.Property, Value: pl.Value, Important: pl.Important,
		})
	})
	if err := p.ParseRule(); err != nil {
		return rule, err
	}
	return rule, nil
}

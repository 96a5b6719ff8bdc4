package csshtml

import (
	"strings"
	"testing"

	"github.com/mattiacci/parser-lib/css"
)

func TestExtractStyleElement(t *testing.T) {
	doc := `<html><head><style>a { color: red; } .b { x: 1 }</style></head><body></body></html>`
	e := New(css.Options{})
	res, err := e.Extract(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.StyleSheets) != 2 {
		t.Fatalf("got %d rules, want 2: %+v", len(res.StyleSheets), res.StyleSheets)
	}
	if len(res.StyleSheets[0].Declarations) != 1 || res.StyleSheets[0].Declarations[0].Property.Name != "color" {
		t.Errorf("got %+v", res.StyleSheets[0])
	}
}

func TestExtractInlineStyle(t *testing.T) {
	doc := `<html><body><p style="color: blue; font-size: 12px">hi</p></body></html>`
	e := New(css.Options{})
	res, err := e.Extract(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}
	if len(res.Inline) != 1 {
		t.Fatalf("got %d inline rules, want 1: %+v", len(res.Inline), res.Inline)
	}
	if len(res.Inline[0].Rule.Declarations) != 2 {
		t.Fatalf("got %+v", res.Inline[0].Rule)
	}
	if res.Inline[0].Tag != "p" {
		t.Errorf("got tag %q, want p", res.Inline[0].Tag)
	}
}

func TestExtractSkipsInvalidCSS(t *testing.T) {
	doc := `<html><head><style>a { color: ]]] }</style></head></html>`
	e := New(css.Options{Strict: true})
	res, err := e.Extract(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Extract error = %v", err)
	}
	if len(res.Errors) == 0 {
		t.Errorf("expected a collected parse error for malformed CSS")
	}
}

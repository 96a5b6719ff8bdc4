package css

import (
	"github.com/mattiacci/parser-lib/cssast"
	"github.com/mattiacci/parser-lib/cssevent"
)

// run executes fn, converting any panic raised by the grammar engine
// (a *SyntaxError, *ReaderError, or tokenstream's lookahead errors)
// into a returned error. Apart from the ruleset and declaration-block
// recovery boundaries (topLevelRuleset, declarationRecovering), which
// turn a recovered panic into an error event when Strict is off, this
// is the only place a panic originating in this package stops
// propagating.
func (p *Parser) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()
	fn()
	return nil
}

// Parse runs the full stylesheet production, firing StartStyleSheet
// before and EndStyleSheet after every other event.
func (p *Parser) Parse() error {
	return p.run(func() {
		p.Fire(cssevent.Event{Kind: cssevent.StartStyleSheet})
		p.stylesheet()
		p.expectEOF()
		p.Fire(cssevent.Event{Kind: cssevent.EndStyleSheet})
	})
}

// ParseMediaQuery parses a standalone media query list, such as the
// contents of a <link media="..."> attribute.
func (p *Parser) ParseMediaQuery() ([]cssast.MediaQuery, error) {
	var list []cssast.MediaQuery
	err := p.run(func() {
		p.skipS()
		list = p.mediaQueryList()
		p.skipS()
		p.expectEOF()
	})
	return list, err
}

// ParsePropertyValue parses a standalone declaration value, such as the
// contents of an HTML style="..." attribute's property value.
func (p *Parser) ParsePropertyValue() (*cssast.Expr, error) {
	var expr *cssast.Expr
	err := p.run(func() {
		p.skipS()
		expr = p.expr()
		p.skipS()
		p.expectEOF()
	})
	return expr, err
}

// ParseRule parses a single ruleset, firing exactly the events that
// ruleset would fire within a full stylesheet, with no surrounding
// StartStyleSheet/EndStyleSheet.
func (p *Parser) ParseRule() error {
	return p.run(func() {
		p.skipSpaceCDOCDC()
		p.ruleset()
		p.skipSpaceCDOCDC()
		p.expectEOF()
	})
}

// ParseSelector parses a single selector (no grouping comma), such as
// one produced by a DOM query-selector style API.
func (p *Parser) ParseSelector() (cssast.Selector, error) {
	var sel cssast.Selector
	err := p.run(func() {
		p.skipS()
		sel = p.selector()
		p.skipS()
		p.expectEOF()
	})
	return sel, err
}
